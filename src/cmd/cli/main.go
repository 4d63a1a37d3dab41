package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"task-goblin/src/automation"
	"task-goblin/src/config"
	"task-goblin/src/vision"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	filePath   string
	jsonOutput bool
	verbose    bool
	languages  string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"taskgoblin-ocr"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskgoblin-ocr",
		Short:         "Recognize text in a PNG with the system recognizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.languages, "languages", "", "Recognition languages, comma separated (default from config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Starting OCR tool\n")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	languages := cfg.OCRLanguages
	if opts.languages != "" {
		languages = splitLanguages(opts.languages)
	}
	if len(languages) == 0 {
		return fmt.Errorf("no recognition languages configured")
	}

	deadline := time.Duration(cfg.OCRDeadlineSec) * time.Second

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Languages: %s\n", strings.Join(languages, ","))
		fmt.Fprintf(os.Stderr, "[verbose] Deadline: %s\n", deadline)
	}

	return processImage(opts.filePath, languages, deadline, opts.jsonOutput, opts.verbose)
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		switch {
		case arg == "-file":
			normalized[i] = "--file"
		case strings.HasPrefix(arg, "-file="):
			normalized[i] = "--file=" + arg[len("-file="):]
		case arg == "-json":
			normalized[i] = "--json"
		case strings.HasPrefix(arg, "-json="):
			normalized[i] = "--json=" + arg[len("-json="):]
		case arg == "-verbose":
			normalized[i] = "--verbose"
		case strings.HasPrefix(arg, "-verbose="):
			normalized[i] = "--verbose=" + arg[len("-verbose="):]
		case arg == "-languages":
			normalized[i] = "--languages"
		case strings.HasPrefix(arg, "-languages="):
			normalized[i] = "--languages=" + arg[len("-languages="):]
		}
	}

	return normalized
}

func splitLanguages(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func processImage(filePath string, languages []string, deadline time.Duration, jsonOutput, verbose bool) error {
	imagePath, cleanup, err := resolveImagePath(filePath, verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	recognizer := vision.New(automation.NewRunner(), languages, deadline)

	startTime := time.Now()
	text, err := recognizer.Recognize(context.Background(), imagePath)
	elapsed := time.Since(startTime)

	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Recognition failed after %v: %v\n", elapsed, err)
		}
		return fmt.Errorf("recognition failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Recognition completed in %v, extracted %d characters\n", elapsed, len(text))
	}

	return outputResult(os.Stdout, text, filePath, elapsed, jsonOutput)
}

// resolveImagePath validates the input and returns a path the recognizer can
// read. Stdin input is spilled to a temporary file that cleanup removes.
func resolveImagePath(filePath string, verbose bool) (string, func(), error) {
	var imageData []byte
	var err error

	if filePath == "-" {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from stdin\n")
		}
		imageData, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from file: %s\n", filePath)
		}
		imageData, err = os.ReadFile(filePath)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
	}

	if err := validatePNG(imageData); err != nil {
		return "", nil, err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Read %d bytes, PNG validation passed\n", len(imageData))
	}

	if filePath != "-" {
		return filePath, func() {}, nil
	}

	tmp, err := os.CreateTemp("", "taskgoblin_cli_*.png")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func validatePNG(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("input file is empty")
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return fmt.Errorf("input is not a valid PNG file (invalid magic number)")
	}
	return nil
}

type OCRResult struct {
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func outputResult(w io.Writer, text string, sourcePath string, elapsed time.Duration, jsonOutput bool) error {
	if jsonOutput {
		result := OCRResult{
			Text:      text,
			Source:    sourcePath,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  elapsed.Seconds(),
			CharCount: len(text),
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	} else {
		fmt.Fprint(w, text)
	}

	return nil
}
