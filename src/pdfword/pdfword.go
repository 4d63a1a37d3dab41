// Package pdfword converts PDF files to Word documents. The work happens in
// a private Python virtualenv running pdf2docx; the venv is created and the
// library installed on first use, then reused.
package pdfword

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"task-goblin/src/automation"
)

const venvDirName = ".taskgoblin_venv"

// ProgressFunc receives coarse progress so the UI can show a bar during the
// slow first-run setup.
type ProgressFunc func(step string, fraction float64)

type Converter struct {
	runner automation.Runner
	home   string
}

func New(runner automation.Runner) (*Converter, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	return &Converter{runner: runner, home: home}, nil
}

func (c *Converter) venvDir() string {
	return filepath.Join(c.home, venvDirName)
}

func (c *Converter) venvPython() string {
	return filepath.Join(c.venvDir(), "bin", "python3")
}

func (c *Converter) venvPip() string {
	return filepath.Join(c.venvDir(), "bin", "pip3")
}

// Convert turns pdfPath into a .docx in the user's Downloads folder and
// returns the output path.
func (c *Converter) Convert(ctx context.Context, pdfPath string, progress ProgressFunc) (string, error) {
	if progress == nil {
		progress = func(string, float64) {}
	}

	progress("Initializing converter...", 0.1)
	if _, err := os.Stat(pdfPath); err != nil {
		return "", errors.New("Selected PDF file does not exist locally.")
	}

	progress("Setting up Python environment...", 0.2)
	if err := c.ensureVenv(ctx); err != nil {
		return "", err
	}

	progress("Installing libraries (first time only)...", 0.4)
	if err := c.ensurePdf2docx(ctx); err != nil {
		return "", err
	}

	progress("Converting PDF to Word...", 0.6)
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	docxPath := filepath.Join(c.home, "Downloads", stem+".docx")
	if _, err := c.runner.Run(ctx, c.venvPython(), "-c", conversionScript(pdfPath, docxPath)); err != nil {
		var cmdErr *automation.CommandError
		if errors.As(err, &cmdErr) {
			return "", fmt.Errorf("Python script failed: %s | %s", cmdErr.Stdout, cmdErr.Stderr)
		}
		return "", fmt.Errorf("run conversion: %w", err)
	}

	log.Printf("PDF converted: %s", docxPath)
	progress("Done!", 1.0)
	return docxPath, nil
}

// ensureVenv creates the virtualenv when its interpreter is missing.
func (c *Converter) ensureVenv(ctx context.Context) error {
	if _, err := os.Stat(c.venvPython()); err == nil {
		return nil
	}
	log.Printf("PDF converter: creating venv at %s", c.venvDir())
	if _, err := c.runner.Run(ctx, "python3", "-m", "venv", c.venvDir()); err != nil {
		return fmt.Errorf("create python venv: %w", err)
	}
	return nil
}

// ensurePdf2docx installs the library into the venv if the import fails.
func (c *Converter) ensurePdf2docx(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, c.venvPython(), "-c", "import pdf2docx"); err == nil {
		return nil
	}
	log.Printf("PDF converter: installing pdf2docx")
	if _, err := c.runner.Run(ctx, c.venvPip(), "install", "pdf2docx"); err != nil {
		return fmt.Errorf("install pdf2docx: %w", err)
	}
	return nil
}

// conversionScript is a python -c one-shot. The tight margins keep short
// lines from merging into one paragraph in the output document.
func conversionScript(pdfPath, docxPath string) string {
	return fmt.Sprintf(`from pdf2docx import Converter
cv = Converter(%s)
cv.convert(%s, multi_processing=True, line_margin=0.5, word_margin=0.2, char_margin=0.05)
cv.close()`, pyString(pdfPath), pyString(docxPath))
}

// pyString renders s as a python string literal.
func pyString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
