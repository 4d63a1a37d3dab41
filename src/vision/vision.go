// Package vision extracts text from an image with the macOS Vision framework,
// invoked through a short swift -e program.
package vision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"task-goblin/src/automation"
)

// Recognizer runs Vision text recognition over image files.
type Recognizer struct {
	runner    automation.Runner
	languages []string
	deadline  time.Duration
}

// New builds a Recognizer. languages are BCP 47 tags tried in order; deadline
// bounds a single recognition run.
func New(runner automation.Runner, languages []string, deadline time.Duration) *Recognizer {
	return &Recognizer{runner: runner, languages: languages, deadline: deadline}
}

// script renders the swift program for one image. The program prints the
// recognized lines to stdout, or a single ERROR: line when recognition cannot
// run.
func script(imagePath string, languages []string) string {
	quoted := make([]string, len(languages))
	for i, lang := range languages {
		quoted[i] = fmt.Sprintf("%q", lang)
	}

	return fmt.Sprintf(`import Vision
import AppKit

let path = %q
guard let image = NSImage(contentsOfFile: path),
      let cgImage = image.cgImage(forProposedRect: nil, context: nil, hints: nil) else {
    print("ERROR: could not load image at \(path)")
    exit(0)
}

let request = VNRecognizeTextRequest()
request.recognitionLevel = .accurate
request.usesLanguageCorrection = true
request.recognitionLanguages = [%s]

let handler = VNImageRequestHandler(cgImage: cgImage, options: [:])
do {
    try handler.perform([request])
    let lines = (request.results ?? []).compactMap { $0.topCandidates(1).first?.string }
    print(lines.joined(separator: "\n"))
} catch {
    print("ERROR: \(error.localizedDescription)")
}`, imagePath, strings.Join(quoted, ", "))
}

// interpret maps the program's stdout to a result. A diagnostic line is
// returned verbatim as the error message.
func interpret(out string) (string, error) {
	text := strings.TrimSpace(out)
	if strings.HasPrefix(text, "ERROR:") {
		return "", errors.New(text)
	}
	return text, nil
}
