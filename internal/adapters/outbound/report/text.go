package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/domain"
)

// TextWriter implements domain.ReportWriter with the plain-text layout shown
// on the terminal.
type TextWriter struct{}

func NewTextWriter() *TextWriter { return &TextWriter{} }

// Write saves the report to path, creating parent directories as needed.
func (w *TextWriter) Write(path string, report *domain.Report) error {
	return writeFile(path, []byte(tui.PlainText(report)))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
