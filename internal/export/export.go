// Package export writes converted study material to disk and the clipboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/styles"
)

// Format is an export file format.
type Format string

const (
	Markdown Format = "md"
	Text     Format = "txt"
	PDF      Format = "pdf"
)

// Formats lists the formats in the order they are offered.
var Formats = []Format{Markdown, Text, PDF}

// ParseFormat accepts "md", "markdown", "txt", "text" or "pdf".
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "md", "markdown":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want md, txt or pdf)", raw)
	}
}

// Next cycles through Formats.
func (f Format) Next() Format {
	for i, candidate := range Formats {
		if candidate == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return Markdown
}

// DefaultBaseName derives "study_<label>" from a style label.
func DefaultBaseName(style styles.Style) string {
	return "study_" + strings.ReplaceAll(strings.ToLower(style.Label), " ", "_")
}

// FileName joins a user supplied base name with the format extension. Any
// directory part or known extension the user typed is dropped.
func FileName(base string, format Format) string {
	base = filepath.Base(strings.TrimSpace(base))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, f := range Formats {
		if ext == "."+string(f) {
			base = strings.TrimSuffix(base, filepath.Ext(base))
			break
		}
	}
	if base == "" {
		base = "study"
	}
	return base + "." + string(format)
}

// Document is a finished conversion ready to export.
type Document struct {
	Markdown string
	Style    styles.Style
	// BaseName overrides the default file name (without extension).
	BaseName string
}

// PDFRenderer prints an HTML page to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Exporter writes documents into Dir.
type Exporter struct {
	Dir    string
	PDF    PDFRenderer
	Logger *zap.Logger
}

// ErrEmptyDocument is returned when there is nothing to export.
var ErrEmptyDocument = errors.New("nothing to export")

// Export writes doc in the requested format and returns the file path.
// Markdown and text exports are the raw Markdown source.
func (e *Exporter) Export(ctx context.Context, doc Document, format Format) (string, error) {
	if strings.TrimSpace(doc.Markdown) == "" {
		return "", ErrEmptyDocument
	}
	base := doc.BaseName
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseName(doc.Style)
	}
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(base, format))

	var data []byte
	switch format {
	case Markdown, Text:
		data = []byte(doc.Markdown)
	case PDF:
		if e.PDF == nil {
			return "", errors.New("pdf export is not configured")
		}
		page, err := HTMLDocument(doc.Markdown, doc.Style.Label)
		if err != nil {
			return "", err
		}
		data, err = e.PDF.RenderPDF(ctx, page)
		if err != nil {
			return "", fmt.Errorf("render pdf: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if e.Logger != nil {
		e.Logger.Info("exported study material",
			zap.String("path", path),
			zap.String("format", string(format)),
			zap.Int("bytes", len(data)))
	}
	return path, nil
}
