// Package render turns a titled list of lines into a downloadable document.
package render

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

const fontFamily = "body"

// Document is a title followed by one entry per line.
type Document struct {
	Title string
	Lines []string
}

// Renderer writes a Document in one file format.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, doc Document) error
}

// ForFormat returns the renderer for "pdf" or "txt".
func ForFormat(format string, fontPath string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "pdf":
		return &PDF{FontPath: fontPath}, nil
	case "txt", "text":
		return Text{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Text renders UTF-8 plain text, one line per entry.
type Text struct{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Extension() string { return "txt" }

func (Text) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n\n")
	for _, line := range doc.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PDF renders an A4 page with a 20pt header and 12pt items in a UTF-8
// TrueType font: the embedded DejaVu Sans Condensed, or the font at
// FontPath when set.
type PDF struct {
	FontPath string
}

func (*PDF) ContentType() string { return "application/pdf" }

func (*PDF) Extension() string { return "pdf" }

func (p *PDF) Render(w io.Writer, doc Document) error {
	pdf, err := p.build(doc)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func (p *PDF) build(doc Document) (*fpdf.Fpdf, error) {
	font := defaultFont
	if p.FontPath != "" {
		data, err := os.ReadFile(p.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read pdf font: %w", err)
		}
		font = data
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddUTF8FontFromBytes(fontFamily, "", font)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "", 20)
	pdf.MultiCell(0, 10, doc.Title, "", "L", false)
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "", 12)
	for _, line := range doc.Lines {
		pdf.MultiCell(0, 7, line, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf, nil
}
