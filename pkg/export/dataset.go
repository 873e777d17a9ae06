package export

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// Format names a rendered file type.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Dataset is a titled table. Each row holds one cell per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Validate checks every row is as wide as the header.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}

// Renderer turns a dataset into file bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// Filename builds a URL-safe file name such as "attendance-engineering-20240301-101500.csv".
func Filename(title string, format Format, at time.Time) string {
	base := slug.Make(title)
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s-%s.%s", base, at.UTC().Format("20060102-150405"), format)
}
