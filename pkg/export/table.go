package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format names a tabular export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for formats other than csv, pdf and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Table is a titled grid of cells; every row has len(Columns) cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return errors.New("export requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Document is a rendered export ready to send.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseFormat accepts a case-insensitive format name, defaulting to csv when empty.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// Render encodes t in the requested format. basename gets the format's extension appended.
func Render(format Format, basename string, t Table) (*Document, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		data, err = renderCSV(t)
		contentType = "text/csv"
	case FormatPDF:
		data, err = renderPDF(t)
		contentType = "application/pdf"
	case FormatXLSX:
		data, err = renderXLSX(t)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &Document{Filename: basename + "." + string(format), ContentType: contentType, Data: data}, nil
}
