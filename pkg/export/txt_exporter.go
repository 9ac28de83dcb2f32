package export

import (
	"bytes"
	"fmt"
	"strings"
)

// TXTExporter renders datasets into aligned plain text.
type TXTExporter struct{}

// NewTXTExporter constructs a plain text exporter.
func NewTXTExporter() *TXTExporter {
	return &TXTExporter{}
}

// Render produces a fixed width text table with the title and meta lines on
// top.
func (e *TXTExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("txt requires at least one header")
	}

	widths := make([]int, len(data.Headers))
	for i, header := range data.Headers {
		widths[i] = len(header)
	}
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			if l := len(row[header]); l > widths[i] {
				widths[i] = l
			}
		}
	}

	buf := &bytes.Buffer{}
	if data.Title != "" {
		fmt.Fprintln(buf, data.Title)
		fmt.Fprintln(buf, strings.Repeat("=", len(data.Title)))
	}
	for _, line := range data.Meta {
		fmt.Fprintln(buf, line)
	}
	if data.Title != "" || len(data.Meta) > 0 {
		fmt.Fprintln(buf)
	}

	writeLine := func(values func(i int) string) {
		parts := make([]string, len(data.Headers))
		for i := range data.Headers {
			parts[i] = fmt.Sprintf("%-*s", widths[i], values(i))
		}
		fmt.Fprintln(buf, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeLine(func(i int) string { return data.Headers[i] })
	writeLine(func(i int) string { return strings.Repeat("-", widths[i]) })
	for _, row := range data.Rows {
		r := row
		writeLine(func(i int) string { return r[data.Headers[i]] })
	}
	return buf.Bytes(), nil
}
