// Package spreadsheet extracts text from Excel OOXML workbooks (.xlsx).
// Legacy binary .xls files are left to the generic fallback service.
package spreadsheet

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor pulls the textual cell content out of an xlsx container:
// the shared string table plus any inline strings in the worksheets.
// Numeric cells carry no searchable text and are ignored.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "spreadsheet" }

// Extensions returns the formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"xlsx"}
}

// Extract returns all string cell values, one per line.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: not an xlsx container: %w", path, domain.ErrEncryptedFile)
	}
	defer reader.Close()

	var parts []string
	for _, file := range reader.File {
		isShared := file.Name == "xl/sharedStrings.xml"
		isSheet := strings.HasPrefix(file.Name, "xl/worksheets/") &&
			strings.HasSuffix(file.Name, ".xml")
		if !isShared && !isSheet {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		if isShared {
			parts = append(parts, parseSharedStrings(data)...)
		} else {
			parts = append(parts, parseInlineStrings(data)...)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}

// sstXML represents xl/sharedStrings.xml.
type sstXML struct {
	Items []struct {
		Text  string `xml:"t"`
		Runs  []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// parseSharedStrings returns every entry of the shared string table.
// Rich-text entries split one string across runs.
func parseSharedStrings(data []byte) []string {
	var sst sstXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}
	out := make([]string, 0, len(sst.Items))
	for _, si := range sst.Items {
		s := si.Text
		for _, r := range si.Runs {
			s += r.Text
		}
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// sheetXML represents the inline-string cells of a worksheet.
type sheetXML struct {
	Cells []struct {
		Inline struct {
			Text string `xml:"t"`
		} `xml:"is"`
	} `xml:"sheetData>row>c"`
}

// parseInlineStrings returns inline string cell values.
func parseInlineStrings(data []byte) []string {
	var sheet sheetXML
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil
	}
	var out []string
	for _, c := range sheet.Cells {
		if strings.TrimSpace(c.Inline.Text) != "" {
			out = append(out, c.Inline.Text)
		}
	}
	return out
}
