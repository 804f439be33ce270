// Package docx normalises Word documents by reading the OOXML package.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts text from .docx files. The document body lives in
// word/document.xml inside the ZIP package.
type Normaliser struct{}

// New creates a DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority for this normaliser.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the paragraph text of a Word document. The title comes
// from the package's core properties, falling back to the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive", domain.ErrInvalidInput, raw.URI)
	}

	text, err := extractBodyText(reader)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text in %s", domain.ErrExtractEmpty, raw.URI)
	}

	metadata := copyMetadata(raw.Metadata)
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "docx"
	metadata["sourceType"] = string(domain.SourceWeb)

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:      raw.URI,
			Title:    extractTitle(reader, raw.URI),
			Content:  text,
			Metadata: metadata,
		},
	}, nil
}

// extractBodyText reads word/document.xml and joins its paragraphs with
// newlines. A package without a document part yields empty text.
func extractBodyText(reader *zip.Reader) (string, error) {
	content, err := readArchiveFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", nil
	}
	return parseBodyXML(content), nil
}

// documentXML mirrors the parts of word/document.xml we read. Element
// names match on the local part, so the wordprocessingml namespace prefix
// is irrelevant.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseBodyXML flattens the paragraph/run/text hierarchy into plain text,
// one line per paragraph.
func parseBodyXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var text strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			text.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				text.WriteString(t.Content)
			}
		}
	}

	return strings.TrimSpace(text.String())
}

// coreXML mirrors the title element of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads the document title from the package's core properties,
// falling back to the file name.
func extractTitle(reader *zip.Reader, uri string) string {
	if content, err := readArchiveFile(reader, "docProps/core.xml"); err == nil && content != nil {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil {
			if title := strings.TrimSpace(core.Title); title != "" {
				return title
			}
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" || name == "." {
		return "Untitled"
	}
	return name
}

// readArchiveFile returns the named file's bytes, or nil when the archive
// does not contain it.
func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", domain.ErrInvalidInput, name)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", domain.ErrInvalidInput, name)
		}
		return content, nil
	}
	return nil, nil
}

func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
