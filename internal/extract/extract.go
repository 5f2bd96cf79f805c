// Package extract implements the bytes-to-text collaborator used by the
// extraction worker. It recognizes PDF, DOCX and plain-text payloads by
// content sniffing rather than trusting a declared type.
// Libraries used: github.com/ledongthuc/pdf (PDF); DOCX is walked
// directly via archive/zip + encoding/xml.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument is returned when the payload cannot be decoded
// as any supported document format.
var ErrUnreadableDocument = errors.New("unreadable or unsupported document")

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	// ExtractText decodes the payload into plain text.
	// Returns ErrUnreadableDocument for corrupt or unsupported input.
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Extractor is the default TextExtractor implementation.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText decodes the payload into plain text, detecting the format
// from its leading bytes.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnreadableDocument)
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		return text, nil

	case bytes.HasPrefix(data, []byte("PK")):
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		return text, nil

	default:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: payload is not valid text", ErrUnreadableDocument)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("%w: payload contains no text", ErrUnreadableDocument)
		}
		return text, nil
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", errors.New("no extractable text in pdf")
	}
	return text, nil
}

func extractDOCX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	text := stripDocxXML(string(raw))
	if text == "" {
		return "", errors.New("no extractable text in docx")
	}
	return text, nil
}

// stripDocxXML walks the document XML keeping character data and turning
// paragraph and line-break boundaries into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
