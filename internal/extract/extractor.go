// Package extract provides text extraction from uploaded document formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists upload formats the extractor accepts, in the
// order they are named in user-facing messages.
var SupportedExtensions = []string{".pdf", ".epub", ".txt"}

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether filename has a supported extension
// (case-insensitive suffix match).
func (e *Extractor) Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Extract reads the file at path and returns its text content.
// Returns an error if the file cannot be read or the format is unsupported.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".epub" {
		return e.ExtractEPUB(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from in-memory content based on the given
// extension. ext should include the leading dot (e.g. ".pdf"). EPUB content
// cannot be extracted from bytes directly; use ExtractUpload or ExtractEPUB.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".txt":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("unsupported extension %q", ext)
	}
}

// ExtractUpload extracts text from an uploaded attachment. PDF and plain
// text are read from the in-memory bytes; EPUB is materialized to a
// temporary file under tempDir first, because the archive reader needs
// file-based access. The temporary file is removed on every exit path.
func (e *Extractor) ExtractUpload(filename string, content []byte, tempDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".epub" {
		return e.extractEPUBBytes(content, tempDir)
	}
	return e.ExtractBytes(content, ext)
}
