package extract

import (
	"archive/zip"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// EPUB is a ZIP of XHTML content documents plus packaging metadata. Document
// items are identified by extension; they are read in container order, markup
// is stripped, and the results are joined with newlines.

var (
	epubScriptStyle = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	epubTag         = regexp.MustCompile(`<[^>]*>`)
)

// ExtractEPUB extracts text from the EPUB file at path. The archive reader
// requires file-based access, which is why this takes a path rather than bytes.
func (e *Extractor) ExtractEPUB(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("extract EPUB: not a zip: %w", err)
	}
	defer zr.Close()

	var parts []string
	for _, f := range zr.File {
		if !isEPUBDocumentItem(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract EPUB: open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract EPUB: read %s: %w", f.Name, err)
		}
		if text := stripMarkup(string(data)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractEPUBBytes materializes content to a temporary file under tempDir and
// extracts from it. The file is always removed, including on extraction failure.
func (e *Extractor) extractEPUBBytes(content []byte, tempDir string) (string, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("extract EPUB: create temp dir: %w", err)
	}
	tmpPath := filepath.Join(tempDir, uuid.New().String()+".epub")
	if err := os.WriteFile(tmpPath, content, 0600); err != nil {
		return "", fmt.Errorf("extract EPUB: write temp file: %w", err)
	}
	defer os.Remove(tmpPath)
	return e.ExtractEPUB(tmpPath)
}

// isEPUBDocumentItem reports whether an archive entry is a content document
// (XHTML/HTML) rather than packaging metadata, images, or styles.
func isEPUBDocumentItem(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xhtml", ".html", ".htm":
		return true
	}
	return false
}

// stripMarkup removes script/style blocks and tags, unescapes HTML entities,
// and trims the result.
func stripMarkup(s string) string {
	s = epubScriptStyle.ReplaceAllString(s, " ")
	s = epubTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	// Collapse runs of spaces and tabs left behind by removed tags, but keep
	// line structure.
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
