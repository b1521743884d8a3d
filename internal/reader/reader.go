// Package reader turns uploaded files into plain text for analysis.
// Plain text and markdown are supported; anything else is rejected with an
// UnsupportedFormatError before any session state is touched.
package reader

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// textExtensions are accepted without content sniffing.
var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".log":      true,
}

// UnsupportedFormatError is returned for files that are not plain text or a
// supported document format.
type UnsupportedFormatError struct {
	Path     string
	Detected string // MIME type or extension that caused the rejection
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q for %s: only plain text and markdown files can be analyzed", e.Detected, e.Path)
}

// ExtractText reads the file at path and returns its content as plain text.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && !textExtensions[ext] {
		return "", &UnsupportedFormatError{Path: path, Detected: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	// Extensionless files are sniffed; a binary payload behind a text
	// extension is rejected the same way.
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "text/") && len(data) > 0 {
		return "", &UnsupportedFormatError{Path: path, Detected: contentType}
	}

	return string(data), nil
}
