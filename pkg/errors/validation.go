package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxLabelLength bounds labels accepted from the CLI and the HTTP API.
const maxLabelLength = 4096

// ValidateID validates a node or edge identifier supplied by a caller.
//
// Identifiers must be non-empty, at most 256 bytes and free of control
// characters. The store itself accepts any string; this guards the
// surfaces that take ids from users.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	return nil
}

// ValidateLabel validates a node or edge label.
// Newlines and tabs are allowed since edge labels are multi-line.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateImportFilename checks that an import path names a .json file.
func ValidateImportFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return New(ErrCodeInvalidPath, "import accepts .json files only, got %q", filepath.Base(path))
	}
	return nil
}
