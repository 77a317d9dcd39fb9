package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIDLength bounds identity ids accepted from documents and query strings.
const maxIDLength = 256

// ValidateIdentityID validates an identity id coming from a document or a
// request parameter.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateIdentityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identity id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "identity id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identity id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "identity id %q has surrounding whitespace", id)
	}

	return nil
}

// documentExtensions lists the file extensions accepted as timeline documents.
var documentExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// ValidateDocumentPath validates a timeline document path.
// The path must be non-empty, free of null bytes and carry a known extension.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "document path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "document path contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !documentExtensions[ext] {
		return New(ErrCodeInvalidDocument, "unsupported document type %q (want .json, .yaml, .yml or .toml)", ext)
	}

	return nil
}
