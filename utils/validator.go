// utils/validator.go - Input validation
package utils

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxUploadBytes caps document and review uploads at 10 MB.
const MaxUploadBytes = 10 << 20

// IsPDFFilename checks the file extension. Content-level PDF validation is
// the upload pipeline's job; this is the cheap first gate.
func IsPDFFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ValidateUpload checks an uploaded file header before it is stored.
func ValidateUpload(header *multipart.FileHeader) (bool, string) {
	if header == nil {
		return false, "file is required"
	}
	if !IsPDFFilename(header.Filename) {
		return false, "only PDF files are accepted"
	}
	if header.Size > MaxUploadBytes {
		return false, "file exceeds the 10 MB limit"
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
