package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFieldName validates a dataset field name used as a dimension.
// Field names come from CSV headers, config files and HTTP requests.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDimension, "field name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidDimension, "field name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDimension, "field name contains invalid control characters")
		}
	}

	return nil
}

// viewNameRegex matches view names usable in URLs and interaction scripts.
var viewNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// ValidateViewName validates a view name.
func ValidateViewName(name string) error {
	if !viewNameRegex.MatchString(name) {
		return New(ErrCodeInvalidView, "invalid view name: %q", name)
	}
	return nil
}

// ValidatePath validates a dataset or output path given on the command line
// or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURI validates a data source URI for safety.
// Only mongodb and mongodb+srv schemes are accepted.
func ValidateURI(rawURI string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}

	if !strings.HasPrefix(rawURI, "mongodb://") && !strings.HasPrefix(rawURI, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}
