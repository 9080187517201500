package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "storePath" -> "store path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"storePath":      "store path",
		"outputPath":     "output path",
		"password":       "password",
		"hookPath":       "hook path",
		"passwordRepeat": "password confirmation",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidatePasswordsMatch checks that a password and its confirmation are equal
// and non-empty.
func ValidatePasswordsMatch(password, repeat string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if password != repeat {
		return &ValidationError{Field: "passwordRepeat", Message: "entered passwords do not match"}
	}
	return nil
}

// ExpandPath expands a leading ~ to the home directory and makes path absolute
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}
