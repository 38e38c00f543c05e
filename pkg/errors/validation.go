package errors

import (
	"regexp"
	"unicode"
)

// maxKeyLength bounds category and unit keys.
const maxKeyLength = 64

// keyRegex matches registry keys such as "fluid_ounce" or "square_meter".
var keyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateKey validates a category or unit key.
//
// Keys are lower-case identifiers: a letter followed by letters, digits or
// underscores, at most 64 characters. Request keys that fail validation can
// never match a registry entry, so callers may reject them early.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "key contains invalid control characters")
		}
	}

	if !keyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid key: %q", key)
	}

	return nil
}

// ValidateLabel validates a display name or symbol.
// Labels may contain any printable text but must not be empty.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}
