package model

import (
	"errors"
	"strings"
)

// CodeLength is the exact length of an access code.
const CodeLength = 6

// ErrInvalidCodeFormat is returned for codes that are not exactly
// CodeLength ASCII letters or digits.
var ErrInvalidCodeFormat = errors.New("code must be exactly 6 alphanumeric characters")

// IsValidCode reports whether code has the access code shape. Surrounding
// whitespace is not trimmed.
func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// ValidateCode returns ErrInvalidCodeFormat when code is not a well-formed
// access code.
func ValidateCode(code string) error {
	if !IsValidCode(code) {
		return ErrInvalidCodeFormat
	}
	return nil
}

// NormalizeCode trims whitespace and lower-cases code. Lookups are
// case-insensitive, so stores and clients key on the normalized form.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
