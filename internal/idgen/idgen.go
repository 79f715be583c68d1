// Package idgen generates access codes and session identifiers backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/alfredjeanlab/folio/internal/model"
)

// CodeAlphabet is the character set for access codes. Codes are matched
// case-insensitively, so only lower-case letters are generated.
var CodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SessionAlphabet is the character set for session identifiers.
var SessionAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SessionLength is the number of characters in a session identifier.
var SessionLength = 21

// Code returns a new random access code of model.CodeLength characters.
func Code() (string, error) {
	code, err := nanoid.Generate(CodeAlphabet, model.CodeLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return code, nil
}

// SessionID returns a new unguessable session identifier.
func SessionID() (string, error) {
	id, err := nanoid.Generate(SessionAlphabet, SessionLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}
