// Package idgen generates short, URL-safe session IDs backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix marks IDs of form-filling sessions.
const DefaultPrefix = "qs-"

// Alphabet defines the character set used for the random portion of the ID.
// Lowercase only, so IDs survive scanners that fold case.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 12

// Session returns a new session ID.
func Session() (string, error) {
	return WithPrefix(DefaultPrefix)
}

// MustSession is like Session but panics if the random source fails.
func MustSession() string {
	id, err := Session()
	if err != nil {
		panic(err)
	}
	return id
}

// WithPrefix returns a new ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
