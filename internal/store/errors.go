// Package store contains the relational access layer for words, tags,
// tokens and quiz results
package store

import "errors"

var (
	// ErrNotFound is returned when a word, tag, token or result doesn't exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTag is returned when a tag with the same name already exists
	ErrDuplicateTag = errors.New("tag name already taken")

	// ErrMissingExtensionProps is returned when a word is created or updated
	// without the attributes its part of speech requires
	ErrMissingExtensionProps = errors.New("missing extension props for part of speech")
)
