package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound is returned when no visible post has the requested slug.
	ErrNotFound = errors.New("post not found")

	// ErrConfiguration is returned when the content root is missing or unreadable.
	ErrConfiguration = errors.New("invalid content configuration")

	// ErrMalformedContent marks a single content file that cannot become a post.
	ErrMalformedContent = errors.New("malformed content")

	// ErrDuplicateSlug is reported for a file whose slug is already taken.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// ContentError describes why a single content file was skipped.
// It matches ErrMalformedContent with errors.Is.
type ContentError struct {
	Path string
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ContentError) Unwrap() error { return e.Err }

func (e *ContentError) Is(target error) bool {
	return target == ErrMalformedContent
}

// Malformed builds a ContentError for path.
func Malformed(path string, format string, args ...any) *ContentError {
	return &ContentError{Path: path, Err: fmt.Errorf(format, args...)}
}
