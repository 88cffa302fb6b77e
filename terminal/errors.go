package terminal

import (
	"errors"
	"fmt"

	"github.com/dotoki2k/terminal-blog/blog"
)

// ErrNotConfigured is reported when no content store is available.
var ErrNotConfigured = errors.New("content store not configured")

// UsageError reports a missing or invalid required argument.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return e.Usage }

// NotFoundError reports a slug lookup that matched nothing.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bash: cat: %s: No such file or directory", e.Slug)
}

func (e *NotFoundError) Unwrap() error { return blog.ErrNotFound }

// FetchError wraps a failed content store call.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// UnknownCommandError reports input whose command token is not recognized.
type UnknownCommandError struct {
	Input string
}

func (e *UnknownCommandError) Error() string {
	return "bash: command not found: " + e.Input
}
