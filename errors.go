package polyexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamingUnsupported is returned for a File whose contents are an
	// unbuffered stream.
	ErrStreamingUnsupported = errors.New("streaming not supported")

	// ErrMissingHostScript is returned when bindings were rewritten to calls
	// of synthesized functions but the document has no declaration to hold
	// them. Set Options.AllowMissingScript to downgrade it to a diagnostic.
	ErrMissingHostScript = errors.New("no component declaration for synthesized functions")

	// ErrMarkupParse is returned when the markup cannot be tokenized.
	ErrMarkupParse = errors.New("failed to parse markup")
)

// FileError is returned when a file cannot be processed
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
