package message

import (
	"errors"
	"fmt"
)

// Errors that occur while decoding. These are always returned wrapped in a
// *DecodeError, so test for them with errors.Is.
var (
	// ErrMalformedInput is returned when the input breaks the multipart
	// framing: the delimiter prefix is missing, a boundary line ends in
	// something other than CRLF or "--", or a header block is too large.
	ErrMalformedInput = errors.New("malformed multipart input")

	// ErrBoundaryNotFound is returned when no boundary can be found, either
	// within the lookahead window or before the input is exhausted.
	ErrBoundaryNotFound = errors.New("boundary not found")

	// ErrTruncatedInput is returned when the input ends in the middle of a
	// header block, a part body, or a boundary line.
	ErrTruncatedInput = errors.New("truncated multipart input")

	// ErrInvalidState is returned when a Decoder operation is called in a state
	// that does not allow it, including any call after the terminal boundary.
	ErrInvalidState = errors.New("invalid decoder state")
)

// DecodeError is returned by Decoder operations. It records which operation
// failed and how many bytes of the source had been consumed at the time, which
// is handy when going back to the capture with a hex editor.
type DecodeError struct {
	Op     string // the operation that failed, e.g. "read headers"
	Offset int64  // bytes of the source consumed when the failure was found
	Err    error  // the underlying error
}

// Error returns the operation, offset and underlying error as a string.
func (err *DecodeError) Error() string {
	return fmt.Sprintf("%s at byte %d: %v", err.Op, err.Offset, err.Err)
}

// Unwrap returns the underlying error.
func (err *DecodeError) Unwrap() error {
	return err.Err
}
