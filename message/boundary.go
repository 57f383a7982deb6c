package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arb33/multipart-form-decoder/message/header"
)

// DefaultLookahead is the number of bytes following the "--" prefix that
// Locate searches for the end of the first boundary line.
const DefaultLookahead = 1024

// dashes prefixes every boundary line and also suffixes the terminal one.
var dashes = []byte("--")

// Peeker is a byte source that can show upcoming bytes without consuming
// them. A *bufio.Reader is a Peeker.
type Peeker interface {
	Peek(n int) ([]byte, error)
}

// Locate discovers the boundary from the first line of a multipart body. The
// body must start with "--", and the boundary is every byte from there up to
// the first CRLF, which must fall within window bytes of the prefix. A window
// less than or equal to 0 means DefaultLookahead.
//
// Locate only peeks, so the read position of p is the same when it returns as
// when it was called, whether it succeeded or not. The returned boundary does
// not include the "--" prefix or the CRLF.
//
// A missing prefix or an empty boundary results in ErrMalformedInput. No CRLF
// within the window results in ErrBoundaryNotFound.
func Locate(p Peeker, window int) ([]byte, error) {
	if window <= 0 {
		window = DefaultLookahead
	}

	buf, err := p.Peek(len(dashes) + window)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if !bytes.HasPrefix(buf, dashes) {
		return nil, fmt.Errorf("%w: missing delimiter prefix", ErrMalformedInput)
	}

	ix := bytes.Index(buf[len(dashes):], header.CRLF.Bytes())
	switch {
	case ix < 0:
		return nil, fmt.Errorf("%w: no line terminator within the first %d bytes", ErrBoundaryNotFound, window)
	case ix == 0:
		return nil, fmt.Errorf("%w: empty boundary", ErrMalformedInput)
	}

	return bytes.Clone(buf[len(dashes) : len(dashes)+ix]), nil
}
