package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/arb33/multipart-form-decoder/message/header"
)

// Constants related to NewDecoder() options.
const (
	// DefaultBufferSize is the default size of the working buffer used to scan
	// header blocks and part bodies.
	DefaultBufferSize = 8192

	// DefaultMaxHeaderSize is the default maximum length of a single part's
	// header block.
	DefaultMaxHeaderSize = 10240
)

type decoderOpts struct {
	boundary      []byte
	lookahead     int
	bufferSize    int
	maxHeaderSize int
	logger        zerolog.Logger
}

// Option refers to options that may be passed to NewDecoder to modify how the
// decoder works.
type Option func(o *decoderOpts)

// WithBoundary is an Option that supplies the boundary instead of discovering
// it with Locate. This is useful when the boundary is known from the request's
// Content-Type header and the capture may start with a preamble. The boundary
// must not include the "--" prefix.
func WithBoundary(boundary []byte) Option {
	return func(o *decoderOpts) { o.boundary = bytes.Clone(boundary) }
}

// WithLookahead is an Option that sets the window Locate searches for the end
// of the first boundary line. The default is DefaultLookahead.
func WithLookahead(n int) Option {
	return func(o *decoderOpts) { o.lookahead = n }
}

// WithBufferSize is an Option that sets the size of the working buffer. The
// buffer is grown when it would be too small to hold the lookahead window or
// two delimiters. The default is DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(o *decoderOpts) { o.bufferSize = n }
}

// WithMaxHeaderSize is an Option that limits the length of a header block. A
// longer block fails with ErrMalformedInput. A value less than or equal to 0
// removes the limit. The default is DefaultMaxHeaderSize.
func WithMaxHeaderSize(n int) Option {
	return func(o *decoderOpts) { o.maxHeaderSize = n }
}

// WithLogger is an Option that sets the logger used to trace state changes at
// debug level. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *decoderOpts) { o.logger = logger }
}

// Decoder splits a multipart body into header blocks and part bodies. It owns
// a buffered reader over the source and is the only thing that may read from
// it. A Decoder is not safe for concurrent use.
//
// Once an operation fails, the Decoder keeps returning that error.
type Decoder struct {
	r             *bufio.Reader
	boundary      []byte
	delim         []byte // CRLF "--" boundary
	state         State
	offset        int64
	maxHeaderSize int
	log           zerolog.Logger
	err           error
}

// NewDecoder returns a Decoder reading from r, positioned in the Preamble
// state. Unless WithBoundary is given, the boundary is discovered with Locate,
// in which case the returned error, if any, wraps ErrMalformedInput or
// ErrBoundaryNotFound.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	o := decoderOpts{
		lookahead:     DefaultLookahead,
		bufferSize:    DefaultBufferSize,
		maxHeaderSize: DefaultMaxHeaderSize,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.lookahead <= 0 {
		o.lookahead = DefaultLookahead
	}

	size := o.bufferSize
	if o.boundary == nil {
		size = max(size, len(dashes)+o.lookahead)
	} else {
		size = max(size, 2*(len(o.boundary)+len(dashes)+len(header.CRLF)))
	}

	br := bufio.NewReaderSize(r, size)

	boundary := o.boundary
	if boundary == nil {
		var err error
		boundary, err = Locate(br, o.lookahead)
		if err != nil {
			return nil, &DecodeError{Op: "locate boundary", Offset: 0, Err: err}
		}
	} else if len(boundary) == 0 {
		return nil, &DecodeError{
			Op:  "locate boundary",
			Err: fmt.Errorf("%w: empty boundary", ErrMalformedInput),
		}
	}

	delim := make([]byte, 0, len(header.CRLF)+len(dashes)+len(boundary))
	delim = append(delim, header.CRLF.Bytes()...)
	delim = append(delim, dashes...)
	delim = append(delim, boundary...)

	d := &Decoder{
		r:             br,
		boundary:      boundary,
		delim:         delim,
		state:         Preamble,
		maxHeaderSize: o.maxHeaderSize,
		log:           o.logger,
	}

	d.log.Debug().
		Bytes("boundary", boundary).
		Int("buffer", br.Size()).
		Msg("decoder ready")

	return d, nil
}

// Boundary returns a copy of the boundary, without the "--" prefix.
func (d *Decoder) Boundary() []byte {
	return bytes.Clone(d.boundary)
}

// State returns the current state of the decoder.
func (d *Decoder) State() State {
	return d.state
}

// Offset returns the number of bytes consumed from the source so far.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// SkipPreamble discards everything up to and including the first boundary,
// then reads the rest of the boundary line just as ReadBoundary does. It
// returns true if a part follows and false if the first boundary was already
// the terminal one. If the input ends before a boundary is seen, it fails with
// ErrBoundaryNotFound.
func (d *Decoder) SkipPreamble() (bool, error) {
	const op = "skip preamble"
	if err := d.expect(op, Preamble); err != nil {
		return false, err
	}

	// the first boundary line is not preceded by a line break
	n, err := d.scan(nil, d.delim[len(header.CRLF):])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return false, d.fail(op, fmt.Errorf("%w: input ended after %d bytes of preamble", ErrBoundaryNotFound, n))
	} else if err != nil {
		return false, d.fail(op, err)
	}

	d.log.Debug().Int64("skipped", n).Msg("preamble skipped")
	d.transition(AtBoundary)

	return d.ReadBoundary()
}

// ReadRawHeaders reads the next header block and returns it without the blank
// line that ends it. An empty block is returned as an empty slice. If the input
// ends first, it fails with ErrTruncatedInput. If the block is larger than the
// maximum header size, it fails with ErrMalformedInput.
func (d *Decoder) ReadRawHeaders() ([]byte, error) {
	const op = "read headers"
	if err := d.expect(op, InHeaders); err != nil {
		return nil, err
	}

	block, err := d.readHeaderBlock()
	if err != nil {
		return nil, d.fail(op, err)
	}

	d.transition(InBody)
	return block, nil
}

// ReadHeaders reads the next header block and parses it with header.Parse.
// It fails in the same ways as ReadRawHeaders.
func (d *Decoder) ReadHeaders() (header.Header, error) {
	block, err := d.ReadRawHeaders()
	if err != nil {
		return nil, err
	}
	return header.Parse(block), nil
}

// ReadBodyData copies the body of the current part to w. The delimiter ending
// the body is consumed, but not written. The number of bytes written to w is
// returned. If the input ends before the delimiter, whatever was read is
// written and ErrTruncatedInput is returned. A write error from w aborts the
// read and is returned wrapped in a *DecodeError.
func (d *Decoder) ReadBodyData(w io.Writer) (int64, error) {
	return d.readBody("read body data", w)
}

// DiscardBodyData skips the body of the current part the same way
// ReadBodyData reads it. It returns the number of bytes skipped.
func (d *Decoder) DiscardBodyData() (int64, error) {
	return d.readBody("discard body data", nil)
}

func (d *Decoder) readBody(op string, w io.Writer) (int64, error) {
	if err := d.expect(op, InBody); err != nil {
		return 0, err
	}

	n, err := d.scan(w, d.delim)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, d.fail(op, fmt.Errorf("%w: input ended inside a part body", ErrTruncatedInput))
	} else if err != nil {
		return n, d.fail(op, err)
	}

	d.log.Debug().Int64("bytes", n).Bool("discarded", w == nil).Msg("body read")
	d.transition(AtBoundary)

	return n, nil
}

// ReadBoundary reads the two bytes that follow a boundary. A CRLF means
// another part follows and true is returned. A "--" marks the terminal
// boundary: false is returned and the decoder is Terminated. Anything else
// fails with ErrMalformedInput, and running out of input fails with
// ErrTruncatedInput.
func (d *Decoder) ReadBoundary() (bool, error) {
	const op = "read boundary"
	if err := d.expect(op, AtBoundary); err != nil {
		return false, err
	}

	p, err := d.r.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, d.fail(op, err)
	}

	switch {
	case len(p) < 2:
		return false, d.fail(op, fmt.Errorf("%w: input ended on a boundary line", ErrTruncatedInput))
	case bytes.Equal(p, dashes):
		d.discard(2)
		d.transition(Terminated)
		return false, nil
	case bytes.Equal(p, header.CRLF.Bytes()):
		d.discard(2)
		d.transition(InHeaders)
		return true, nil
	}

	return false, d.fail(op, fmt.Errorf("%w: unexpected %q after boundary", ErrMalformedInput, p))
}

// readHeaderBlock accumulates bytes up to the blank line that ends a header
// block and consumes the blank line.
func (d *Decoder) readHeaderBlock() ([]byte, error) {
	// a part with no headers starts with the blank line straight away
	if p, _ := d.r.Peek(len(header.CRLF)); bytes.Equal(p, header.CRLF.Bytes()) {
		d.discard(len(header.CRLF))
		return []byte{}, nil
	}

	blank := header.Blank.Bytes()
	block := []byte{}
	for {
		buf, err := d.r.Peek(d.r.Size())
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		if ix := bytes.Index(buf, blank); ix >= 0 {
			if err := d.checkHeaderSize(len(block) + ix); err != nil {
				return nil, err
			}
			block = append(block, buf[:ix]...)
			d.discard(ix + len(blank))
			return block, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: input ended inside a header block", ErrTruncatedInput)
		}

		// the tail might be the start of the blank line
		safe := len(buf) - (len(blank) - 1)
		if err := d.checkHeaderSize(len(block) + safe); err != nil {
			return nil, err
		}
		block = append(block, buf[:safe]...)
		d.discard(safe)
	}
}

func (d *Decoder) checkHeaderSize(n int) error {
	if d.maxHeaderSize > 0 && n > d.maxHeaderSize {
		return fmt.Errorf("%w: header block exceeds %d bytes", ErrMalformedInput, d.maxHeaderSize)
	}
	return nil
}

// scan passes bytes to w (or drops them when w is nil) until delim is found.
// The delimiter is consumed but never passed on. At most one buffer of input
// is held at a time; only the last len(delim)-1 bytes are kept back between
// reads since they might begin a delimiter. If the input ends first, every
// remaining byte is passed on and io.ErrUnexpectedEOF is returned.
func (d *Decoder) scan(w io.Writer, delim []byte) (int64, error) {
	var total int64
	for {
		buf, err := d.r.Peek(d.r.Size())
		if err != nil && !errors.Is(err, io.EOF) {
			return total, err
		}

		if ix := bytes.Index(buf, delim); ix >= 0 {
			n, werr := d.forward(w, buf[:ix])
			total += n
			if werr != nil {
				return total, werr
			}
			d.discard(len(delim))
			return total, nil
		}

		if err != nil {
			n, werr := d.forward(w, buf)
			total += n
			if werr != nil {
				return total, werr
			}
			return total, io.ErrUnexpectedEOF
		}

		n, werr := d.forward(w, buf[:len(buf)-(len(delim)-1)])
		total += n
		if werr != nil {
			return total, werr
		}
	}
}

// forward writes p to w and consumes however many bytes were written. With a
// nil w, all of p is consumed.
func (d *Decoder) forward(w io.Writer, p []byte) (int64, error) {
	if w == nil {
		d.discard(len(p))
		return int64(len(p)), nil
	}

	n, err := w.Write(p)
	d.discard(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// discard consumes n bytes that are already buffered.
func (d *Decoder) discard(n int) {
	m, _ := d.r.Discard(n)
	d.offset += int64(m)
}

// expect checks for a sticky error and that the decoder is in the given state.
func (d *Decoder) expect(op string, want State) error {
	if d.err != nil {
		return d.err
	}
	if d.state != want {
		return &DecodeError{
			Op:     op,
			Offset: d.offset,
			Err:    fmt.Errorf("%w: %s requires %s, decoder is %s", ErrInvalidState, op, want, d.state),
		}
	}
	return nil
}

// fail records err as the sticky error and returns it.
func (d *Decoder) fail(op string, err error) error {
	d.err = &DecodeError{Op: op, Offset: d.offset, Err: err}
	d.log.Debug().Err(d.err).Stringer("state", d.state).Msg("decoder failed")
	return d.err
}

func (d *Decoder) transition(to State) {
	d.log.Debug().
		Stringer("from", d.state).
		Stringer("to", to).
		Int64("offset", d.offset).
		Msg("state change")
	d.state = to
}
