// Package extract recovers the parts of a captured multipart/form-data body.
// A Session ties a message.Decoder to an output.Router: file uploads are
// written to output targets and other fields are handed to a Reporter as
// text.
package extract

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header"
	"github.com/arb33/multipart-form-decoder/message/walker"
	"github.com/arb33/multipart-form-decoder/output"
)

// Reporter receives a description of each part as it is decoded.
type Reporter interface {
	// Part is called once the part's header block has been read.
	Part(i int, h header.Header)

	// Saving is called before a file upload is written to target.
	Saving(target string)

	// NoTarget is called when a file upload is discarded because no output
	// target is left.
	NoTarget()

	// Field is called with the full body of a part that is not a file upload.
	Field(body []byte)
}

// Summary counts what a Session did.
type Summary struct {
	Parts     int   // parts decoded
	Saved     int   // file uploads written to a target
	Discarded int   // file uploads discarded for lack of a target
	Fields    int   // parts rendered as text
	Bytes     int64 // body bytes read, discarded ones included
}

// Session decodes one capture.
type Session struct {
	ID string

	d      *message.Decoder
	router output.Router
	rep    Reporter
	log    zerolog.Logger
}

// Option configures a Session.
type Option func(s *Session)

// WithLogger sets the logger for the session. Every event carries the
// session ID.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// New returns a Session that reads parts from d, sends bodies where router
// says, and describes each part to rep.
func New(d *message.Decoder, router output.Router, rep Reporter, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		d:      d,
		router: router,
		rep:    rep,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.ID).Logger()
	return s
}

// Run decodes every part. It stops at the first decoding, routing or sink
// error and returns it together with what had been done up to that point.
func (s *Session) Run() (*Summary, error) {
	sum := &Summary{}

	s.log.Info().Bytes("boundary", s.d.Boundary()).Msg("decoding capture")

	var pw walker.PartWalker = func(i int, h header.Header, d *message.Decoder) error {
		sum.Parts++
		return s.part(sum, i, h, d)
	}

	_, err := pw.Walk(s.d)
	if err != nil {
		s.log.Error().Err(err).Int("parts", sum.Parts).Msg("decoding stopped")
		return sum, err
	}

	s.log.Info().
		Int("parts", sum.Parts).
		Int("saved", sum.Saved).
		Int("discarded", sum.Discarded).
		Int("fields", sum.Fields).
		Int64("bytes", sum.Bytes).
		Msg("capture decoded")

	return sum, nil
}

func (s *Session) part(sum *Summary, i int, h header.Header, d *message.Decoder) error {
	s.rep.Part(i, h)

	rt, err := s.router.Route(h)
	if err != nil {
		return err
	}
	if err := rt.Check(); err != nil {
		if rt != nil && rt.Sink != nil {
			_ = rt.Sink.Close()
		}
		return fmt.Errorf("part %d: %w", i, err)
	}

	log := s.log.With().Int("part", i).Stringer("route", rt.Kind).Logger()
	if name := h.FieldName(); name != "" {
		log = log.With().Str("field", name).Logger()
	}

	switch rt.Kind {
	case output.Discard:
		s.rep.NoTarget()
		n, err := d.DiscardBodyData()
		sum.Bytes += n
		if err != nil {
			return err
		}
		sum.Discarded++
		log.Warn().Str("filename", h.Filename()).Int64("bytes", n).Msg("no output target left, file discarded")
		return nil

	case output.File:
		s.rep.Saving(rt.Target)
	}

	n, err := d.ReadBodyData(rt.Sink)
	sum.Bytes += n

	// the sink is released before the next part begins
	if cerr := rt.Sink.Close(); cerr != nil {
		cerr = fmt.Errorf("closing output for part %d: %w", i, cerr)
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return err
	}

	switch rt.Kind {
	case output.File:
		sum.Saved++
		log.Info().Str("target", rt.Target).Str("filename", h.Filename()).Int64("bytes", n).Msg("file saved")
	case output.Text:
		sum.Fields++
		s.rep.Field(rt.Sink.(output.Contents).Bytes())
		log.Debug().Int64("bytes", n).Msg("field read")
	}

	return nil
}
