package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/arb33/multipart-form-decoder/message/header"
)

// Kind says what to do with a part's body.
type Kind int

const (
	// Text means the body is collected in memory and rendered as text.
	Text Kind = iota

	// File means the body is written to an output target.
	File

	// Discard means the body is a file, but no output target is left for it.
	Discard
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case File:
		return "file"
	case Discard:
		return "discard"
	}
	return "unknown"
}

// ErrBadRoute is returned by Route.Check for a route that cannot be used.
var ErrBadRoute = errors.New("unusable route")

// Contents is implemented by sinks that keep what was written to them. The
// Sink of a Text route must implement it so the body can be rendered;
// *Memory does.
type Contents interface {
	Bytes() []byte
}

// Route is the destination chosen for one part.
type Route struct {
	Kind   Kind
	Target string         // name of the output target, set for File
	Sink   io.WriteCloser // nil for Discard, a Contents for Text
}

// Check reports whether the route can receive a body. File and Text routes
// need a Sink, and a Text sink must also implement Contents.
func (r *Route) Check() error {
	if r == nil {
		return fmt.Errorf("%w: no route", ErrBadRoute)
	}

	switch r.Kind {
	case Discard:
		return nil
	case File, Text:
		if r.Sink == nil {
			return fmt.Errorf("%w: %s route has no sink", ErrBadRoute, r.Kind)
		}
		if _, ok := r.Sink.(Contents); r.Kind == Text && !ok {
			return fmt.Errorf("%w: text sink %T does not keep its contents", ErrBadRoute, r.Sink)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %d", ErrBadRoute, int(r.Kind))
}

// Router chooses a Route for each part from its parsed header. It is called
// once per part, in the order the parts appear. The caller owns the returned
// Sink and must close it as soon as the body has been read. Routes are
// expected to pass Route.Check.
type Router interface {
	Route(h header.Header) (*Route, error)
}

// Opener opens the named output target for writing.
type Opener func(name string) (io.WriteCloser, error)

// Targets is a Router that hands out a fixed, ordered list of output targets
// to file uploads as they are found. Parts that are not file uploads go to a
// Memory sink. Once the targets run out, file uploads are discarded.
type Targets struct {
	names []string
	next  int
	open  Opener
}

// NewTargets returns a Targets router for the given target names. If open is
// nil, CreateFile is used.
func NewTargets(names []string, open Opener) *Targets {
	if open == nil {
		open = CreateFile
	}
	return &Targets{
		names: append([]string(nil), names...),
		open:  open,
	}
}

// Remaining returns the number of targets that have not been handed out.
func (t *Targets) Remaining() int {
	return len(t.names) - t.next
}

// Route implements Router. A part is a file upload when its
// Content-Disposition header contains filename=". Failing to open a target is
// returned as an error; the target still counts as used.
func (t *Targets) Route(h header.Header) (*Route, error) {
	if !h.HasFilename() {
		return &Route{Kind: Text, Sink: &Memory{}}, nil
	}

	if t.Remaining() == 0 {
		return &Route{Kind: Discard}, nil
	}

	name := t.names[t.next]
	t.next++

	w, err := t.open(name)
	if err != nil {
		return nil, fmt.Errorf("opening output target %q: %w", name, err)
	}

	return &Route{Kind: File, Target: name, Sink: w}, nil
}
