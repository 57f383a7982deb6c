package extract_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arb33/multipart-form-decoder/extract"
	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header"
	"github.com/arb33/multipart-form-decoder/output"
)

const upload = "--XyZ\r\n" +
	"Content-Disposition: form-data; name=\"file\"; filename=\"a.txt\"\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"FILEDATA\r\n" +
	"--XyZ\r\n" +
	"Content-Disposition: form-data; name=\"name\"\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--XyZ--\r\n"

// recorder is a Reporter that keeps a line per event.
type recorder struct {
	events []string
}

func (r *recorder) Part(i int, h header.Header) {
	v, _ := h.Disposition()
	// v keeps the space that follows the colon
	r.events = append(r.events, "part:"+v)
}

func (r *recorder) Saving(target string) {
	r.events = append(r.events, "saving: "+filepath.Base(target))
}

func (r *recorder) NoTarget() {
	r.events = append(r.events, "no target")
}

func (r *recorder) Field(body []byte) {
	r.events = append(r.events, "field: "+string(body))
}

func newSession(t *testing.T, body string, router output.Router, rep extract.Reporter) *extract.Session {
	t.Helper()

	d, err := message.NewDecoder(strings.NewReader(body))
	require.NoError(t, err)

	return extract.New(d, router, rep)
}

func TestSession_Run(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.bin")
	rep := &recorder{}
	s := newSession(t, upload, output.NewTargets([]string{out}, nil), rep)

	sum, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, &extract.Summary{
		Parts:  2,
		Saved:  1,
		Fields: 1,
		Bytes:  int64(len("FILEDATA") + len("hello")),
	}, sum)

	assert.Equal(t, []string{
		`part: form-data; name="file"; filename="a.txt"`,
		"saving: out.bin",
		`part: form-data; name="name"`,
		"field: hello",
	}, rep.events)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "FILEDATA", string(got))
}

func TestSession_Run_NoTargets(t *testing.T) {
	t.Parallel()

	rep := &recorder{}
	s := newSession(t, upload, output.NewTargets(nil, nil), rep)

	sum, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Parts)
	assert.Equal(t, 0, sum.Saved)
	assert.Equal(t, 1, sum.Discarded)
	assert.Equal(t, 1, sum.Fields)
	assert.Equal(t, []string{
		`part: form-data; name="file"; filename="a.txt"`,
		"no target",
		`part: form-data; name="name"`,
		"field: hello",
	}, rep.events)
}

func TestSession_Run_SurplusTargets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")

	s := newSession(t, upload, output.NewTargets([]string{first, second}, nil), &recorder{})

	_, err := s.Run()
	require.NoError(t, err)

	assert.FileExists(t, first)
	assert.NoFileExists(t, second)
}

func TestSession_Run_TruncatedAfterHeaders(t *testing.T) {
	t.Parallel()

	body := "--XyZ\r\n" +
		"Content-Disposition: form-data; name=\"name\"\r\n" +
		"\r\n"

	rep := &recorder{}
	s := newSession(t, body, output.NewTargets(nil, nil), rep)

	sum, err := s.Run()
	assert.ErrorIs(t, err, message.ErrTruncatedInput)
	assert.Equal(t, 1, sum.Parts)
	assert.Equal(t, 0, sum.Fields)
	assert.Equal(t, []string{`part: form-data; name="name"`}, rep.events)
}

func TestSession_Run_Logs(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	d, err := message.NewDecoder(strings.NewReader(upload))
	require.NoError(t, err)

	s := extract.New(d, output.NewTargets(nil, nil), &recorder{},
		extract.WithLogger(zerolog.New(&logs)))
	require.NotEmpty(t, s.ID)

	_, err = s.Run()
	require.NoError(t, err)

	assert.Contains(t, logs.String(), `"session":"`+s.ID+`"`)
	assert.Contains(t, logs.String(), "no output target left")
	assert.Contains(t, logs.String(), "capture decoded")
}

type closeFailure struct {
	bytes.Buffer
	closed bool
}

var errClose = errors.New("disk full")

func (c *closeFailure) Close() error {
	c.closed = true
	return errClose
}

func TestSession_Run_SinkCloseError(t *testing.T) {
	t.Parallel()

	sink := &closeFailure{}
	open := func(string) (io.WriteCloser, error) { return sink, nil }

	s := newSession(t, upload, output.NewTargets([]string{"x"}, open), &recorder{})

	sum, err := s.Run()
	assert.ErrorIs(t, err, errClose)
	assert.ErrorContains(t, err, "closing output for part 0")
	assert.True(t, sink.closed)
	assert.Equal(t, "FILEDATA", sink.String())
	assert.Equal(t, 0, sum.Saved)
}

type writeFailure struct {
	closed bool
}

var errWrite = errors.New("write refused")

func (w *writeFailure) Write([]byte) (int, error) { return 0, errWrite }

func (w *writeFailure) Close() error {
	w.closed = true
	return nil
}

func TestSession_Run_SinkWriteError(t *testing.T) {
	t.Parallel()

	sink := &writeFailure{}
	open := func(string) (io.WriteCloser, error) { return sink, nil }

	s := newSession(t, upload, output.NewTargets([]string{"x"}, open), &recorder{})

	_, err := s.Run()
	assert.ErrorIs(t, err, errWrite)
	assert.True(t, sink.closed, "sink is closed even when the body read fails")
}

func TestSession_Run_OpenError(t *testing.T) {
	t.Parallel()

	open := func(string) (io.WriteCloser, error) { return nil, os.ErrPermission }

	rep := &recorder{}
	s := newSession(t, upload, output.NewTargets([]string{"locked"}, open), rep)

	sum, err := s.Run()
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.ErrorContains(t, err, `opening output target "locked"`)
	assert.Equal(t, 1, sum.Parts)
	assert.Len(t, rep.events, 1)
}

// routeFunc adapts a function to output.Router.
type routeFunc func(h header.Header) (*output.Route, error)

func (f routeFunc) Route(h header.Header) (*output.Route, error) { return f(h) }

type plainSink struct {
	bytes.Buffer
	closed bool
}

func (p *plainSink) Close() error {
	p.closed = true
	return nil
}

func TestSession_Run_BadRoute(t *testing.T) {
	t.Parallel()

	t.Run("file without sink", func(t *testing.T) {
		t.Parallel()

		router := routeFunc(func(header.Header) (*output.Route, error) {
			return &output.Route{Kind: output.File, Target: "x"}, nil
		})

		s := newSession(t, upload, router, &recorder{})
		sum, err := s.Run()
		assert.ErrorIs(t, err, output.ErrBadRoute)
		assert.ErrorContains(t, err, "part 0")
		assert.Equal(t, int64(0), sum.Bytes)
	})

	t.Run("text sink without contents", func(t *testing.T) {
		t.Parallel()

		sink := &plainSink{}
		router := routeFunc(func(header.Header) (*output.Route, error) {
			return &output.Route{Kind: output.Text, Sink: struct {
				io.Writer
				io.Closer
			}{sink, sink}}, nil
		})

		s := newSession(t, upload, router, &recorder{})
		_, err := s.Run()
		assert.ErrorIs(t, err, output.ErrBadRoute)
		assert.True(t, sink.closed)
		assert.Zero(t, sink.Len())
	})

	t.Run("text sink with contents", func(t *testing.T) {
		t.Parallel()

		rep := &recorder{}
		router := routeFunc(func(header.Header) (*output.Route, error) {
			return &output.Route{Kind: output.Text, Sink: &plainSink{}}, nil
		})

		s := newSession(t, upload, router, rep)
		sum, err := s.Run()
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Fields)
		assert.Contains(t, rep.events, "field: FILEDATA")
		assert.Contains(t, rep.events, "field: hello")
	})
}
