// Package progress shows how much of a capture has been read.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress renders a single progress bar tracking bytes read from a source.
type Progress struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// New returns a Progress that renders to w.
func New(w io.Writer) *Progress {
	return &Progress{
		progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(40)),
	}
}

// Track returns a reader that advances a bar of the given total as r is read.
// Only one source can be tracked.
func (p *Progress) Track(r io.Reader, total int64, name string) io.Reader {
	p.bar = p.progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersKibiByte("% .2f / % .2f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)
	return p.bar.ProxyReader(r)
}

// Wait stops the bar, even if the source was not read to the end, and blocks
// until rendering has finished.
func (p *Progress) Wait() {
	if p.bar != nil && !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.progress.Wait()
}
