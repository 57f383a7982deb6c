// Package console prints what happened to each decoded part.
package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/arb33/multipart-form-decoder/extract"
	"github.com/arb33/multipart-form-decoder/message/header"
)

// Arrow introduces every outcome line.
const Arrow = " -> "

// Printer is an extract.Reporter that writes to a terminal or any other
// io.Writer. For each part it prints the raw Content-Disposition value on one
// line, then the outcome on the next. Field text is written exactly as it
// was received.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer

	arrow   lipgloss.Style
	label   lipgloss.Style
	target  lipgloss.Style
	warning lipgloss.Style
}

var _ extract.Reporter = (*Printer)(nil)

// New returns a Printer writing to w. Colors are used only when w is a
// terminal that supports them and noColor is false.
func New(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:       w,
		r:       r,
		arrow:   r.NewStyle().Foreground(lipgloss.Color("#7d56f4")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true),
		target:  r.NewStyle().Foreground(lipgloss.Color("#28a745")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#ee4b2b")),
	}
}

// Part prints the part's Content-Disposition value, or a placeholder when the
// part has none.
func (p *Printer) Part(_ int, h header.Header) {
	if v, ok := h.Disposition(); ok {
		fmt.Fprintln(p.w, v)
		return
	}
	fmt.Fprintln(p.w, p.label.Render("(no "+header.ContentDisposition+")"))
}

// Saving prints the name of the target a file is saved to.
func (p *Printer) Saving(target string) {
	fmt.Fprintln(p.w, p.arrow.Render(Arrow)+p.label.Render("Saving data to ")+p.target.Render(target))
}

// NoTarget prints a warning that a file could not be saved.
func (p *Printer) NoTarget() {
	fmt.Fprintln(p.w, p.arrow.Render(Arrow)+
		p.warning.Render("Cannot save file data: insufficient output files specified."))
}

// Field prints the body of a non-file part as text.
func (p *Printer) Field(body []byte) {
	fmt.Fprint(p.w, p.arrow.Render(Arrow))
	_, _ = p.w.Write(body)
	fmt.Fprintln(p.w)
}

// Summary prints the totals for a run.
func (p *Printer) Summary(s *extract.Summary) {
	fmt.Fprintln(p.w, p.label.Render(fmt.Sprintf(
		"%d parts: %d saved, %d discarded, %d fields, %d body bytes",
		s.Parts, s.Saved, s.Discarded, s.Fields, s.Bytes,
	)))
}

// Listing describes one part in a part listing.
type Listing struct {
	Index       int
	Field       string
	Filename    string
	ContentType string
	Size        int64
}

// List prints a table of parts.
func (p *Printer) List(parts []Listing) {
	head := p.r.NewStyle().Bold(true).Padding(0, 1)
	cell := p.r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.label).
		Headers("#", "FIELD", "FILENAME", "CONTENT-TYPE", "BYTES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		})

	for _, l := range parts {
		t.Row(strconv.Itoa(l.Index), l.Field, l.Filename, l.ContentType, strconv.FormatInt(l.Size, 10))
	}

	fmt.Fprintln(p.w, t.String())
}
