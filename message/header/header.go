package header

import (
	"sort"
	"strings"

	"github.com/arb33/multipart-form-decoder/message/header/param"
)

// These are the headers a form-data part is normally introduced with. Lookups
// are case-sensitive, so these match the capitalization browsers send.
const (
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
)

// FilenameMarker is the substring that marks a Content-Disposition value as
// belonging to a file upload.
const FilenameMarker = `filename="`

// Header maps each header name, exactly as captured, to its raw value. The
// value is everything after the first colon of the line, including any
// leading whitespace and any semicolon-separated attributes.
type Header map[string]string

// Get returns the raw value of the named header and whether it was present.
func (h Header) Get(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Disposition returns the raw Content-Disposition value.
func (h Header) Disposition() (string, bool) {
	return h.Get(ContentDisposition)
}

// ContentType returns the raw Content-Type value.
func (h Header) ContentType() (string, bool) {
	return h.Get(ContentType)
}

// HasFilename reports whether the part carries a file. This is true when the
// Content-Disposition value contains the text filename=" anywhere. The check
// is a substring match rather than an attribute parse, so unusual quoting
// still counts as a file.
func (h Header) HasFilename() bool {
	v, ok := h.Disposition()
	return ok && strings.Contains(v, FilenameMarker)
}

// Filename returns the filename attribute of the Content-Disposition header,
// or an empty string when there is none or the value cannot be parsed.
func (h Header) Filename() string {
	if pv := h.dispositionValue(); pv != nil {
		return pv.Filename()
	}
	return ""
}

// FieldName returns the name attribute of the Content-Disposition header, or
// an empty string when there is none or the value cannot be parsed.
func (h Header) FieldName() string {
	if pv := h.dispositionValue(); pv != nil {
		return pv.Name()
	}
	return ""
}

func (h Header) dispositionValue() *param.Value {
	v, ok := h.Disposition()
	if !ok {
		return nil
	}

	pv, err := param.Parse(v)
	if err != nil {
		return nil
	}

	return pv
}

// Names returns the header names in sorted order.
func (h Header) Names() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
