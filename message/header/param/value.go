package param

import "mime"

const (
	// Boundary is the name of the boundary parameter that may be present in
	// the Content-Type header of the request.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in
	// the Content-Disposition header of a part.
	Filename = "filename"

	// Name is the name of the form field parameter that may be present in the
	// Content-Disposition header of a part.
	Name = "name"
)

// Value represents a parsed parameterized header value. A Value is immutable.
type Value struct {
	v  string
	ps map[string]string
}

// Parse takes a raw header value, parses it as a Value and returns it.
// Surrounding whitespace is ignored and the primary value is lowercased.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// Value returns the primary value, the part before the first semicolon.
func (pv *Value) Value() string {
	return pv.v
}

// Filename returns the value of the "filename" parameter.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Name returns the value of the "name" parameter.
func (pv *Value) Name() string {
	return pv.ps[Name]
}

// Boundary returns the value of the "boundary" parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}
