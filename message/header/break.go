package header

// Break represents a line break sequence used by the capture format.
type Break string

// Constants for the line breaks that appear in a multipart/form-data body.
// Captured HTTP bodies always use the network line break.
const (
	CRLF  Break = "\x0d\x0a"         // \r\n - line terminator
	Blank Break = "\x0d\x0a\x0d\x0a" // \r\n\r\n - ends a header block
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
