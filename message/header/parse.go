package header

import (
	"bytes"
)

// Parse will parse the given header block into a Header. The block is split
// into lines on CRLF. Each line is split on its first colon into a name and a
// value. Neither is trimmed. A line without a colon, or with nothing before
// the colon, is silently dropped. When a name appears more than once, the last
// value wins.
//
// Parse never fails. A block with no usable lines results in an empty Header.
// The block may or may not include the trailing blank line.
func Parse(block []byte) Header {
	h := make(Header)
	for _, line := range bytes.Split(block, CRLF.Bytes()) {
		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}

		h[string(line[:colon])] = string(line[colon+1:])
	}

	return h
}
