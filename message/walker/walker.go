// Package walker drives a message.Decoder through every part of a multipart
// body, handing each part to a callback.
package walker

import (
	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header"
)

// PartWalker is a function that is called for each part of a multipart body.
// It receives the zero-based index of the part, its parsed header and the
// decoder, positioned at the start of the part's body. The function may read
// the body with ReadBodyData or skip it with DiscardBodyData. If it does
// neither, the body is discarded after it returns. It must not call any other
// decoder operation.
type PartWalker func(i int, h header.Header, d *message.Decoder) error

// Walk skips the preamble and then calls the PartWalker for each part in the
// order they appear, until the terminal boundary is read. It returns the
// number of parts visited. If the PartWalker or the decoder returns an error,
// processing stops immediately and the error is returned.
func (w PartWalker) Walk(d *message.Decoder) (int, error) {
	more, err := d.SkipPreamble()
	if err != nil {
		return 0, err
	}

	i := 0
	for ; more; i++ {
		h, err := d.ReadHeaders()
		if err != nil {
			return i, err
		}

		if err := w(i, h, d); err != nil {
			return i + 1, err
		}

		if d.State() == message.InBody {
			if _, err := d.DiscardBodyData(); err != nil {
				return i + 1, err
			}
		}

		more, err = d.ReadBoundary()
		if err != nil {
			return i + 1, err
		}
	}

	return i, nil
}
