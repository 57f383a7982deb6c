// Package message decodes a captured multipart/form-data body one part at a
// time without ever holding a whole part in memory.
//
// A capture normally begins with the first boundary line, so the boundary can
// be discovered from the input itself with Locate. NewDecoder does this for
// you unless a boundary is supplied with WithBoundary:
//
//	d, err := message.NewDecoder(in)
//	if err != nil {
//	  return err
//	}
//
//	more, err := d.SkipPreamble()
//	for more && err == nil {
//	  var h header.Header
//	  if h, err = d.ReadHeaders(); err != nil {
//	    break
//	  }
//	  if _, err = d.ReadBodyData(sinkFor(h)); err != nil {
//	    break
//	  }
//	  more, err = d.ReadBoundary()
//	}
//
// The Decoder is a small state machine (see State). Body bytes are streamed
// through a bounded buffer to the io.Writer given for each part, so bodies of
// any size can be recovered. The walker package wraps the loop above.
package message
