// Package formdecoder recovers form fields and uploaded files from a raw
// capture of a multipart/form-data HTTP request body, such as the payload
// pulled out of a packet trace.
//
// The work is split according to the stage of decoding. The message package
// holds the decoder: message.Locate finds the boundary on the first line of
// the capture, and message.Decoder is a small state machine that skips the
// preamble and then hands out each part's header block and body in turn,
// reading through a bounded buffer so that bodies of any size can be
// streamed. Header blocks are turned into a header.Header, a plain map from
// field name to raw value, by header.Parse. The header/param package breaks
// parameterized values like Content-Disposition into their parts when the
// field name or filename is needed.
//
// The walker package drives a decoder from the first part to the last and
// calls a function for each. The output package decides where each body
// goes: uploaded files are written to an ordered list of output targets and
// everything else is collected in memory. The extract package puts these
// together into a Session, which is what the mpdecode command runs.
//
// Decoding stops at the first problem with the input. Errors carry the
// operation and byte offset where decoding failed, and can be matched with
// errors.Is against message.ErrMalformedInput, message.ErrBoundaryNotFound,
// message.ErrTruncatedInput and message.ErrInvalidState.
//
// No attempt is made to decode Content-Transfer-Encoding or character sets.
// Bodies are written out exactly as they appear in the capture.
package formdecoder
