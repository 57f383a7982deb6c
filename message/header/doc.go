// Package header parses the header block that introduces each part of a
// multipart/form-data body.
//
// The parser is deliberately forgiving. A header block is split into lines on
// CRLF and every line is split on its first colon. Lines that have no colon
// are dropped rather than failing the whole block, and values are kept
// exactly as captured, leading whitespace and attributes included. Callers
// that want to look inside a value, such as the filename attribute of a
// Content-Disposition header, can use the param package.
package header
