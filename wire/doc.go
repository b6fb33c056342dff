// Package wire reads HTTP/1.x requests from a byte stream and writes buffered
// responses back.
//
// The reader consumes exactly the request line, the header block and
// Content-Length body bytes, so it can be called repeatedly on one connection.
// Bodies are decoded by media type:
//
//	application/json          -> BodyJSON
//	text/html                 -> BodyHTML
//	application/octet-stream  -> BodyBytes
//	multipart/form-data       -> BodyMultipart (see pkg/multipart)
//
// Any other media type, chunked transfer encoding, a truncated body or a
// malformed line yields an error wrapping ErrBadRequest.
package wire
