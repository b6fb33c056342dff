package wire

import (
	"io"

	"github.com/dmitrymomot/wirekit/pkg/multipart"
)

// BodyKind tags the variant held by a Body.
type BodyKind uint8

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyBytes
	BodyMultipart
	BodyStream
	BodyHTML
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyJSON:
		return "json"
	case BodyBytes:
		return "bytes"
	case BodyMultipart:
		return "multipart"
	case BodyStream:
		return "stream"
	case BodyHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Body is the decoded request payload. Only the field matching Kind is set:
// Text for JSON and HTML, Bytes for raw octets, Parts for multipart and
// Stream for bodies built in code. The reader never produces BodyStream.
type Body struct {
	Kind   BodyKind
	Text   string
	Bytes  []byte
	Parts  []multipart.Part
	Stream io.Reader
}

// NoBody returns an empty body.
func NoBody() Body { return Body{Kind: BodyNone} }

// JSONBody wraps JSON text.
func JSONBody(text string) Body { return Body{Kind: BodyJSON, Text: text} }

// HTMLBody wraps HTML text.
func HTMLBody(text string) Body { return Body{Kind: BodyHTML, Text: text} }

// BytesBody wraps raw octets.
func BytesBody(b []byte) Body { return Body{Kind: BodyBytes, Bytes: b} }

// MultipartBody wraps decoded parts.
func MultipartBody(parts []multipart.Part) Body { return Body{Kind: BodyMultipart, Parts: parts} }

// StreamBody wraps a reader.
func StreamBody(r io.Reader) Body { return Body{Kind: BodyStream, Stream: r} }

// IsEmpty reports whether the body carries no payload.
func (b Body) IsEmpty() bool {
	return b.Kind == BodyNone
}
