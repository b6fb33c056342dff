package multipart

import (
	"github.com/dmitrymomot/wirekit/pkg/header"
)

// DefaultContentType is assumed for parts that carry no Content-Type header.
const DefaultContentType = "text/plain"

// Part is one section of a multipart body.
type Part struct {
	Header  header.Header
	Content []byte
}

// FormName returns the "name" parameter of the Content-Disposition header.
func (p Part) FormName() string {
	return p.Header.Param("content-disposition", "name")
}

// FileName returns the "filename" parameter of the Content-Disposition header,
// or an empty string when the part is a plain field.
func (p Part) FileName() string {
	return p.Header.Param("content-disposition", "filename")
}

// IsFile reports whether the part was sent as a file.
func (p Part) IsFile() bool {
	return p.FileName() != ""
}

// ContentType returns the bare media type of the part.
func (p Part) ContentType() string {
	if ct := p.Header.Value("content-type"); ct != "" {
		return ct
	}
	return DefaultContentType
}

// Size returns the content length in bytes.
func (p Part) Size() int {
	return len(p.Content)
}
