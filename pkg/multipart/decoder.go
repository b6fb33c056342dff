package multipart

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

// maxBoundaryLen follows RFC 2046: 1 to 70 characters.
const maxBoundaryLen = 70

type state uint8

const (
	stateStart state = iota
	stateHeaders
	stateBody
	stateDone
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateHeaders:
		return "headers"
	case stateBody:
		return "body"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

type lineKind uint8

const (
	lineContent lineKind = iota
	lineBoundary
	lineClose
)

// Decoder is a line-driven state machine that turns a boundary-delimited body
// into an ordered list of parts. Feed it with WriteLine, one line at a time,
// each line including its trailing "\n" when present.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	delim   []byte // "--" + boundary
	state   state
	parts   []Part
	current *Part
	// eol holds the line break of the previous body line. It is only appended
	// to the content once the following line proves not to be a boundary,
	// because the break before a boundary belongs to the delimiter.
	eol []byte
}

// NewDecoder returns a Decoder for boundary.
func NewDecoder(boundary string) (*Decoder, error) {
	if err := ValidateBoundary(boundary); err != nil {
		return nil, err
	}
	return &Decoder{delim: []byte("--" + boundary)}, nil
}

// ValidateBoundary checks the boundary length and characters.
func ValidateBoundary(boundary string) error {
	if boundary == "" {
		return ErrMissingBoundary
	}
	if len(boundary) > maxBoundaryLen || boundary[len(boundary)-1] == ' ' || strings.ContainsAny(boundary, "\r\n") {
		return ErrInvalidBoundary
	}
	return nil
}

// Done reports whether the closing boundary has been seen.
func (d *Decoder) Done() bool {
	return d.state == stateDone
}

// WriteLine feeds one line to the state machine.
//
// Input after the closing boundary yields ErrTrailingData; the parts decoded so
// far stay available through Parts.
func (d *Decoder) WriteLine(line []byte) error {
	switch d.state {
	case stateStart:
		if !bytes.Equal(trimEOL(line), d.delim) {
			return ErrMalformedStart
		}
		d.startPart()
		d.state = stateHeaders
		return nil

	case stateHeaders:
		content := trimEOL(line)
		if len(content) == 0 {
			d.state = stateBody
			d.eol = nil
			return nil
		}
		name, value, ok := bytes.Cut(content, []byte{':'})
		if !ok {
			return fmt.Errorf("%w: %q", ErrMalformedHeader, content)
		}
		key := string(bytes.TrimSpace(name))
		if !header.ValidName(key) {
			return fmt.Errorf("%w: invalid name %q", ErrMalformedHeader, key)
		}
		d.current.Header.Set(key, string(bytes.TrimSpace(value)))
		return nil

	case stateBody:
		switch d.classify(line) {
		case lineBoundary:
			d.finishPart()
			d.startPart()
			d.state = stateHeaders
		case lineClose:
			d.finishPart()
			d.state = stateDone
		default:
			d.current.Content = append(d.current.Content, d.eol...)
			body := trimEOL(line)
			d.current.Content = append(d.current.Content, body...)
			d.eol = append(d.eol[:0], line[len(body):]...)
		}
		return nil

	default:
		if len(line) == 0 {
			return nil
		}
		return ErrTrailingData
	}
}

// Parts returns the decoded parts in arrival order. It fails with
// ErrUnexpectedEOF when the closing boundary has not been reached.
func (d *Decoder) Parts() ([]Part, error) {
	if d.state != stateDone {
		return d.parts, fmt.Errorf("%w (state %s)", ErrUnexpectedEOF, d.state)
	}
	return d.parts, nil
}

func (d *Decoder) startPart() {
	d.current = &Part{Header: header.New()}
	d.eol = nil
}

func (d *Decoder) finishPart() {
	if d.current.Content == nil {
		d.current.Content = []byte{}
	}
	d.parts = append(d.parts, *d.current)
	d.current = nil
	d.eol = nil
}

// classify tests a body line against the boundary shapes. The length check
// comes first so a short line is never compared as if it were delimiter-sized.
func (d *Decoder) classify(line []byte) lineKind {
	content := trimEOL(line)
	if len(content) < len(d.delim) || !bytes.Equal(content[:len(d.delim)], d.delim) {
		return lineContent
	}
	rest := content[len(d.delim):]
	switch {
	case len(bytes.TrimRight(rest, " \t")) == 0:
		if len(line) == len(content) {
			// a bare delimiter with no line break is not a boundary line
			return lineContent
		}
		return lineBoundary
	case len(rest) >= 2 && rest[0] == '-' && rest[1] == '-' && len(bytes.TrimRight(rest[2:], " \t")) == 0:
		return lineClose
	default:
		return lineContent
	}
}

func trimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

// Decode parses body as a multipart payload delimited by boundary.
// When the closing boundary is followed by more data the decoded parts are
// returned together with ErrTrailingData.
func Decode(boundary string, body []byte) ([]Part, error) {
	d, err := NewDecoder(boundary)
	if err != nil {
		return nil, err
	}
	for len(body) > 0 {
		var line []byte
		if i := bytes.IndexByte(body, '\n'); i >= 0 {
			line, body = body[:i+1], body[i+1:]
		} else {
			line, body = body, nil
		}
		if err := d.WriteLine(line); err != nil {
			if errors.Is(err, ErrTrailingData) {
				return d.parts, err
			}
			return nil, err
		}
	}
	return d.Parts()
}

// DecodeReader is Decode over a stream. It reads until EOF.
func DecodeReader(boundary string, r io.Reader) ([]Part, error) {
	d, err := NewDecoder(boundary)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			if err := d.WriteLine(line); err != nil {
				if errors.Is(err, ErrTrailingData) {
					return d.parts, err
				}
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}
	return d.Parts()
}
