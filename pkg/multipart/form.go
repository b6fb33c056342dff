package multipart

import "fmt"

// Form is a lookup view over decoded parts.
type Form struct {
	Parts []Part
}

// NewForm wraps parts in a Form.
func NewForm(parts []Part) Form {
	return Form{Parts: parts}
}

// Value returns the content of the first non-file part named name.
func (f Form) Value(name string) (string, error) {
	for _, p := range f.Parts {
		if p.FormName() == name && !p.IsFile() {
			return string(p.Content), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingField, name)
}

// Values returns the contents of every non-file part named name, in order.
func (f Form) Values(name string) []string {
	var out []string
	for _, p := range f.Parts {
		if p.FormName() == name && !p.IsFile() {
			out = append(out, string(p.Content))
		}
	}
	return out
}

// File returns the first file part named name.
func (f Form) File(name string) (Part, error) {
	for _, p := range f.Parts {
		if p.FormName() == name && p.IsFile() {
			return p, nil
		}
	}
	return Part{}, fmt.Errorf("%w: %s", ErrMissingField, name)
}

// Files returns every file part, in order. An empty name matches all files.
func (f Form) Files(name string) []Part {
	var out []Part
	for _, p := range f.Parts {
		if p.IsFile() && (name == "" || p.FormName() == name) {
			out = append(out, p)
		}
	}
	return out
}
