package todotxt

import "fmt"

// Priority is a task priority letter, 'A' (highest) through 'Z'.
type Priority byte

// Valid reports whether p is one of 'A' through 'Z'.
func (p Priority) Valid() bool {
	return p >= 'A' && p <= 'Z'
}

// String returns the bare letter.
func (p Priority) String() string {
	return string(rune(p))
}

// Tag returns the priority as it appears in a line, e.g. "(A)".
func (p Priority) Tag() string {
	return "(" + p.String() + ")"
}

// MarshalText encodes the priority as its letter.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %q", byte(p))
	}
	return []byte{byte(p)}, nil
}

// UnmarshalText decodes a single uppercase letter.
func (p *Priority) UnmarshalText(text []byte) error {
	if len(text) != 1 || !Priority(text[0]).Valid() {
		return fmt.Errorf("invalid priority %q: want a single letter A-Z", text)
	}
	*p = Priority(text[0])
	return nil
}

// RecognizePriority reports whether token is exactly "(X)" with X in A-Z.
// Lowercase letters and trailing characters such as "(A)x" do not match.
func RecognizePriority(token string) (Priority, bool) {
	if len(token) != 3 || token[0] != '(' || token[2] != ')' {
		return 0, false
	}
	p := Priority(token[1])
	if !p.Valid() {
		return 0, false
	}
	return p, true
}
