// Package textenc resolves the batch character encoding and converts file
// bytes to and from decoded text.
//
// Labels are resolved with the WHATWG index (golang.org/x/text/encoding/htmlindex),
// so "utf8", "latin1" and "windows-1252" are all accepted. UTF-8 is handled as
// a pass-through that rejects invalid byte sequences instead of silently
// substituting U+FFFD.
package textenc

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	ErrUnknownEncoding = errors.New("unknown character encoding")
	ErrInvalidUTF8     = errors.New("invalid UTF-8 byte sequence")
)

// Charset is a resolved character encoding. The zero value is UTF-8.
type Charset struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

// UTF8 is the default batch encoding.
var UTF8 = Charset{name: "utf-8"}

// Lookup resolves an encoding label. An empty label yields UTF-8.
func Lookup(label string) (Charset, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return UTF8, nil
	}
	e, err := htmlindex.Get(label)
	if err != nil {
		return Charset{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(e)
	if err != nil {
		return Charset{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if name == "utf-8" {
		return UTF8, nil
	}
	return Charset{name: name, enc: e}, nil
}

// Name returns the canonical WHATWG name of the encoding.
func (c Charset) Name() string {
	if c.name == "" {
		return UTF8.name
	}
	return c.name
}

// Decode converts raw file bytes into text.
func (c Charset) Decode(b []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(b) {
			return "", ErrInvalidUTF8
		}
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts text into bytes. Runes the encoding cannot represent
// produce an error.
func (c Charset) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	return c.enc.NewEncoder().Bytes([]byte(s))
}

// ReadFile reads and decodes the file at path. Errors name the path.
func (c Charset) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	s, err := c.Decode(b)
	if err != nil {
		return "", fmt.Errorf("decode %s as %s: %w", path, c.Name(), err)
	}
	return s, nil
}

// WriteFile encodes text and writes it to path, truncating any existing
// file. Parent directories must already exist.
func (c Charset) WriteFile(path, text string) error {
	b, err := c.Encode(text)
	if err != nil {
		return fmt.Errorf("encode %s as %s: %w", path, c.Name(), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
