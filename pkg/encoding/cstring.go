// Package encoding provides string helpers for chunk payloads.
//
// Names inside chunks are NUL-terminated byte strings in a legacy 8-bit code
// page. They are kept as raw bytes (a Go string may hold any bytes) so that a
// decode/encode round trip is byte-exact; conversion to UTF-8 happens only for
// display.
package encoding

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultCharset is the Central European code page the supported exporters write.
const DefaultCharset = "windows-1250"

// ReadCString reads a NUL-terminated string starting at off.
// It returns the raw bytes, the offset just past the terminator, and false if
// no terminator exists before the end of buf.
func ReadCString(buf []byte, off int) (string, int, bool) {
	if off < 0 || off > len(buf) {
		return "", off, false
	}
	end := bytes.IndexByte(buf[off:], 0)
	if end < 0 {
		return "", off, false
	}
	return string(buf[off : off+end]), off + end + 1, true
}

// AppendCString appends s and a NUL terminator to dst.
// Bytes after an embedded NUL in s are dropped, as a reader would never see them.
func AppendCString(dst []byte, s string) []byte {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	dst = append(dst, s...)
	return append(dst, 0)
}

// Charset converts raw chunk strings to UTF-8 for display.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// LookupCharset resolves an IANA charset name such as "windows-1250" or
// "iso-8859-1". An empty name selects DefaultCharset.
func LookupCharset(name string) (Charset, error) {
	if name == "" {
		name = DefaultCharset
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return Charset{}, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return Charset{}, fmt.Errorf("unsupported charset %q", name)
	}
	return Charset{name: strings.ToLower(name), enc: enc}, nil
}

// Name returns the charset name as configured.
func (c Charset) Name() string {
	if c.enc == nil {
		return DefaultCharset
	}
	return c.name
}

// Display converts raw bytes to UTF-8.
// Returns the input unchanged if conversion fails.
func (c Charset) Display(raw string) string {
	enc := c.enc
	if enc == nil {
		enc = charmap.Windows1250
	}
	result, _, err := transform.String(enc.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return result
}

// Encode converts a UTF-8 string to raw bytes in this charset.
// Returns the input unchanged if conversion fails.
func (c Charset) Encode(s string) string {
	enc := c.enc
	if enc == nil {
		enc = charmap.Windows1250
	}
	result, _, err := transform.String(enc.NewEncoder(), s)
	if err != nil {
		return s
	}
	return result
}
