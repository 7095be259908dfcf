// Package payload hides serialized Go values inside tagtext envelopes.
//
// Each payload byte b is carried as the rune b, so every byte is encodable
// and the trip is lossless regardless of the codec's output.
package payload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unkn0wn-root/tagtext"
	"github.com/unkn0wn-root/tagtext/codec"
)

// ErrNotBinary is returned when a decoded envelope holds a rune above 0xFF,
// i.e. it carries text rather than a payload produced by Marshal.
var ErrNotBinary = errors.New("payload: envelope does not carry binary data")

// Marshal serializes v with c and hides the bytes.
func Marshal[V any](c codec.Codec[V], v V) (string, error) {
	b, err := c.Encode(v)
	if err != nil {
		return "", fmt.Errorf("payload: encode: %w", err)
	}
	return tagtext.Encode(bytesToText(b)), nil
}

// Unmarshal reveals an envelope produced by Marshal and decodes it with c.
func Unmarshal[V any](c codec.Codec[V], text string) (V, error) {
	var zero V
	plain, err := tagtext.Decode(text)
	if err != nil {
		return zero, err
	}
	b, err := textToBytes(plain)
	if err != nil {
		return zero, err
	}
	v, err := c.Decode(b)
	if err != nil {
		return zero, fmt.Errorf("payload: decode: %w", err)
	}
	return v, nil
}

func bytesToText(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, x := range b {
		sb.WriteRune(rune(x))
	}
	return sb.String()
}

func textToBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range []rune(s) {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: U+%04X at %d", ErrNotBinary, r, i)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
