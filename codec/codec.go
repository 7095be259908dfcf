// Package codec serializes Go values to bytes so they can be carried by
// tagtext envelopes (see package payload).
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
