package codec

import (
	"bytes"
	"testing"
)

type pair struct {
	B int    `cbor:"b" msgpack:"b"`
	A string `cbor:"a" msgpack:"a"`
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"z": 1, "a": 2, "mm": 3, "b": 4}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := c.Encode(m)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic CBOR produced different bytes")
		}
	}
}

func TestCBORAndMsgpackRoundTrip(t *testing.T) {
	want := pair{B: 7, A: "seven"}
	cb, err := NewCBOR[pair](false)
	if err != nil {
		t.Fatalf("NewCBOR: %v", err)
	}
	for name, c := range map[string]Codec[pair]{"cbor": cb, "msgpack": Msgpack[pair]{}, "json": JSON[pair]{}} {
		b, err := c.Encode(want)
		if err != nil {
			t.Fatalf("%s Encode: %v", name, err)
		}
		got, err := c.Decode(b)
		if err != nil || got != want {
			t.Fatalf("%s: got %+v, %v", name, got, err)
		}
	}
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 3}
	if _, err := c.Decode([]byte("abcd")); err == nil {
		t.Fatalf("expected error above MaxDecode")
	}
	if got, err := c.Decode([]byte("abc")); err != nil || got != "abc" {
		t.Fatalf("got %q, %v", got, err)
	}
	off := Limit[string]{Inner: String{}}
	if _, err := off.Decode(bytes.Repeat([]byte("x"), 1<<16)); err != nil {
		t.Fatalf("MaxDecode 0 disables the limit: %v", err)
	}
}
