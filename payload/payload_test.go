package payload_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/unkn0wn-root/tagtext"
	"github.com/unkn0wn-root/tagtext/codec"
	"github.com/unkn0wn-root/tagtext/payload"
)

type note struct {
	To   string    `json:"to" cbor:"to" msgpack:"to"`
	Body string    `json:"body" cbor:"body" msgpack:"body"`
	Tags []string  `json:"tags" cbor:"tags" msgpack:"tags"`
	At   time.Time `json:"at" cbor:"at" msgpack:"at"`
}

func sample() note {
	return note{
		To:   "ada",
		Body: "meet at noon ✓",
		Tags: []string{"a", "b"},
		At:   time.Unix(1700000000, 0).UTC(),
	}
}

func roundTrip[V any](t *testing.T, c codec.Codec[V], v V) V {
	t.Helper()
	hidden, err := payload.Marshal(c, v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(hidden, string(tagtext.LanguageTag)) {
		t.Fatalf("payload must be a tagtext envelope")
	}
	got, err := payload.Unmarshal(c, hidden)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return got
}

func TestRoundTripCodecs(t *testing.T) {
	want := sample()
	codecs := map[string]codec.Codec[note]{
		"json":    codec.JSON[note]{},
		"cbor":    codec.MustCBOR[note](true),
		"msgpack": codec.Msgpack[note]{},
		"limit":   codec.Limit[note]{Inner: codec.JSON[note]{}, MaxDecode: 1024},
	}
	for name, c := range codecs {
		got := roundTrip(t, c, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestRoundTripProtobuf(t *testing.T) {
	c := codec.NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	want := wrapperspb.String("hidden in plain sight")
	got := roundTrip[*wrapperspb.StringValue](t, c, want)
	if !proto.Equal(want, got) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRoundTripAllByteValues(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	got := roundTrip[[]byte](t, codec.Bytes{}, all)
	if diff := cmp.Diff(all, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	// non UTF-8 strings survive too
	if got := roundTrip[string](t, codec.String{}, "a\xffb"); got != "a\xffb" {
		t.Fatalf("got %q", got)
	}
}

func TestUnmarshalRejectsTextEnvelope(t *testing.T) {
	_, err := payload.Unmarshal[string](codec.String{}, tagtext.Encode("日本"))
	if !errors.Is(err, payload.ErrNotBinary) {
		t.Fatalf("expected ErrNotBinary, got %v", err)
	}
}

func TestUnmarshalPropagatesEnvelopeErrors(t *testing.T) {
	_, err := payload.Unmarshal[string](codec.String{}, "plain")
	if !errors.Is(err, tagtext.ErrMissingStartTag) {
		t.Fatalf("expected ErrMissingStartTag, got %v", err)
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	big := strings.Repeat("x", 64)
	hidden, err := payload.Marshal[string](codec.String{}, big)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	lim := codec.Limit[string]{Inner: codec.String{}, MaxDecode: 16}
	if _, err := payload.Unmarshal[string](lim, hidden); err == nil {
		t.Fatalf("expected size limit error")
	}
}
