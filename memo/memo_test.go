package memo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/tagtext"
	"github.com/unkn0wn-root/tagtext/internal/wire"
	pr "github.com/unkn0wn-root/tagtext/provider"
	"github.com/unkn0wn-root/tagtext/provider/bigcache"
)

type memProvider struct {
	mu     sync.Mutex
	m      map[string][]byte
	gets   int
	sets   int
	getErr error
	setErr error
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gets++
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets++
	if p.setErr != nil {
		return false, p.setErr
	}
	p.m[key] = value
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(context.Context) error { return nil }

func newTestMemo(t *testing.T, p pr.Provider) *Memo {
	t.Helper()
	c, err := tagtext.New(tagtext.Options{})
	if err != nil {
		t.Fatalf("tagtext.New: %v", err)
	}
	m, err := New(Options{Codec: c, Provider: p, Namespace: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewRequiresCodecAndProvider(t *testing.T) {
	c, _ := tagtext.New(tagtext.Options{})
	if _, err := New(Options{Provider: newMemProvider()}); err == nil {
		t.Fatalf("expected error without codec")
	}
	if _, err := New(Options{Codec: c}); err == nil {
		t.Fatalf("expected error without provider")
	}
}

func TestEncodeDecodeMissThenHit(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	m := newTestMemo(t, p)

	enc, err := m.Encode(ctx, "Hello World!")
	if err != nil || enc != tagtext.Encode("Hello World!") {
		t.Fatalf("Encode: %q, %v", enc, err)
	}
	if p.sets != 1 {
		t.Fatalf("expected one Set on miss, got %d", p.sets)
	}

	// hit: served from the provider, no new Set
	enc2, err := m.Encode(ctx, "Hello World!")
	if err != nil || enc2 != enc {
		t.Fatalf("Encode hit: %q, %v", enc2, err)
	}
	if p.sets != 1 {
		t.Fatalf("hit must not Set again, sets=%d", p.sets)
	}

	dec, err := m.Decode(ctx, enc)
	if err != nil || dec != "Hello World!" {
		t.Fatalf("Decode: %q, %v", dec, err)
	}
	if len(p.m) != 2 {
		t.Fatalf("expected enc and dec entries, got %d", len(p.m))
	}
}

func TestServesCachedValue(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	m := newTestMemo(t, p)

	if _, err := m.Decode(ctx, tagtext.Encode("x")); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// overwrite the stored frame; a hit must return it verbatim
	for k := range p.m {
		p.m[k] = wire.Encode(wire.KindDecoded, "from cache")
	}
	if got, _ := m.Decode(ctx, tagtext.Encode("x")); got != "from cache" {
		t.Fatalf("expected cached value, got %q", got)
	}
}

func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	m := newTestMemo(t, p)

	if _, err := m.Encode(ctx, "abc"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for k := range p.m {
		p.m[k] = []byte("garbage")
	}
	got, err := m.Encode(ctx, "abc")
	if err != nil || got != tagtext.Encode("abc") {
		t.Fatalf("expected recompute after corrupt entry: %q, %v", got, err)
	}
	for k, v := range p.m {
		if _, err := wire.Decode(wire.KindEncoded, v); err != nil {
			t.Fatalf("entry %s not rewritten: %v", k, err)
		}
	}
}

func TestFailedDecodeNotCached(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	m := newTestMemo(t, p)

	if _, err := m.Decode(ctx, "abc"); !errors.Is(err, tagtext.ErrMissingStartTag) {
		t.Fatalf("expected ErrMissingStartTag, got %v", err)
	}
	if p.sets != 0 || len(p.m) != 0 {
		t.Fatalf("failed decode must not be stored")
	}
}

func TestProviderErrorsDoNotFailCalls(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	p.getErr = errors.New("down")
	p.setErr = errors.New("down")
	m := newTestMemo(t, p)

	got, err := m.Encode(ctx, "still works")
	if err != nil || got != tagtext.Encode("still works") {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	c, _ := tagtext.New(tagtext.Options{})
	a, _ := New(Options{Codec: c, Provider: p, Namespace: "a"})
	b, _ := New(Options{Codec: c, Provider: p, Namespace: "b"})

	_, _ = a.Encode(ctx, "same")
	_, _ = b.Encode(ctx, "same")
	if len(p.m) != 2 {
		t.Fatalf("expected one entry per namespace, got %d", len(p.m))
	}
}

func newMemoWith(t *testing.T, p pr.Provider, opts tagtext.Options) *Memo {
	t.Helper()
	c, err := tagtext.New(opts)
	if err != nil {
		t.Fatalf("tagtext.New: %v", err)
	}
	m, err := New(Options{Codec: c, Provider: p})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestStrictCodecIgnoresLossyEntries(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	lossy := newMemoWith(t, p, tagtext.Options{})
	strict := newMemoWith(t, p, tagtext.Options{Strict: true})

	in := "a\U00030000b"
	if _, err := lossy.Encode(ctx, in); err != nil {
		t.Fatalf("lossy Encode: %v", err)
	}
	got, err := strict.Encode(ctx, in)
	var ue *tagtext.UnencodableError
	if !errors.As(err, &ue) {
		t.Fatalf("strict memo must reject, got %q, %v", got, err)
	}
	if ue.Pos != 1 {
		t.Fatalf("Pos = %d, want 1", ue.Pos)
	}
}

func TestNormalizeDoesNotLeakAcrossCodecs(t *testing.T) {
	ctx := context.Background()
	p := newMemProvider()
	nfc := newMemoWith(t, p, tagtext.Options{Normalize: true})
	plain := newMemoWith(t, p, tagtext.Options{})

	nfd := "e\u0301"
	if _, err := nfc.Encode(ctx, nfd); err != nil {
		t.Fatalf("nfc Encode: %v", err)
	}
	enc, err := plain.Encode(ctx, nfd)
	if err != nil {
		t.Fatalf("plain Encode: %v", err)
	}
	if enc != tagtext.Encode(nfd) {
		t.Fatalf("plain memo returned an envelope from another policy")
	}
	dec, err := plain.Decode(ctx, enc)
	if err != nil || dec != nfd {
		t.Fatalf("Decode(Encode(%q)) = %q, %v", nfd, dec, err)
	}
}

func TestWithBigcache(t *testing.T) {
	ctx := context.Background()
	p, err := bigcache.New(bigcache.Config{
		Shards:             4,
		LifeWindow:         time.Minute,
		MaxEntriesInWindow: 64,
		MaxEntrySize:       256,
	})
	if err != nil {
		t.Fatalf("bigcache.New: %v", err)
	}
	m := newTestMemo(t, p)
	defer m.Close(ctx)

	for i := 0; i < 2; i++ {
		enc, err := m.Encode(ctx, "via bigcache")
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		dec, err := m.Decode(ctx, enc)
		if err != nil || dec != "via bigcache" {
			t.Fatalf("Decode: %q, %v", dec, err)
		}
	}
}
