// Package memo caches the results of a tagtext.Codec in a provider.Provider.
//
// Keys are content addressed:
//
//	enc:<ns>:<policy>:<hash>  - envelope for a plain text
//	dec:<ns>:<policy>:<hash>  - plain text for an envelope
//
// <policy> is Codec.Policy, so codecs with different Strict or Normalize
// settings never share entries even inside one namespace.
//
// Encode and Decode are pure, so entries never need invalidation; TTL only
// bounds memory. Failed decodes are not cached.
//
// A hit skips the Codec entirely: Hooks.Substituted and the codec's
// substitution logs fire only on the call that populated the entry.
package memo

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/tagtext"
	"github.com/unkn0wn-root/tagtext/internal/util"
	"github.com/unkn0wn-root/tagtext/internal/wire"
	pr "github.com/unkn0wn-root/tagtext/provider"
)

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = 10 * time.Minute

// Options configure a Memo.
type Options struct {
	// Required
	Codec    *tagtext.Codec
	Provider pr.Provider

	Namespace string        // "" => "default"
	TTL       time.Duration // 0 => 10m
	Logger    tagtext.Logger
}

// Memo is a read-through cache over a Codec. Safe for concurrent use when
// the Provider is.
type Memo struct {
	codec    *tagtext.Codec
	provider pr.Provider
	ns       string
	policy   string
	ttl      time.Duration
	log      tagtext.Logger
}

// New returns a Memo. Codec and Provider are required.
func New(opts Options) (*Memo, error) {
	if opts.Codec == nil {
		return nil, errors.New("memo: codec is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("memo: provider is required")
	}
	m := &Memo{
		codec:    opts.Codec,
		provider: opts.Provider,
		ns:       opts.Namespace,
		policy:   opts.Codec.Policy(),
		ttl:      opts.TTL,
		log:      opts.Logger,
	}
	if m.ns == "" {
		m.ns = "default"
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.log == nil {
		m.log = tagtext.NopLogger{}
	}
	return m, nil
}

// Encode returns the memoized envelope for text, computing it on a miss.
func (m *Memo) Encode(ctx context.Context, text string) (string, error) {
	return m.do(ctx, wire.KindEncoded, "enc", text, m.codec.Encode)
}

// Decode returns the memoized plain text for an envelope, computing it on a miss.
func (m *Memo) Decode(ctx context.Context, text string) (string, error) {
	return m.do(ctx, wire.KindDecoded, "dec", text, m.codec.Decode)
}

// Close releases the provider.
func (m *Memo) Close(ctx context.Context) error {
	return m.provider.Close(ctx)
}

func (m *Memo) do(ctx context.Context, kind byte, prefix, text string, compute func(string) (string, error)) (string, error) {
	k := util.ContentKey(prefix+":"+m.ns+":"+m.policy, text)

	raw, ok, err := m.provider.Get(ctx, k)
	switch {
	case err != nil:
		m.log.Warn("memo get failed; computing", tagtext.Fields{"key": k, "err": err})
	case ok:
		v, derr := wire.Decode(kind, raw)
		if derr == nil {
			return v, nil
		}
		// self-heal corrupt
		_ = m.provider.Del(ctx, k)
		m.log.Debug("memo entry corrupt; deleted", tagtext.Fields{"key": k})
	}

	out, err := compute(text)
	if err != nil {
		return "", err
	}

	frame := wire.Encode(kind, out)
	stored, err := m.provider.Set(ctx, k, frame, int64(len(frame)), m.ttl)
	if err != nil {
		m.log.Warn("memo set failed", tagtext.Fields{"key": k, "err": err})
	} else if !stored {
		m.log.Debug("memo set rejected by provider (pressure)", tagtext.Fields{"key": k})
	}
	return out, nil
}
