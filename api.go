package tagtext

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options tune the behavior of a Codec.
// The zero value gives the same results as the package-level Encode and Decode.
type Options struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// Strict makes Encode fail with *UnencodableError rather than
	// substituting FallbackTag.
	Strict bool
	// Normalize applies NFC to the input of Encode.
	Normalize bool
	// MaxDecodeRunes bounds the input of Decode; 0 => unlimited.
	MaxDecodeRunes int
}

// Codec is the configured form of Encode/Decode. It is immutable after New
// and safe for concurrent use as long as its Logger and Hooks are.
type Codec struct {
	log       Logger
	hooks     Hooks
	strict    bool
	normalize bool
	maxDecode int
}

// New validates opts and returns a Codec. Zero-value fields fall back to defaults.
func New(opts Options) (*Codec, error) {
	if opts.MaxDecodeRunes < 0 {
		return nil, fmt.Errorf("tagtext: MaxDecodeRunes must be >= 0, got %d", opts.MaxDecodeRunes)
	}
	return &Codec{
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
		strict:    opts.Strict,
		normalize: opts.Normalize,
		maxDecode: opts.MaxDecodeRunes,
	}, nil
}

// Policy fingerprints the options that change Encode output, e.g. "s1n0"
// for Strict without Normalize. Caches keyed on it never mix policies.
func (c *Codec) Policy() string {
	return "s" + bit(c.strict) + "n" + bit(c.normalize)
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Encode hides text. The error is non-nil only in strict mode.
func (c *Codec) Encode(text string) (string, error) {
	if c.normalize {
		text = norm.NFC.String(text)
	}
	out, err := encode(text, func(pos int, r rune) error {
		if c.strict {
			return &UnencodableError{Rune: r, Pos: pos}
		}
		c.hooks.Substituted(OpEncode, pos, r)
		c.log.Warn("rune replaced by fallback tag", Fields{"op": OpEncode, "pos": pos, "rune": fmt.Sprintf("U+%04X", r)})
		return nil
	})
	if err != nil {
		c.log.Debug("encode rejected (strict)", Fields{"err": err})
		return "", err
	}
	return out, nil
}

// Decode reveals text hidden by Encode.
func (c *Codec) Decode(text string) (string, error) {
	if c.maxDecode > 0 {
		if n := utf8.RuneCountInString(text); n > c.maxDecode {
			return "", c.reject(&TooLargeError{Len: n, Max: c.maxDecode})
		}
	}
	out, err := decode(text, func(pos int, h rune) {
		c.hooks.Substituted(OpDecode, pos, h)
		c.log.Warn("hidden rune decoded as '?'", Fields{"op": OpDecode, "pos": pos, "rune": fmt.Sprintf("U+%04X", h)})
	})
	if err != nil {
		return "", c.reject(err)
	}
	return out, nil
}

func (c *Codec) reject(err error) error {
	reason := Reason(err)
	c.hooks.DecodeRejected(reason, err)
	c.log.Debug("decode rejected", Fields{"reason": reason, "err": err})
	return err
}
