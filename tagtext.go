package tagtext

import (
	"strings"
	"unicode/utf8"
)

const (
	// TagBase is added to every visible rune to obtain its hidden counterpart.
	TagBase rune = 0xE0000

	LanguageTag rune = 0xE0001 // START
	FullStopTag rune = 0xE002E
	CancelTag   rune = 0xE007F

	// FallbackTag is the hidden '?' emitted for runes the offset cannot carry.
	FallbackTag rune = TagBase + '?'

	// MaxEncodable is the largest rune that survives the offset.
	MaxEncodable rune = utf8.MaxRune - TagBase

	envelopeOverhead = 3
)

// Encode hides text inside an envelope of tag characters.
// Runes above MaxEncodable become FallbackTag; Encode never fails.
func Encode(text string) string {
	out, _ := encode(text, nil)
	return out
}

// Decode reveals the text hidden by Encode.
func Decode(text string) (string, error) {
	return decode(text, nil)
}

// hide maps r into the tag block. ok=false means the fallback was used.
func hide(r rune) (rune, bool) {
	h := TagBase + r
	if !utf8.ValidRune(h) {
		return FallbackTag, false
	}
	return h, true
}

// reveal is the inverse of hide for runes already known to be >= TagBase.
func reveal(h rune) (rune, bool) {
	r := h - TagBase
	if !utf8.ValidRune(r) {
		return '?', false
	}
	return r, true
}

// encode builds the envelope. onFallback, if set, sees every substituted
// rune and may abort by returning an error.
func encode(text string, onFallback func(pos int, r rune) error) (string, error) {
	var b strings.Builder
	b.Grow(len(text)*4 + envelopeOverhead*4)

	b.WriteRune(LanguageTag)
	pos := 0
	for _, r := range text {
		h, ok := hide(r)
		if !ok && onFallback != nil {
			if err := onFallback(pos, r); err != nil {
				return "", err
			}
		}
		b.WriteRune(h)
		pos++
	}
	b.WriteRune(FullStopTag)
	b.WriteRune(CancelTag)
	return b.String(), nil
}

// decode walks ExpectStart -> ScanningForEnd -> ValidatingPayload -> Done.
// Any failed check is terminal.
func decode(text string, onFallback func(pos int, h rune)) (string, error) {
	if text == "" {
		return "", ErrEmptyInput
	}
	runes := []rune(text)
	if runes[0] != LanguageTag {
		return "", ErrMissingStartTag
	}

	end := closingBoundary(runes)
	if end < 0 {
		return "", ErrMissingEndMarkers
	}

	var b strings.Builder
	b.Grow(end * 2)
	for i := 1; i < end; i++ {
		h := runes[i]
		if h < TagBase {
			return "", &InvalidHiddenCharError{Rune: h, Pos: i}
		}
		r, ok := reveal(h)
		if !ok && onFallback != nil {
			onFallback(i, h)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// closingBoundary returns the index of the FULL_STOP in the rightmost
// FULL_STOP+CANCEL pair, or -1.
func closingBoundary(runes []rune) int {
	for i := len(runes) - 1; i > 0; i-- {
		if runes[i] == CancelTag && runes[i-1] == FullStopTag {
			return i - 1
		}
	}
	return -1
}
