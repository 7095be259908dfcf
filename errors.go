package tagtext

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput             = errors.New("tagtext: empty input")
	ErrMissingStartTag        = errors.New("tagtext: text doesn't start with language tag")
	ErrMissingEndMarkers      = errors.New("tagtext: invalid format: missing end markers")
	ErrInvalidHiddenCharacter = errors.New("tagtext: invalid hidden character")
	ErrUnencodable            = errors.New("tagtext: rune cannot be encoded")
	ErrTooLarge               = errors.New("tagtext: input too large")
)

// InvalidHiddenCharError reports a payload rune below TagBase.
// Pos is the rune index inside the decoded input.
type InvalidHiddenCharError struct {
	Rune rune
	Pos  int
}

func (e *InvalidHiddenCharError) Error() string {
	return fmt.Sprintf("tagtext: invalid hidden character found: %q (U+%04X) at %d", e.Rune, e.Rune, e.Pos)
}

func (e *InvalidHiddenCharError) Unwrap() error { return ErrInvalidHiddenCharacter }

// UnencodableError is returned by a strict Codec instead of substituting FallbackTag.
type UnencodableError struct {
	Rune rune
	Pos  int
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("tagtext: rune U+%04X at %d is above U+%04X", e.Rune, e.Pos, MaxEncodable)
}

func (e *UnencodableError) Unwrap() error { return ErrUnencodable }

type TooLargeError struct {
	Len int
	Max int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("tagtext: input too large: %d > %d runes", e.Len, e.Max)
}

func (e *TooLargeError) Unwrap() error { return ErrTooLarge }

// Reason maps a decode error to the short label passed to Hooks.DecodeRejected.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty"
	case errors.Is(err, ErrMissingStartTag):
		return "missing_start"
	case errors.Is(err, ErrMissingEndMarkers):
		return "missing_end"
	case errors.Is(err, ErrInvalidHiddenCharacter):
		return "invalid_hidden"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	default:
		return "unknown"
	}
}
