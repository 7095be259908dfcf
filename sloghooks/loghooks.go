package sloghooks

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"unicode"

	"github.com/unkn0wn-root/tagtext"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SubstituteEvery uint64
	RejectEvery     uint64
	// Optional rune redactor. Defaults to the rune's general class, so
	// hidden payloads never reach the logs verbatim.
	Redact func(rune) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	substituteCtr atomic.Uint64
	rejectCtr     atomic.Uint64
}

var _ tagtext.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(r rune) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(r)
	}
	return runeClass(r)
}

func runeClass(r rune) string {
	switch {
	case r >= 0xD800 && r <= 0xDFFF:
		return "surrogate"
	case r >= 0xE0000 && r <= 0xEFFFF:
		return "tag-plane"
	case r > 0x2FFFF:
		return fmt.Sprintf("plane-%d", r>>16)
	case unicode.IsPrint(r):
		return "printable"
	default:
		return "control"
	}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Substituted(op tagtext.Op, pos int, r rune) {
	if h.l == nil || !sample(h.opts.SubstituteEvery, &h.substituteCtr) {
		return
	}
	h.l.Warn("tagtext.substituted",
		"op", string(op),
		"pos", pos,
		"rune", h.redact(r))
}

func (h *Hooks) DecodeRejected(reason string, err error) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Info("tagtext.decode_rejected",
		"reason", reason,
		"err", err)
}
