// Package tagtext hides visible text inside invisible Unicode tag characters.
// Every rune r is carried as TagBase+r; the hidden stream is framed so it can be
// located and decoded without external metadata.
//
// Envelope:
//
//	U+E0001 (LanguageTag) | hidden rune * n | U+E002E (FullStopTag) | U+E007F (CancelTag)
//
// Runes above MaxEncodable cannot be shifted into a valid scalar and are
// replaced by FallbackTag (a hidden '?'). Use Options.Strict to get an error instead.
//
// Decode takes the rightmost FullStopTag+CancelTag pair as the closing boundary
// and ignores anything after it.
//
// Usage:
//
//	hidden := tagtext.Encode("meet at noon")
//	plain, err := tagtext.Decode(hidden)
//
//	c, _ := tagtext.New(tagtext.Options{Strict: true, Logger: zaplog.ZapLogger{L: z}})
//	hidden, err := c.Encode(s)
package tagtext
