package tagtext

// Op names the direction a hook event came from.
type Op string

const (
	OpEncode Op = "encode"
	OpDecode Op = "decode"
)

// Hooks lightweight callbacks for lossy or rejected conversions.
// Implementations MUST be cheap and non-blocking.
type Hooks interface {
	// A rune was replaced by '?' (encode: above MaxEncodable; decode: the
	// recovered value is not a valid scalar). pos is the rune index in the input.
	Substituted(op Op, pos int, r rune)

	// Decode failed.
	// reason ∈ {"empty", "missing_start", "missing_end", "invalid_hidden", "too_large"}
	DecodeRejected(reason string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Substituted(Op, int, rune)    {}
func (NopHooks) DecodeRejected(string, error) {}
