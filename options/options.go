// Package options carries rendering hints through filter pipelines. The
// convolution math never reads these; they are forwarded to collaborators
// such as the colour converter.
package options

type Key string

const (
	// KeyColourConversion selects the colour conversion strategy,
	// ConversionFast or ConversionQuality.
	KeyColourConversion Key = "colour-conversion"

	// KeyDither asks conversions to dither when reducing precision.
	KeyDither Key = "dither"
)

const (
	ConversionFast    = "fast"
	ConversionQuality = "quality"
)

type Hints map[Key]any

// New copies the given hints, so later mutation of the source does not leak
// into a filter already constructed with them. A nil argument yields an
// empty bag.
func New(hints Hints) Hints {
	out := make(Hints, len(hints))
	for k, v := range hints {
		out[k] = v
	}
	return out
}

func (h Hints) Bool(k Key) bool {
	if h == nil {
		return false
	}
	v, ok := h[k].(bool)
	return ok && v
}

func (h Hints) String(k Key) string {
	if h == nil {
		return ""
	}
	v, _ := h[k].(string)
	return v
}
