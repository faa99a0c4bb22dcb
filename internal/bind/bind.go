// Package bind maps the engine's animated scalar into values for
// dependent visuals: opacity, scale, color. Bindings are pure closures
// evaluated once per animator tick; they hold no state and never reject
// input.
package bind

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Fn maps a source value (usually the animated offset) to a target value.
type Fn func(float64) float64

// Ease reshapes normalized progress. Curves must be monotonic on [0,1]
// with ease(0)=0 and ease(1)=1 so bound visuals track the gesture
// direction.
type Ease func(float64) float64

// Linear binds [srcLo,srcHi] onto [dstLo,dstHi]. With clamp set, inputs
// outside the source range pin to the nearest edge; otherwise the mapping
// extrapolates. Either range may run high-to-low to invert the output.
//
// A zero-width source range degenerates to a step at srcLo.
func Linear(srcLo, srcHi, dstLo, dstHi float64, clamp bool) Fn {
	return Eased(srcLo, srcHi, dstLo, dstHi, nil, clamp)
}

// Eased is Linear with a curve applied to the normalized progress. A nil
// ease means linear. With clamp unset the curve receives progress outside
// [0,1]; the caller's curve is responsible for extrapolating sensibly.
func Eased(srcLo, srcHi, dstLo, dstHi float64, ease Ease, clamp bool) Fn {
	width := srcHi - srcLo
	return func(v float64) float64 {
		var t float64
		if width == 0 {
			if v >= srcLo {
				t = 1
			}
		} else {
			t = (v - srcLo) / width
		}
		if clamp {
			t = clamp01(t)
		}
		if ease != nil {
			t = ease(t)
		}
		return dstLo + (dstHi-dstLo)*t
	}
}

// Color binds [srcLo,srcHi] onto a perceptual blend from one color to
// another. Blend progress is always confined to [0,1]; extrapolated color
// is meaningless.
func Color(srcLo, srcHi float64, from, to colorful.Color) func(float64) colorful.Color {
	progress := Linear(srcLo, srcHi, 0, 1, true)
	return func(v float64) colorful.Color {
		return from.BlendHcl(to, clamp01(progress(v))).Clamped()
	}
}

// EaseLinear is the identity curve.
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic starts fast and lands softly. The usual choice for visuals
// chasing a settling surface.
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic starts slowly and accelerates.
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutCubic accelerates through the middle of the range.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad is a softer variant of EaseOutCubic.
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
