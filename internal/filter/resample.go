package filter

import (
	"image"

	"golang.org/x/image/draw"
)

// Mode selects the CPU resampling kernel.
type Mode int

const (
	// ModeBilinear uses a tent filter.
	ModeBilinear Mode = iota

	// ModeCatmullRom uses the Catmull-Rom cubic.
	ModeCatmullRom

	// ModeCosine uses the raised cosine kernel.
	ModeCosine
)

// cosineKernel adapts Cosine to x/image/draw. Cosine itself is not zero
// outside its support, so the kernel clamps it there.
var cosineKernel = &draw.Kernel{
	Support: 2,
	At: func(t float64) float64 {
		if t < -2 || t > 2 {
			return 0
		}
		return Cosine(t)
	},
}

// Kernel returns the x/image/draw kernel for m.
func (m Mode) Kernel() *draw.Kernel {
	switch m {
	case ModeCatmullRom:
		return draw.CatmullRom
	case ModeCosine:
		return cosineKernel
	default:
		return draw.BiLinear
	}
}

// ModeForSpline maps a GPU spline selector to the equivalent CPU mode.
func ModeForSpline(s Spline) Mode {
	if s == SplineCosine {
		return ModeCosine
	}
	return ModeCatmullRom
}

// Resample scales src into a new width x height RGBA image.
func Resample(src image.Image, width, height int, m Mode) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if src.Bounds().Empty() {
		return dst
	}
	m.Kernel().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
