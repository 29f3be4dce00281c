package gpuscale

import (
	"fmt"
	"image"

	"github.com/gogpu/gpuscale/internal/filter"
)

// Interpolation selects the rescale kernel for RescaleImage.
type Interpolation int

const (
	// Bilinear is single-pass linear filtering.
	Bilinear Interpolation = iota
	// BicubicCatmullRom is the two-pass Catmull-Rom filter.
	BicubicCatmullRom
	// BicubicCosine is the two-pass cosine filter.
	BicubicCosine
)

// String returns the name accepted by ParseInterpolation.
func (i Interpolation) String() string {
	switch i {
	case Bilinear:
		return "bilinear"
	case BicubicCatmullRom:
		return "bicubic"
	case BicubicCosine:
		return "cosine"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation parses "bilinear", "bicubic" or "cosine".
func ParseInterpolation(s string) (Interpolation, error) {
	for _, i := range []Interpolation{Bilinear, BicubicCatmullRom, BicubicCosine} {
		if i.String() == s {
			return i, nil
		}
	}
	return Bilinear, fmt.Errorf("gpuscale: unknown interpolation %q", s)
}

// spline returns the bicubic kernel of i. ok is false for Bilinear.
func (i Interpolation) spline() (s filter.Spline, ok bool) {
	switch i {
	case BicubicCatmullRom:
		return filter.SplineCatmullRom, true
	case BicubicCosine:
		return filter.SplineCosine, true
	default:
		return 0, false
	}
}

func (i Interpolation) cpuMode() filter.Mode {
	if s, ok := i.spline(); ok {
		return filter.ModeForSpline(s)
	}
	return filter.ModeBilinear
}

// RescaleImage scales img to ow x oh. With a nil env the image is scaled
// on the CPU with the equivalent kernel; otherwise it is uploaded,
// rescaled on the GPU and read back, and every texture is released.
func RescaleImage(env *Environment, img image.Image, ow, oh int, interp Interpolation) (*image.RGBA, error) {
	if ow <= 0 || oh <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", ErrInvalidSize, ow, oh)
	}
	if env == nil {
		Logger().Warn("gpuscale: using CPU fallback", "interpolation", interp.String())
		return filter.Resample(img, ow, oh, interp.cpuMode()), nil
	}

	src, err := env.UploadImage(img)
	if err != nil {
		return nil, err
	}
	defer env.Textures().Release(src)

	iw, ih := src.Width(), src.Height()
	var dst *Texture
	if s, ok := interp.spline(); ok {
		dst, err = env.RescaleBicubic(src, iw, ih, ow, oh, int(s))
	} else {
		dst, err = env.RescaleBilinear(src, iw, ih, ow, oh)
	}
	if err != nil {
		return nil, err
	}
	defer env.Textures().Release(dst)
	return env.ReadImage(dst)
}
