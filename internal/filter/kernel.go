package filter

import (
	"fmt"
	"math"
)

// Spline selects an interpolation kernel. The value is also the LUT row.
type Spline int

const (
	// SplineCatmullRom is the Catmull-Rom cubic.
	SplineCatmullRom Spline = iota

	// SplineCosine is the raised cosine kernel.
	SplineCosine

	// SplineCount is the number of kernels, and rows in the LUT.
	SplineCount
)

// String returns the kernel name.
func (s Spline) String() string {
	switch s {
	case SplineCatmullRom:
		return "catmull-rom"
	case SplineCosine:
		return "cosine"
	default:
		return fmt.Sprintf("Spline(%d)", int(s))
	}
}

// Valid reports whether s names a known kernel.
func (s Spline) Valid() bool {
	return s >= 0 && s < SplineCount
}

// Func returns the kernel function for s, or nil for an unknown kernel.
func (s Spline) Func() func(float64) float64 {
	switch s {
	case SplineCatmullRom:
		return CatmullRom
	case SplineCosine:
		return Cosine
	default:
		return nil
	}
}

// Cosine evaluates 0.5*cos(pi*|x|/2) + 0.5.
//
// The curve falls from 1 at x=0 to 0 at |x|=2; it is not clamped, so callers
// must only sample it within the kernel support.
func Cosine(x float64) float64 {
	return 0.5*math.Cos(math.Pi*math.Abs(x)/2) + 0.5
}

// CatmullRom evaluates the Catmull-Rom cubic, zero outside [-2, 2].
func CatmullRom(x float64) float64 {
	x = math.Abs(x)
	x2 := x * x
	x3 := x2 * x
	switch {
	case x < 1:
		return (9*x3 - 15*x2 + 6) / 6
	case x <= 2:
		return (-3*x3 + 15*x2 - 24*x + 12) / 6
	default:
		return 0
	}
}
