package filter

// DefaultLUTWidth is the number of fractional offsets sampled per kernel.
const DefaultLUTWidth = 1000

// LUT builds a width x SplineCount table of RGBA float32 texels.
//
// Column i corresponds to the fractional offset t = i/width in [0, 1).
// Each texel holds the four tap weights for the neighbours at offsets
// -1, 0, +1 and +2, i.e. k(t+1), k(t), k(t-1), k(t-2).
// Row r holds the kernel Spline(r). A non-positive width selects
// DefaultLUTWidth.
func LUT(width int) []float32 {
	if width <= 0 {
		width = DefaultLUTWidth
	}
	out := make([]float32, 0, width*int(SplineCount)*4)
	for s := Spline(0); s < SplineCount; s++ {
		k := s.Func()
		for i := 0; i < width; i++ {
			t := float64(i) / float64(width)
			out = append(out,
				float32(k(t+1)),
				float32(k(t)),
				float32(k(t-1)),
				float32(k(t-2)),
			)
		}
	}
	return out
}

// Weights returns the four tap weights of kernel s at fractional offset t.
func Weights(s Spline, t float64) [4]float64 {
	k := s.Func()
	if k == nil {
		return [4]float64{}
	}
	return [4]float64{k(t + 1), k(t), k(t - 1), k(t - 2)}
}
