package gpuscale

import (
	_ "embed"
	"encoding/binary"
	"math"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

//go:embed shaders/blit.wgsl
var blitFragmentSource string

//go:embed shaders/bicubic_pass1.wgsl
var bicubicPass1FragmentSource string

//go:embed shaders/bicubic_pass2.wgsl
var bicubicPass2FragmentSource string

// Names of the built-in programs in the shader cache.
const (
	ProgramBlit         = "blit"
	ProgramBicubicPass1 = "filter_bicubic_pass1"
	ProgramBicubicPass2 = "filter_bicubic_pass2"
)

// QuadShader prepends the shared quad vertex stage and bindings to a
// fragment stage. The fragment entry point must be named fs_main; it may
// use params, src, src_sampler, lut, texel and lut_weights.
func QuadShader(fragment string) string {
	return quadShaderSource + "\n" + fragment
}

// uniformSize is the byte size of the Params uniform block.
const uniformSize = 112

// quadUniforms holds the values written to a frame buffer's uniform block.
type quadUniforms struct {
	projection [16]float32
	quad       Quad
	spline     float32
	lutWidth   float32
}

// bytes encodes u with the Params layout of quad.wgsl.
func (u *quadUniforms) bytes() []byte {
	buf := make([]byte, uniformSize)
	put := func(i int, v float32) {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range u.projection {
		put(i, v)
	}
	q := u.quad
	for i, v := range [8]float32{q.X1, q.Y1, q.X2, q.Y2, q.U1, q.V1, q.U2, q.V2} {
		put(16+i, v)
	}
	put(24, u.spline)
	put(25, u.lutWidth)
	return buf
}

// float32Bytes encodes values little-endian.
func float32Bytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
