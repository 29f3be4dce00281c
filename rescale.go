package gpuscale

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpuscale/internal/filter"
)

// Spline kinds accepted by RescaleBicubic.
const (
	SplineCatmullRom = int(filter.SplineCatmullRom)
	SplineCosine     = int(filter.SplineCosine)
)

// outputFormat is the format of every rescale destination.
const outputFormat = gputypes.TextureFormatRGBA8Unorm

// acquired releases pooled resources in reverse acquisition order unless
// the operation succeeds and keeps them.
type acquired struct {
	e            *Environment
	framebuffers []*Framebuffer
	textures     []*Texture
	programs     []*Program
}

func (a *acquired) framebuffer(w, h int) (*Framebuffer, error) {
	f, err := a.e.framebuffers.Acquire(w, h)
	if err != nil {
		return nil, err
	}
	a.framebuffers = append(a.framebuffers, f)
	return f, nil
}

func (a *acquired) texture(w, h int) (*Texture, error) {
	t, err := a.e.textures.Acquire(w, h, outputFormat)
	if err != nil {
		return nil, err
	}
	a.textures = append(a.textures, t)
	return t, nil
}

func (a *acquired) program(name, fragment string) (*Program, error) {
	p, err := a.e.shaders.Get(name, QuadShader(fragment))
	if err != nil {
		return nil, err
	}
	a.programs = append(a.programs, p)
	return p, nil
}

// release returns everything except keep to the pools.
func (a *acquired) release(keep *Texture) {
	for i := len(a.programs) - 1; i >= 0; i-- {
		a.e.shaders.Release(a.programs[i])
	}
	for i := len(a.textures) - 1; i >= 0; i-- {
		if a.textures[i] != keep {
			a.e.textures.Release(a.textures[i])
		}
	}
	for i := len(a.framebuffers) - 1; i >= 0; i-- {
		a.e.framebuffers.Release(a.framebuffers[i])
	}
}

func checkArgs(src *Texture, iw, ih, ow, oh int) error {
	if src == nil || src.view == nil {
		return ErrNoSource
	}
	if iw <= 0 || ih <= 0 || ow <= 0 || oh <= 0 {
		return fmt.Errorf("%w: %dx%d -> %dx%d", ErrInvalidSize, iw, ih, ow, oh)
	}
	return nil
}

// RescaleBilinear scales the iw x ih region of src to a new ow x oh
// texture using linear filtering. The returned texture is in use and must
// be released by the caller; src is left with a linear filter until it is
// next acquired from the pool.
func (e *Environment) RescaleBilinear(src *Texture, iw, ih, ow, oh int) (*Texture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if err := checkArgs(src, iw, ih, ow, oh); err != nil {
		return nil, err
	}
	if err := e.Start(); err != nil {
		return nil, err
	}

	a := &acquired{e: e}
	fbo, err := a.framebuffer(ow, oh)
	if err != nil {
		return nil, err
	}
	dest, err := a.texture(ow, oh)
	if err != nil {
		a.release(nil)
		return nil, err
	}
	prog, err := a.program(ProgramBlit, blitFragmentSource)
	if err != nil {
		a.release(nil)
		return nil, err
	}

	fbo.Attach(dest)
	fbo.SetOrthoView(ow, oh)
	src.SetFilter(gputypes.FilterModeLinear)
	q := Quad{
		X2: float32(ow), Y2: float32(oh),
		U2: float32(iw), V2: float32(ih),
	}
	if err := e.drawQuad(fbo, prog, src, q, 0); err != nil {
		a.release(nil)
		return nil, fmt.Errorf("bilinear rescale: %w", err)
	}

	a.release(dest)
	return dest, nil
}

// RescaleBicubic scales the iw x ih region of src to a new ow x oh texture
// with a separable four-tap filter: a horizontal pass into an ow x ih
// intermediate, then a vertical pass. spline selects the kernel,
// SplineCatmullRom or SplineCosine.
//
// The returned texture is in use and must be released by the caller. On
// failure every resource acquired by the call is returned to its pool.
func (e *Environment) RescaleBicubic(src *Texture, iw, ih, ow, oh, spline int) (*Texture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if err := checkArgs(src, iw, ih, ow, oh); err != nil {
		return nil, err
	}
	if !filter.Spline(spline).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSpline, spline)
	}
	if err := e.Start(); err != nil {
		return nil, err
	}
	if e.lut == nil {
		if err := e.BuildLUT(); err != nil {
			return nil, err
		}
	}
	if e.lut == nil {
		return nil, ErrNoLUT
	}

	a := &acquired{e: e}
	fboPass1, err := a.framebuffer(ow, ih)
	if err != nil {
		return nil, err
	}
	fboPass2, err := a.framebuffer(ow, oh)
	if err != nil {
		a.release(nil)
		return nil, err
	}
	destPass1, err := a.texture(ow, ih)
	if err != nil {
		a.release(nil)
		return nil, err
	}
	dest, err := a.texture(ow, oh)
	if err != nil {
		a.release(nil)
		return nil, err
	}
	pass1, err := a.program(ProgramBicubicPass1, bicubicPass1FragmentSource)
	if err != nil {
		a.release(nil)
		return nil, err
	}
	pass2, err := a.program(ProgramBicubicPass2, bicubicPass2FragmentSource)
	if err != nil {
		a.release(nil)
		return nil, err
	}

	fboPass1.Attach(destPass1)
	fboPass1.SetOrthoView(ow, ih)
	q1 := Quad{
		X2: float32(ow), Y2: float32(ih),
		U2: float32(iw), V2: float32(ih),
	}
	if err := e.drawQuad(fboPass1, pass1, src, q1, spline); err != nil {
		a.release(nil)
		return nil, fmt.Errorf("bicubic pass 1: %w", err)
	}

	fboPass2.Attach(dest)
	fboPass2.SetOrthoView(ow, oh)
	q2 := Quad{
		X2: float32(ow), Y2: float32(oh),
		U2: float32(ow), V2: float32(ih),
	}
	if err := e.drawQuad(fboPass2, pass2, destPass1, q2, spline); err != nil {
		a.release(nil)
		return nil, fmt.Errorf("bicubic pass 2: %w", err)
	}

	a.release(dest)
	return dest, nil
}
