package gpuscale

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuscale/internal/list"
)

// Framebuffer is a pooled render target: the uniform buffer and view
// state that draws are recorded with. The color attachment is whatever
// texture is attached at draw time, so frame buffers carry no format.
// Command encoders are not pooled; each draw records with its own.
type Framebuffer struct {
	uniforms hal.Buffer
	width    int
	height   int
	used     bool
	id       uint64

	target     *Texture
	viewWidth  int
	viewHeight int
	projection mgl32.Mat4
}

// Width returns the frame buffer width.
func (f *Framebuffer) Width() int { return f.width }

// Height returns the frame buffer height.
func (f *Framebuffer) Height() int { return f.height }

// InUse reports whether the frame buffer is currently acquired.
func (f *Framebuffer) InUse() bool { return f.used }

// ID returns a pool-unique identifier.
func (f *Framebuffer) ID() uint64 { return f.id }

// Target returns the attached color texture, or nil.
func (f *Framebuffer) Target() *Texture { return f.target }

// Attach binds t as the color attachment for subsequent draws.
func (f *Framebuffer) Attach(t *Texture) { f.target = t }

// Detach clears the color attachment.
func (f *Framebuffer) Detach() { f.target = nil }

// SetOrthoView sets a width x height viewport with an orthographic
// projection mapping (0,0) to its top-left corner.
func (f *Framebuffer) SetOrthoView(width, height int) {
	f.viewWidth, f.viewHeight = width, height
	f.projection = OrthoView(width, height)
}

// OrthoView returns the projection used by SetOrthoView.
func OrthoView(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

func (f *Framebuffer) String() string {
	return fmt.Sprintf("Framebuffer#%d[%dx%d used=%v]", f.id, f.width, f.height, f.used)
}

// FramebufferPool caches frame buffers by (width, height).
type FramebufferPool struct {
	device hal.Device
	items  *list.Bounded[*Framebuffer]
	nextID uint64
}

func newFramebufferPool(device hal.Device, limit int) *FramebufferPool {
	return &FramebufferPool{device: device, items: list.New[*Framebuffer](limit)}
}

// Acquire returns a free frame buffer of the given size, or allocates one.
func (p *FramebufferPool) Acquire(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: framebuffer %dx%d", ErrInvalidSize, width, height)
	}
	for _, f := range p.items.All() {
		if !f.used && f.width == width && f.height == height {
			f.used = true
			return f, nil
		}
	}
	if p.items.Len() >= p.items.Cap() {
		return nil, fmt.Errorf("%w: %d framebuffers", ErrListFull, p.items.Len())
	}

	p.nextID++
	id := p.nextID
	uniforms, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("gpuscale_fbo_%d_uniforms", id),
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create framebuffer %dx%d: %w", width, height, err)
	}

	f := &Framebuffer{
		uniforms: uniforms,
		width:    width,
		height:   height,
		used:     true,
		id:       id,
	}
	f.SetOrthoView(width, height)
	p.items.Add(f)
	Logger().Debug("gpuscale: framebuffer allocated", "id", id, "width", width, "height", height)
	return f, nil
}

// Release marks f free for reuse and detaches its color texture.
func (p *FramebufferPool) Release(f *Framebuffer) {
	if f == nil {
		return
	}
	f.target = nil
	f.used = false
}

// Len returns the number of pooled frame buffers.
func (p *FramebufferPool) Len() int { return p.items.Len() }

// Free returns the number of pooled frame buffers not in use.
func (p *FramebufferPool) Free() int {
	n := 0
	for _, f := range p.items.All() {
		if !f.used {
			n++
		}
	}
	return n
}

func (p *FramebufferPool) destroy() {
	for _, f := range p.items.All() {
		if f.uniforms != nil {
			p.device.DestroyBuffer(f.uniforms)
		}
		f.uniforms, f.target = nil, nil
	}
	p.items.Clear()
}
