package gpuscale

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuscale/internal/list"
)

// textureUsage lets a pooled texture serve as copy source/destination,
// shader input and render target.
const textureUsage = gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageRenderAttachment

// Texture is a pooled GPU texture. Texture coordinates used with it are
// expressed in texels, not normalized.
type Texture struct {
	texture hal.Texture
	view    hal.TextureView
	width   int
	height  int
	format  gputypes.TextureFormat
	filter  gputypes.FilterMode
	used    bool
	id      uint64

	// state is the usage of the last recorded access; zero until the
	// texture is first written.
	state gputypes.TextureUsage
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Filter returns the sampling filter applied when the texture is drawn.
func (t *Texture) Filter() gputypes.FilterMode { return t.filter }

// SetFilter selects the sampling filter. The pool resets it to nearest
// whenever the texture is reacquired.
func (t *Texture) SetFilter(f gputypes.FilterMode) { t.filter = f }

// InUse reports whether the texture is currently acquired.
func (t *Texture) InUse() bool { return t.used }

// transition records a barrier moving t from its last usage to usage.
// Nothing is recorded when t is already there.
func (t *Texture) transition(enc hal.CommandEncoder, usage gputypes.TextureUsage) {
	if t.state == usage {
		return
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: t.state,
			NewUsage: usage,
		},
	}})
	t.state = usage
}

// ID returns a pool-unique identifier, stable for the texture's lifetime.
func (t *Texture) ID() uint64 { return t.id }

// Raw returns the HAL texture.
func (t *Texture) Raw() hal.Texture { return t.texture }

// View returns the HAL texture view.
func (t *Texture) View() hal.TextureView { return t.view }

func (t *Texture) String() string {
	return fmt.Sprintf("Texture#%d[%dx%d %v used=%v]", t.id, t.width, t.height, t.format, t.used)
}

// TexturePool caches textures by (width, height, format).
type TexturePool struct {
	device hal.Device
	items  *list.Bounded[*Texture]
	nextID uint64
}

func newTexturePool(device hal.Device, limit int) *TexturePool {
	return &TexturePool{device: device, items: list.New[*Texture](limit)}
}

// Acquire returns a free texture matching the signature, or allocates a
// new one. Reused textures get their filter reset to nearest.
func (p *TexturePool) Acquire(width, height int, format gputypes.TextureFormat) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", ErrInvalidSize, width, height)
	}
	for _, t := range p.items.All() {
		if !t.used && t.width == width && t.height == height && t.format == format {
			t.filter = gputypes.FilterModeNearest
			t.used = true
			return t, nil
		}
	}
	if p.items.Len() >= p.items.Cap() {
		return nil, fmt.Errorf("%w: %d textures", ErrListFull, p.items.Len())
	}

	t, err := p.create(width, height, format, textureUsage)
	if err != nil {
		return nil, err
	}
	t.used = true
	p.items.Add(t)
	Logger().Debug("gpuscale: texture allocated", "id", t.id, "width", width, "height", height, "format", format)
	return t, nil
}

// Release marks t free for reuse. The texture is not destroyed.
func (p *TexturePool) Release(t *Texture) {
	if t == nil {
		return
	}
	t.used = false
}

// Len returns the number of pooled textures.
func (p *TexturePool) Len() int { return p.items.Len() }

// Free returns the number of pooled textures not in use.
func (p *TexturePool) Free() int {
	n := 0
	for _, t := range p.items.All() {
		if !t.used {
			n++
		}
	}
	return n
}

// create allocates a texture and its view without registering it.
func (p *TexturePool) create(width, height int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*Texture, error) {
	p.nextID++
	id := p.nextID
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("gpuscale_texture_%d", id),
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %dx%d: %w", width, height, err)
	}
	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("gpuscale_texture_%d_view", id),
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %dx%d: %w", width, height, err)
	}
	return &Texture{
		texture: tex,
		view:    view,
		width:   width,
		height:  height,
		format:  format,
		filter:  gputypes.FilterModeNearest,
		id:      id,
	}, nil
}

// adopt registers a texture created outside Acquire. It stays in use.
func (p *TexturePool) adopt(t *Texture) bool {
	t.used = true
	return p.items.Add(t)
}

func (p *TexturePool) destroyTexture(t *Texture) {
	if t.view != nil {
		p.device.DestroyTextureView(t.view)
	}
	if t.texture != nil {
		p.device.DestroyTexture(t.texture)
	}
	t.view, t.texture = nil, nil
}

// destroy frees every texture, in use or not.
func (p *TexturePool) destroy() {
	for _, t := range p.items.All() {
		p.destroyTexture(t)
	}
	p.items.Clear()
}
