package gpuscale

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuscale/internal/filter"
)

// LUT returns the bicubic lookup texture, or nil before BuildLUT succeeds.
func (e *Environment) LUT() *Texture { return e.lut }

// BuildLUT uploads the kernel lookup texture once: LUTWidth x 2 RGBA32F,
// row 0 Catmull-Rom and row 1 cosine, see filter.LUT. The texture is kept
// in the texture pool marked in use. On failure nothing is retained and a
// later call tries again.
func (e *Environment) BuildLUT() error {
	if e.closed {
		return ErrClosed
	}
	if e.lut != nil {
		return nil
	}
	if e.textures.Len() >= e.textures.items.Cap() {
		return fmt.Errorf("%w: no room for lookup texture", ErrListFull)
	}

	width := e.cfg.LUTWidth
	rows := int(filter.SplineCount)
	t, err := e.textures.create(width, rows, gputypes.TextureFormatRGBA32Float,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoLUT, err)
	}

	data := float32Bytes(filter.LUT(width))
	err = e.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(width * bytesPerPixel(t.format)), RowsPerImage: uint32(rows)},
		&hal.Extent3D{Width: uint32(width), Height: uint32(rows), DepthOrArrayLayers: 1},
	)
	if err != nil {
		e.textures.destroyTexture(t)
		return fmt.Errorf("%w: upload: %w", ErrNoLUT, err)
	}

	// WriteTexture leaves the texture ready for sampling.
	t.state = gputypes.TextureUsageTextureBinding
	e.textures.adopt(t)
	e.lut = t
	Logger().Debug("gpuscale: lookup texture built", "width", width, "rows", rows)
	return nil
}
