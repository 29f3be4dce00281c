package gpuscale

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment of buffer/texture copies.
const copyPitchAlignment = 256

func alignedPitch(width int) uint32 {
	row := uint32(width * 4)
	return (row + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// UploadImage copies img into a newly acquired RGBA8 texture through the
// pixel buffer. The texture is in use and must be released by the caller.
func (e *Environment) UploadImage(img image.Image) (*Texture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}

	t, err := e.textures.Acquire(w, h, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	pitch := alignedPitch(w)
	pb, err := e.PixelBuffer(uint64(pitch) * uint64(h))
	if err != nil {
		e.textures.Release(t)
		return nil, err
	}
	staging := e.staging.Get(int(pitch) * h)
	defer e.staging.Put(staging)
	for y := 0; y < h; y++ {
		copy(staging[y*int(pitch):], rgba.Pix[y*rgba.Stride:y*rgba.Stride+w*4])
	}
	if err := pb.Write(staging); err != nil {
		e.textures.Release(t)
		return nil, err
	}

	err = e.transfer("gpuscale_upload", t, func(enc hal.CommandEncoder) {
		t.transition(enc, gputypes.TextureUsageCopyDst)
		enc.CopyBufferToTexture(pb.buffer, t.texture, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: pitch, RowsPerImage: uint32(h)},
			TextureBase:  hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
			Size:         hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		}})
		t.transition(enc, gputypes.TextureUsageTextureBinding)
	})
	if err != nil {
		e.textures.Release(t)
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return t, nil
}

// ReadImage copies an RGBA8 texture back to system memory through the
// pixel buffer. It waits for all submitted GPU work.
func (e *Environment) ReadImage(t *Texture) (*image.RGBA, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if t == nil || t.texture == nil {
		return nil, fmt.Errorf("%w: no texture", ErrInvalidSize)
	}
	if t.format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("gpuscale: cannot read %v texture", t.format)
	}
	w, h := t.width, t.height
	pitch := alignedPitch(w)
	pb, err := e.PixelBuffer(uint64(pitch) * uint64(h))
	if err != nil {
		return nil, err
	}

	err = e.transfer("gpuscale_readback", t, func(enc hal.CommandEncoder) {
		t.transition(enc, gputypes.TextureUsageCopySrc)
		enc.CopyTextureToBuffer(t.texture, pb.buffer, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: pitch, RowsPerImage: uint32(h)},
			TextureBase:  hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
			Size:         hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		}})
	})
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	staging := e.staging.Get(int(pitch) * h)
	defer e.staging.Put(staging)
	if err := pb.Read(staging); err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w*4], staging[y*int(pitch):])
	}
	return out, nil
}

// transfer records copy commands touching t with a one-shot encoder,
// submits them and waits for the device to drain. The encoder is given up
// by EndEncoding or DiscardEncoding and never destroyed after recording.
// t keeps its previous usage when nothing was submitted.
func (e *Environment) transfer(label string, t *Texture, record func(hal.CommandEncoder)) error {
	enc, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		enc.Destroy()
		return fmt.Errorf("begin encoding: %w", err)
	}
	state := t.state
	record(enc)
	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.DiscardEncoding()
		t.state = state
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmd)
	if _, err := e.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		t.state = state
		return fmt.Errorf("submit: %w", err)
	}
	if err := e.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	e.reclaim(e.queue.PollCompleted())
	return nil
}
