package gpuscale

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const pixelBufferUsage = gputypes.BufferUsageMapRead |
	gputypes.BufferUsageMapWrite |
	gputypes.BufferUsageCopySrc |
	gputypes.BufferUsageCopyDst

// PixelBuffer is the environment's staging buffer for pixel transfers.
// Its capacity only grows.
type PixelBuffer struct {
	device hal.Device
	buffer hal.Buffer
	size   uint64
	grows  int
}

// Size returns the current capacity in bytes.
func (b *PixelBuffer) Size() uint64 { return b.size }

// Raw returns the HAL buffer. The handle changes when the buffer grows.
func (b *PixelBuffer) Raw() hal.Buffer { return b.buffer }

// reserve reallocates the buffer when minSize exceeds its capacity.
// The old buffer survives a failed reallocation.
func (b *PixelBuffer) reserve(minSize uint64) error {
	if b.buffer != nil && minSize <= b.size {
		return nil
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gpuscale_pixel_stream",
		Size:  minSize,
		Usage: pixelBufferUsage,
	})
	if err != nil {
		return fmt.Errorf("create pixel buffer (%d bytes): %w", minSize, err)
	}
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
	}
	b.buffer = buf
	b.size = minSize
	b.grows++
	Logger().Debug("gpuscale: pixel buffer resized", "size", minSize)
	return nil
}

// Write copies data to the start of the buffer.
func (b *PixelBuffer) Write(data []byte) error {
	if uint64(len(data)) > b.size {
		return fmt.Errorf("%w: write of %d bytes into %d byte pixel buffer", ErrInvalidSize, len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	m, err := b.device.MapBuffer(b.buffer, 0, uint64(len(data)))
	if err != nil {
		return fmt.Errorf("map pixel buffer: %w", err)
	}
	copy(unsafe.Slice((*byte)(m.Ptr), len(data)), data)
	return b.device.UnmapBuffer(b.buffer)
}

// Read copies the first len(dst) bytes of the buffer into dst.
func (b *PixelBuffer) Read(dst []byte) error {
	if uint64(len(dst)) > b.size {
		return fmt.Errorf("%w: read of %d bytes from %d byte pixel buffer", ErrInvalidSize, len(dst), b.size)
	}
	if len(dst) == 0 {
		return nil
	}
	m, err := b.device.MapBuffer(b.buffer, 0, uint64(len(dst)))
	if err != nil {
		return fmt.Errorf("map pixel buffer: %w", err)
	}
	copy(dst, unsafe.Slice((*byte)(m.Ptr), len(dst)))
	return b.device.UnmapBuffer(b.buffer)
}

func (b *PixelBuffer) destroy() {
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
	}
	b.buffer = nil
	b.size = 0
}
