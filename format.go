package gpuscale

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ImageFormat tags the pixel layout a host pipeline expects for frames it
// exchanges with an Environment. gpuscale stores the tag but never
// interprets it.
type ImageFormat int

const (
	// ImageNone means no format has been negotiated yet.
	ImageNone ImageFormat = iota
	// ImageRGB is packed 8-bit RGB.
	ImageRGB
	// ImageRGBA is packed 8-bit RGBA.
	ImageRGBA
	// ImageYUV422 is packed 8-bit YUYV.
	ImageYUV422
	// ImageYUV420P is planar 8-bit 4:2:0.
	ImageYUV420P
	// ImageYUV422P16 is planar 16-bit 4:2:2.
	ImageYUV422P16
	// ImageTexture is a GPU-resident texture handle.
	ImageTexture
)

var imageFormatNames = [...]string{
	ImageNone:      "none",
	ImageRGB:       "rgb",
	ImageRGBA:      "rgba",
	ImageYUV422:    "yuv422",
	ImageYUV420P:   "yuv420p",
	ImageYUV422P16: "yuv422p16",
	ImageTexture:   "texture",
}

// String returns the lower-case format name.
func (f ImageFormat) String() string {
	if f >= 0 && int(f) < len(imageFormatNames) {
		return imageFormatNames[f]
	}
	return fmt.Sprintf("ImageFormat(%d)", int(f))
}

// ParseImageFormat returns the format with the given name.
func ParseImageFormat(name string) (ImageFormat, bool) {
	for i, n := range imageFormatNames {
		if n == name {
			return ImageFormat(i), true
		}
	}
	return ImageNone, false
}

// bytesPerPixel returns the texel size of the texture formats gpuscale
// allocates. Unlisted formats are treated as 4 bytes.
func bytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 4
	}
}
