package gpuscale

import (
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Capability names checked by Supported.
const (
	ExtTextureRectangle   = "ARB_texture_rectangle"
	ExtTextureNonPowerOf2 = "ARB_texture_non_power_of_two"
	ExtPixelBufferObject  = "ARB_pixel_buffer_object"
	ExtFramebufferObject  = "ARB_framebuffer_object"
	ExtFragmentShader     = "ARB_fragment_shader"
	ExtVertexShader       = "ARB_vertex_shader"
)

// RequiredExtensions lists every capability an Environment needs.
var RequiredExtensions = []string{
	ExtTextureRectangle,
	ExtTextureNonPowerOf2,
	ExtPixelBufferObject,
	ExtFramebufferObject,
	ExtFragmentShader,
	ExtVertexShader,
}

// MissingExtensions returns the required capabilities absent from the
// space-separated extension string.
func MissingExtensions(extensions string) []string {
	var missing []string
	for _, ext := range RequiredExtensions {
		if !strings.Contains(extensions, ext) {
			missing = append(missing, ext)
		}
	}
	return missing
}

// Supported reports whether extensions advertises every required capability.
func Supported(extensions string) bool {
	if extensions == "" {
		return false
	}
	missing := MissingExtensions(extensions)
	if len(missing) > 0 {
		Logger().Debug("gpuscale: capability check failed", "missing", missing)
		return false
	}
	Logger().Info("gpuscale: capability check passed")
	return true
}

// AdapterExtensions derives the capability string of a HAL adapter.
//
//   - texture_rectangle: RGBA32Float can be sampled by texel coordinates
//   - texture_non_power_of_two: 2D textures have a non-zero size limit
//   - pixel_buffer_object: the adapter reports a buffer copy pitch
//   - framebuffer_object: RGBA8Unorm is renderable
//   - fragment_shader: two textures can be sampled per stage
//   - vertex_shader: at least one bind group is available
func AdapterExtensions(a *hal.ExposedAdapter) string {
	if a == nil || a.Adapter == nil {
		return ""
	}
	limits := a.Capabilities.Limits
	var exts []string
	add := func(ok bool, name string) {
		if ok {
			exts = append(exts, "GL_"+name)
		}
	}
	lut := a.Adapter.TextureFormatCapabilities(gputypes.TextureFormatRGBA32Float)
	rgba := a.Adapter.TextureFormatCapabilities(gputypes.TextureFormatRGBA8Unorm)

	add(lut.Flags&hal.TextureFormatCapabilitySampled != 0, ExtTextureRectangle)
	add(limits.MaxTextureDimension2D > 0, ExtTextureNonPowerOf2)
	add(a.Capabilities.AlignmentsMask.BufferCopyPitch > 0, ExtPixelBufferObject)
	add(rgba.Flags&hal.TextureFormatCapabilityRenderAttachment != 0, ExtFramebufferObject)
	add(limits.MaxSampledTexturesPerShaderStage >= 2, ExtFragmentShader)
	add(limits.MaxBindGroups >= 1, ExtVertexShader)
	return strings.Join(exts, " ")
}

// coreExtensions is the capability string of any device implementing the
// WebGPU core feature set, which guarantees every required capability.
func coreExtensions() string {
	exts := make([]string, len(RequiredExtensions))
	for i, ext := range RequiredExtensions {
		exts[i] = "GL_" + ext
	}
	return strings.Join(exts, " ")
}
