package gpuscale

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

const fullExtensions = "GL_ARB_texture_rectangle GL_ARB_texture_non_power_of_two " +
	"GL_ARB_pixel_buffer_object GL_ARB_framebuffer_object " +
	"GL_ARB_fragment_shader GL_ARB_vertex_shader GL_EXT_blend_minmax"

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		exts string
		want bool
	}{
		{"all present", fullExtensions, true},
		{"empty", "", false},
		{"missing pixel buffer", strings.ReplaceAll(fullExtensions, "GL_ARB_pixel_buffer_object", ""), false},
		{"missing vertex shader", strings.ReplaceAll(fullExtensions, "GL_ARB_vertex_shader", ""), false},
		{"core only", coreExtensions(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Supported(tt.exts); got != tt.want {
				t.Errorf("Supported() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingExtensions(t *testing.T) {
	exts := strings.ReplaceAll(fullExtensions, "GL_ARB_framebuffer_object", "")
	missing := MissingExtensions(exts)
	if len(missing) != 1 || missing[0] != ExtFramebufferObject {
		t.Errorf("MissingExtensions = %v, want [%s]", missing, ExtFramebufferObject)
	}
	if got := MissingExtensions(""); len(got) != len(RequiredExtensions) {
		t.Errorf("MissingExtensions(\"\") = %v", got)
	}
}

func TestAdapterExtensions(t *testing.T) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)

	exts := AdapterExtensions(&adapters[0])
	if !Supported(exts) {
		t.Errorf("noop adapter unsupported: missing %v", MissingExtensions(exts))
	}

	limited := adapters[0]
	limited.Capabilities.AlignmentsMask.BufferCopyPitch = 0
	limited.Capabilities.Limits = gputypes.DefaultLimits()
	limited.Capabilities.Limits.MaxBindGroups = 0
	missing := MissingExtensions(AdapterExtensions(&limited))
	if strings.Join(missing, " ") != ExtPixelBufferObject+" "+ExtVertexShader {
		t.Errorf("missing = %v", missing)
	}

	if AdapterExtensions(nil) != "" || AdapterExtensions(&hal.ExposedAdapter{}) != "" {
		t.Error("adapter without a device should report nothing")
	}
}
