package gpuscale

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuscale/internal/list"
)

// Program is a compiled quad shader and its render pipeline.
type Program struct {
	name     string
	module   hal.ShaderModule
	pipeline hal.RenderPipeline
	format   gputypes.TextureFormat
	used     bool
	log      []string
}

// Name returns the cache key of the program.
func (p *Program) Name() string { return p.name }

// InUse reports whether the program is held by an operation.
func (p *Program) InUse() bool { return p.used }

// Log returns the validation diagnostics recorded when the program was
// built. A program with diagnostics is still usable but may misrender.
func (p *Program) Log() []string { return p.log }

// TargetFormat returns the color format the program renders to.
func (p *Program) TargetFormat() gputypes.TextureFormat { return p.format }

// ShaderCache builds each named program once and keeps it for the life of
// the environment. The key is the name, not the source: requesting a known
// name with different source returns the program built first.
type ShaderCache struct {
	device hal.Device
	layout func() (hal.PipelineLayout, error)
	items  *list.Bounded[*Program]
}

func newShaderCache(device hal.Device, limit int, layout func() (hal.PipelineLayout, error)) *ShaderCache {
	return &ShaderCache{device: device, layout: layout, items: list.New[*Program](limit)}
}

// Get returns the program cached under name, building it from source on
// the first request. source is a complete WGSL module with vs_main and
// fs_main entry points; see QuadShader.
//
// Parse errors fail the call with ErrShaderCompile. Validation diagnostics
// are logged and kept on Program.Log without failing the call.
func (c *ShaderCache) Get(name, source string) (*Program, error) {
	for _, p := range c.items.All() {
		if p.name == name {
			p.used = true
			Logger().Debug("gpuscale: shader cache hit", "name", name)
			return p, nil
		}
	}
	if c.items.Len() >= c.items.Cap() {
		return nil, fmt.Errorf("%w: %d programs", ErrListFull, c.items.Len())
	}
	layout, err := c.layout()
	if err != nil {
		return nil, err
	}

	spirvCode, diagnostics, err := compileShader(name, source)
	if err != nil {
		return nil, err
	}

	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{WGSL: source, SPIRV: spirvCode},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %q: %w", name, err)
	}

	const format = gputypes.TextureFormatRGBA8Unorm
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  name + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		c.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("create render pipeline %q: %w", name, err)
	}

	p := &Program{
		name:     name,
		module:   module,
		pipeline: pipeline,
		format:   format,
		used:     true,
		log:      diagnostics,
	}
	c.items.Add(p)
	Logger().Debug("gpuscale: shader built", "name", name, "diagnostics", len(diagnostics))
	return p, nil
}

// Release clears the in-use mark of p. The program stays cached.
func (c *ShaderCache) Release(p *Program) {
	if p != nil {
		p.used = false
	}
}

// Len returns the number of cached programs.
func (c *ShaderCache) Len() int { return c.items.Len() }

// Lookup returns the program cached under name without building it.
func (c *ShaderCache) Lookup(name string) *Program {
	for _, p := range c.items.All() {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (c *ShaderCache) destroy() {
	for _, p := range c.items.All() {
		if p.pipeline != nil {
			c.device.DestroyRenderPipeline(p.pipeline)
		}
		if p.module != nil {
			c.device.DestroyShaderModule(p.module)
		}
		p.pipeline, p.module = nil, nil
	}
	c.items.Clear()
}

// compileShader parses and lowers WGSL, validates the result and emits
// SPIR-V. Only parse and lowering errors are fatal. Validation errors are
// returned as diagnostics; a SPIR-V generation failure leaves the module
// to be compiled from WGSL by the backend.
func compileShader(name, source string) ([]uint32, []string, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		Logger().Warn("gpuscale: shader compile log", "name", name, "log", err.Error())
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		Logger().Warn("gpuscale: shader compile log", "name", name, "log", err.Error())
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, err)
	}

	var diagnostics []string
	verrs, err := naga.Validate(module)
	if err != nil {
		diagnostics = append(diagnostics, err.Error())
	}
	for _, ve := range verrs {
		diagnostics = append(diagnostics, ve.Error())
	}
	for _, d := range diagnostics {
		Logger().Warn("gpuscale: shader link log", "name", name, "log", d)
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		msg := fmt.Sprintf("spir-v generation: %v", err)
		Logger().Warn("gpuscale: shader link log", "name", name, "log", msg)
		return nil, append(diagnostics, msg), nil
	}
	return spirvWords(spirvBytes), diagnostics, nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
