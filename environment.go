package gpuscale

import (
	"fmt"

	"github.com/eapache/queue"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuscale/internal/staging"
)

// stagingPerSize is the number of host staging slices kept per frame size.
const stagingPerSize = 2

// RenderState is the fixed-function state recorded by Start and applied to
// every draw.
type RenderState struct {
	ClearColor   gputypes.Color
	ClearDepth   float32
	DepthCompare gputypes.CompareFunction
	DepthTest    bool
	Blend        gputypes.BlendState
	BlendEnabled bool

	// SmoothShading interpolates vertex outputs across each quad.
	SmoothShading bool
	// TexelCoordinates means texture coordinates are given in texels.
	TexelCoordinates bool
	// NicestPerspective requests perspective-correct interpolation.
	NicestPerspective bool
}

// Environment owns every pooled GPU resource for one profile.
//
// An Environment is not safe for concurrent use. All calls must come from
// the goroutine driving its Context.
type Environment struct {
	ctx    *Context
	device hal.Device
	queue  hal.Queue
	cfg    Config

	textures     *TexturePool
	framebuffers *FramebufferPool
	shaders      *ShaderCache
	pixels       *PixelBuffer
	staging      *staging.Pool
	lut          *Texture

	imageFormat ImageFormat
	state       RenderState
	started     bool
	closed      bool

	nearest    hal.Sampler
	linear     hal.Sampler
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout

	// retired holds per-draw objects until the GPU has finished with them.
	retired *queue.Queue
}

// NewEnvironment creates an environment on ctx. It fails with
// ErrUnsupported, allocating nothing, when ctx lacks a required capability.
func NewEnvironment(ctx *Context, opts ...Option) (*Environment, error) {
	if ctx == nil || ctx.Device == nil || ctx.Queue == nil {
		return nil, fmt.Errorf("%w: no device", ErrUnsupported)
	}
	if !Supported(ctx.Extensions) {
		return nil, fmt.Errorf("%w: missing %v", ErrUnsupported, MissingExtensions(ctx.Extensions))
	}
	cfg := NewConfig(opts...)
	e := &Environment{
		ctx:         ctx,
		device:      ctx.Device,
		queue:       ctx.Queue,
		cfg:         cfg,
		imageFormat: cfg.ImageFormat,
		retired:     queue.New(),
	}
	e.textures = newTexturePool(e.device, cfg.MaxListCount)
	e.framebuffers = newFramebufferPool(e.device, cfg.MaxListCount)
	e.shaders = newShaderCache(e.device, cfg.MaxListCount, e.pipelineLayout)
	e.pixels = &PixelBuffer{device: e.device}
	e.staging = staging.NewPool(stagingPerSize)
	return e, nil
}

// Context returns the graphics context the environment was created on.
func (e *Environment) Context() *Context { return e.ctx }

// Config returns the effective configuration.
func (e *Environment) Config() Config { return e.cfg }

// Textures returns the texture pool.
func (e *Environment) Textures() *TexturePool { return e.textures }

// Framebuffers returns the frame buffer pool.
func (e *Environment) Framebuffers() *FramebufferPool { return e.framebuffers }

// Shaders returns the shader cache.
func (e *Environment) Shaders() *ShaderCache { return e.shaders }

// ImageFormat returns the image-format tag.
func (e *Environment) ImageFormat() ImageFormat { return e.imageFormat }

// SetImageFormat stores the image-format tag.
func (e *Environment) SetImageFormat(f ImageFormat) { e.imageFormat = f }

// Started reports whether Start has completed.
func (e *Environment) Started() bool { return e.started }

// State returns the render state recorded by Start.
func (e *Environment) State() RenderState { return e.state }

// Start performs one-time GPU state setup: default clear values, the
// blend function (left disabled), the shared samplers and the bind group
// and pipeline layouts used by every quad program. Calls after the first
// successful one do nothing.
func (e *Environment) Start() error {
	if e.closed {
		return ErrClosed
	}
	if e.started {
		return nil
	}

	nearest, err := e.createSampler("gpuscale_nearest", gputypes.FilterModeNearest)
	if err != nil {
		return err
	}
	linear, err := e.createSampler("gpuscale_linear", gputypes.FilterModeLinear)
	if err != nil {
		e.device.DestroySampler(nearest)
		return err
	}

	// Binding 0: Params (uniform, vertex+fragment)
	// Binding 1: source texture
	// Binding 2: source sampler
	// Binding 3: bicubic lookup texture (RGBA32F, fetched only)
	bindLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gpuscale_quad_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		e.device.DestroySampler(linear)
		e.device.DestroySampler(nearest)
		return fmt.Errorf("create quad bind group layout: %w", err)
	}
	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gpuscale_quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		e.device.DestroyBindGroupLayout(bindLayout)
		e.device.DestroySampler(linear)
		e.device.DestroySampler(nearest)
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}

	e.nearest, e.linear = nearest, linear
	e.bindLayout, e.pipeLayout = bindLayout, pipeLayout
	e.state = RenderState{
		ClearColor:   gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		ClearDepth:   1,
		DepthCompare: gputypes.CompareFunctionLessEqual,
		DepthTest:    true,
		Blend:        gputypes.BlendStateAlpha(),
		BlendEnabled: false,

		SmoothShading:     true,
		TexelCoordinates:  true,
		NicestPerspective: true,
	}
	e.started = true
	Logger().Debug("gpuscale: environment started")
	return nil
}

func (e *Environment) createSampler(label string, filter gputypes.FilterMode) (hal.Sampler, error) {
	s, err := e.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler %s: %w", label, err)
	}
	return s, nil
}

// pipelineLayout starts the environment if needed and returns the shared
// pipeline layout.
func (e *Environment) pipelineLayout() (hal.PipelineLayout, error) {
	if err := e.Start(); err != nil {
		return nil, err
	}
	return e.pipeLayout, nil
}

// PixelBuffer returns the staging buffer grown to at least minSize bytes.
func (e *Environment) PixelBuffer(minSize uint64) (*PixelBuffer, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if minSize == 0 {
		return nil, fmt.Errorf("%w: pixel buffer of 0 bytes", ErrInvalidSize)
	}
	if err := e.pixels.reserve(minSize); err != nil {
		return nil, err
	}
	return e.pixels, nil
}

// Close waits for outstanding GPU work and destroys every resource the
// environment owns, including textures still in use. Close is idempotent.
// The Context is not closed.
func (e *Environment) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if err := e.device.WaitIdle(); err != nil {
		Logger().Warn("gpuscale: wait idle on close", "err", err)
	}
	e.reclaim(^uint64(0))

	e.shaders.destroy()
	e.framebuffers.destroy()
	e.textures.destroy()
	e.pixels.destroy()
	e.lut = nil

	if e.pipeLayout != nil {
		e.device.DestroyPipelineLayout(e.pipeLayout)
	}
	if e.bindLayout != nil {
		e.device.DestroyBindGroupLayout(e.bindLayout)
	}
	if e.linear != nil {
		e.device.DestroySampler(e.linear)
	}
	if e.nearest != nil {
		e.device.DestroySampler(e.nearest)
	}
	e.pipeLayout, e.bindLayout, e.linear, e.nearest = nil, nil, nil, nil
	e.started = false
	Logger().Info("gpuscale: environment closed")
}

// Closed reports whether Close has been called.
func (e *Environment) Closed() bool { return e.closed }
