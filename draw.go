package gpuscale

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Quad is a rectangle in view coordinates together with the source
// texture coordinates, in texels, mapped onto it.
type Quad struct {
	X1, Y1, X2, Y2 float32
	U1, V1, U2, V2 float32
}

// QuadAt returns a quad whose texture coordinates equal its positions.
func QuadAt(x1, y1, x2, y2 float32) Quad {
	return Quad{X1: x1, Y1: y1, X2: x2, Y2: y2, U1: x1, V1: y1, U2: x2, V2: y2}
}

// retiredDraw is a per-draw object set kept until its submission completes.
type retiredDraw struct {
	submission uint64
	group      hal.BindGroup
	cmd        hal.CommandBuffer
}

// DrawQuad renders q with prog into the texture attached to fb, reading
// src. The source is sampled with its own filter; the lookup texture is
// bound when it exists. fb's viewport and projection come from
// SetOrthoView.
func (e *Environment) DrawQuad(fb *Framebuffer, prog *Program, src *Texture, q Quad) error {
	return e.drawQuad(fb, prog, src, q, 0)
}

func (e *Environment) drawQuad(fb *Framebuffer, prog *Program, src *Texture, q Quad, spline int) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.Start(); err != nil {
		return err
	}
	switch {
	case fb == nil || fb.uniforms == nil:
		return errors.New("gpuscale: draw without framebuffer")
	case fb.target == nil:
		return errors.New("gpuscale: framebuffer has no color attachment")
	case prog == nil || prog.pipeline == nil:
		return errors.New("gpuscale: draw without program")
	case src == nil || src.view == nil:
		return errors.New("gpuscale: draw without source texture")
	case fb.target.format != prog.format:
		return fmt.Errorf("gpuscale: program %q renders %v, target is %v", prog.name, prog.format, fb.target.format)
	}
	e.reclaim(e.queue.PollCompleted())

	lutWidth := float32(0)
	lutView := src.view
	if e.lut != nil {
		lutWidth = float32(e.lut.width)
		lutView = e.lut.view
	}
	uniforms := quadUniforms{
		projection: fb.projection,
		quad:       q,
		spline:     float32(spline),
		lutWidth:   lutWidth,
	}
	if err := e.queue.WriteBuffer(fb.uniforms, 0, uniforms.bytes()); err != nil {
		return fmt.Errorf("write quad uniforms: %w", err)
	}

	sampler := e.nearest
	if src.filter == gputypes.FilterModeLinear {
		sampler = e.linear
	}
	group, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gpuscale_quad_bind",
		Layout: e.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: fb.uniforms.NativeHandle(), Size: uniformSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
			{Binding: 3, Resource: gputypes.TextureViewBinding{TextureView: lutView.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create quad bind group: %w", err)
	}

	// Vulkan recycles a standalone encoder on EndEncoding, so every draw
	// records with a fresh one and only the command buffer is retired.
	enc, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gpuscale_quad_encoder"})
	if err != nil {
		e.device.DestroyBindGroup(group)
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("gpuscale_quad"); err != nil {
		enc.Destroy()
		e.device.DestroyBindGroup(group)
		return fmt.Errorf("begin encoding: %w", err)
	}
	srcState, dstState := src.state, fb.target.state
	src.transition(enc, gputypes.TextureUsageTextureBinding)
	fb.target.transition(enc, gputypes.TextureUsageRenderAttachment)
	pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gpuscale_quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       fb.target.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: e.state.ClearColor,
			},
		},
	})
	pass.SetViewport(0, 0, float32(fb.viewWidth), float32(fb.viewHeight), 0, 1)
	pass.SetPipeline(prog.pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.Draw(4, 1, 0, 0)
	pass.End()

	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.DiscardEncoding()
		e.device.DestroyBindGroup(group)
		src.state, fb.target.state = srcState, dstState
		return fmt.Errorf("end encoding: %w", err)
	}
	idx, err := e.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		e.device.FreeCommandBuffer(cmd)
		e.device.DestroyBindGroup(group)
		src.state, fb.target.state = srcState, dstState
		return fmt.Errorf("submit quad: %w", err)
	}
	e.retired.Add(retiredDraw{submission: idx, group: group, cmd: cmd})
	return nil
}

// reclaim frees retired draws whose submission index is at most done.
func (e *Environment) reclaim(done uint64) {
	for e.retired.Length() > 0 {
		r := e.retired.Peek().(retiredDraw)
		if r.submission > done {
			return
		}
		e.retired.Remove()
		e.device.FreeCommandBuffer(r.cmd)
		e.device.DestroyBindGroup(r.group)
	}
}

// Pending returns the number of draws whose GPU objects await completion.
func (e *Environment) Pending() int { return e.retired.Length() }
