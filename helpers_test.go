package gpuscale

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopContext opens a noop device and wraps it in a Context that
// reports every capability the noop adapter advertises.
func createNoopContext(t *testing.T) *Context {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return NewContext(openDev.Device, openDev.Queue, &adapters[0])
}

// createNoopEnvironment creates an Environment on a fresh noop context and
// closes it when the test ends.
func createNoopEnvironment(t *testing.T, opts ...Option) *Environment {
	t.Helper()
	env, err := NewEnvironment(createNoopContext(t), opts...)
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

var errInjected = errors.New("injected failure")

// failingDevice wraps a device and fails the failAt-th command encoder
// creation, the failBufferAt-th buffer creation and the failTextureAt-th
// texture creation. Zero never fails. Every other call goes to the
// wrapped device.
type failingDevice struct {
	hal.Device
	encoders int
	failAt   int

	buffers      int
	failBufferAt int

	textures      int
	failTextureAt int
}

func (d *failingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	d.encoders++
	if d.encoders == d.failAt {
		return nil, errInjected
	}
	return d.Device.CreateCommandEncoder(desc)
}

func (d *failingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.buffers++
	if d.buffers == d.failBufferAt {
		return nil, errInjected
	}
	return d.Device.CreateBuffer(desc)
}

func (d *failingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.textures++
	if d.textures == d.failTextureAt {
		return nil, errInjected
	}
	return d.Device.CreateTexture(desc)
}

var errEncoderClosed = errors.New("BeginEncoding on an encoder closed by EndEncoding")

// strictDevice hands out encoders that follow the HAL lifecycle the way
// the Vulkan backend does: once EndEncoding returns, the encoder belongs to
// the backend again and must not be begun or destroyed by the caller.
type strictDevice struct {
	hal.Device
	t        *testing.T
	created  int
	barriers []hal.TextureBarrier
}

func (d *strictDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	d.created++
	return &strictEncoder{CommandEncoder: enc, dev: d}, nil
}

type strictEncoder struct {
	hal.CommandEncoder
	dev       *strictDevice
	recording bool
	ended     bool
}

func (e *strictEncoder) BeginEncoding(label string) error {
	if e.ended {
		return errEncoderClosed
	}
	e.recording = true
	return e.CommandEncoder.BeginEncoding(label)
}

func (e *strictEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if !e.recording {
		return nil, errors.New("EndEncoding without BeginEncoding")
	}
	e.recording, e.ended = false, true
	return e.CommandEncoder.EndEncoding()
}

func (e *strictEncoder) TransitionTextures(barriers []hal.TextureBarrier) {
	e.dev.barriers = append(e.dev.barriers, barriers...)
	e.CommandEncoder.TransitionTextures(barriers)
}

func (e *strictEncoder) Destroy() {
	if e.ended {
		e.dev.t.Error("Destroy called on an encoder already handed back by EndEncoding")
	}
	e.CommandEncoder.Destroy()
}

// createStrictEnvironment creates an Environment whose device enforces the
// encoder lifecycle.
func createStrictEnvironment(t *testing.T, opts ...Option) (*Environment, *strictDevice) {
	t.Helper()
	ctx := createNoopContext(t)
	dev := &strictDevice{Device: ctx.Device, t: t}
	ctx.Device = dev
	env, err := NewEnvironment(ctx, opts...)
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}
	t.Cleanup(env.Close)
	return env, dev
}

// inUseTextures counts pooled textures held by an operation, skipping the
// lookup texture.
func inUseTextures(env *Environment) int {
	n := 0
	for _, tex := range env.Textures().items.All() {
		if tex.InUse() && tex != env.LUT() {
			n++
		}
	}
	return n
}
