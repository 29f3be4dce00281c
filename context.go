package gpuscale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Context is an open graphics device together with the capability string
// the capability check runs against. All Environment operations on a
// Context must happen on one goroutine at a time.
type Context struct {
	Device hal.Device
	Queue  hal.Queue

	// Extensions is a space-separated capability list, see Supported.
	Extensions string

	// Info describes the adapter behind Device.
	Info gputypes.AdapterInfo

	instance hal.Instance
	owned    bool
}

// NewContext wraps an already opened device. The caller keeps ownership
// of device and queue; Close does not destroy them.
func NewContext(device hal.Device, queue hal.Queue, adapter *hal.ExposedAdapter) *Context {
	c := &Context{Device: device, Queue: queue}
	if adapter != nil {
		c.Extensions = AdapterExtensions(adapter)
		c.Info = adapter.Info
	}
	return c
}

// Close destroys the device and instance if OpenContext created them.
func (c *Context) Close() {
	if c == nil || !c.owned {
		return
	}
	if c.Device != nil {
		if err := c.Device.WaitIdle(); err != nil {
			Logger().Warn("gpuscale: wait idle before close", "err", err)
		}
		c.Device.Destroy()
	}
	if c.instance != nil {
		c.instance.Destroy()
	}
	c.Device, c.Queue, c.instance = nil, nil, nil
	c.owned = false
}

// BackendName returns the name used by Config.Backend for a HAL variant.
func BackendName(b gputypes.Backend) string {
	if b == gputypes.BackendEmpty {
		return "software"
	}
	return strings.ToLower(b.String())
}

// defaultBackendPriority orders backends from most to least preferred.
var defaultBackendPriority = []string{"vulkan", "metal", "dx12", "gl", "software"}

// backendRegistry collects the HAL backends registered in this process.
// Backends register themselves from init functions, so programs import
// hal/allbackends (or a single backend package) for side effects.
func backendRegistry() *gpucontext.Registry[hal.Backend] {
	reg := gpucontext.NewRegistry[hal.Backend](gpucontext.WithPriority(defaultBackendPriority...))
	for _, variant := range hal.AvailableBackends() {
		b, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		reg.Register(BackendName(variant), func() hal.Backend { return b })
	}
	return reg
}

// OpenContext opens a device on the configured backend, or the best
// available one when cfg.Backend is empty. Discrete and integrated GPUs
// are preferred over other adapters.
func OpenContext(cfg Config) (*Context, error) {
	reg := backendRegistry()
	name := cfg.Backend
	if name == "" {
		name = reg.BestName()
	}
	if name == "" || !reg.Has(name) {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, reg.Available())
	}
	backend := reg.Get(name)

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	c := NewContext(openDev.Device, openDev.Queue, selected)
	c.instance = instance
	c.owned = true
	Logger().Info("gpuscale: device opened", "backend", name, "adapter", selected.Info.Name)
	return c, nil
}

// ContextFromProvider adopts the device of a host application. The
// provider must expose its HAL objects through HalDevice() any and
// HalQueue() any. Such devices implement the WebGPU core feature set, so
// the context reports every required capability.
func ContextFromProvider(provider gpucontext.DeviceProvider) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("gpuscale: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("gpuscale: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("gpuscale: provider HalQueue is not hal.Queue")
	}
	info := provider.AdapterInfo()
	return &Context{
		Device:     device,
		Queue:      queue,
		Extensions: coreExtensions(),
		Info:       gputypes.AdapterInfo{Name: info.Name},
	}, nil
}
