package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// device bundles the HAL handles a chain renders with. When owned is false
// the handles belong to a host-provided device and must not be destroyed.
type device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	owned    bool
}

// halProvider is the structural contract a shared device provider must meet
// to hand out direct HAL access.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// openDevice adopts the shared device from provider when one is given, and
// opens a dedicated Vulkan device otherwise.
func openDevice(provider gpucontext.DeviceProvider, logger *slog.Logger) (*device, error) {
	if provider != nil {
		return adoptDevice(provider, logger)
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	logger.Info("swapchain: GPU device opened", "adapter", selected.Info.Name)
	return &device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
		owned:    true,
	}, nil
}

// adoptDevice wraps a host-provided device. The provider must expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func adoptDevice(provider gpucontext.DeviceProvider, logger *slog.Logger) (*device, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("device provider does not expose HAL types")
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("provider HalQueue is not hal.Queue")
	}
	logger.Info("swapchain: using shared GPU device")
	return &device{device: dev, queue: queue, name: "shared", owned: false}, nil
}

// Close destroys owned handles. Shared handles are released, not destroyed.
func (d *device) Close() {
	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
