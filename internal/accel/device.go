//go:build !nogpu

package accel

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// deviceHandle owns one opened compute device and its queue.
// Release is idempotent and safe on partially-initialized handles.
type deviceHandle struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

// acquireDevice opens the first GPU adapter, falling back to the first
// non-GPU (CPU/software) adapter when no GPU is exposed.
func acquireDevice() (*deviceHandle, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("accel: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("accel: create instance: %w", err)
	}

	h := &deviceHandle{instance: instance}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		h.release()
		return nil, errors.New("accel: no compute adapters found")
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
		// No GPU; take the first remaining adapter (CPU or virtual).
		selected = &adapters[0]
		slogger().Info("accel: no GPU adapter, using first available device",
			"adapter", selected.Info.Name)
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		h.release()
		return nil, fmt.Errorf("accel: open device: %w", err)
	}
	h.device = openDev.Device
	h.queue = openDev.Queue
	h.name = selected.Info.Name

	slogger().Info("accel: device acquired", "adapter", h.name)
	return h, nil
}

// release destroys the device and instance. Handles that were never created
// are skipped; calling release twice is a no-op.
func (h *deviceHandle) release() {
	if h.device != nil {
		h.device.Destroy()
		h.device = nil
	}
	if h.instance != nil {
		h.instance.Destroy()
		h.instance = nil
	}
	h.queue = nil
}
