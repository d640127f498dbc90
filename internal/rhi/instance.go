package rhi

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/config"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/diagnostics"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
)

// Instance ties adapter discovery to a device driver. It owns the adapter backend,
// the debug layer and every device it creates, and releases them all in Destroy.
type Instance struct {

	// The driver used to create logical devices
	driver Driver

	// The enumerator used to list and rank adapters
	enumerator *discovery.Enumerator

	// The debug layer configured during construction
	layer diagnostics.DebugLayer

	// The diagnostics that were actually enabled
	diagnostics diagnostics.State

	// The preference used by SearchPreferredAdapter
	preference discovery.Preference

	// The rendering GPU topology
	topology gpumask.Topology

	// The descriptor counts for the default heaps
	heapCounts HeapCounts

	// The devices created so far, in creation order
	devices []Device

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger
}

// NewInstance configures the requested diagnostics and prepares adapter enumeration.
// Diagnostics are set up exactly once here, before any device can be created.
func NewInstance(driver Driver, backend discovery.Backend, layer diagnostics.DebugLayer, cfg *config.InstanceConfig, logger *zap.SugaredLogger) (*Instance, error) {

	// Resolve the default heap sizes before touching any native state
	heapCounts, err := HeapCountsFromNames(cfg.HeapCounts)
	if err != nil {
		return nil, fmt.Errorf("invalid default heap configuration: %w", err)
	}

	// Enable validation and device-removed diagnostics
	state, err := diagnostics.Setup(layer, diagnostics.Options{
		CPUValidation: cfg.EnableCPUValidation,
		GPUValidation: cfg.EnableGPUValidation,
		DeviceRemoved: cfg.EnableDeviceRemovedDiagnostics,
	}, logger)
	if err != nil {
		return nil, err
	}

	instance := &Instance{
		driver:      driver,
		enumerator:  discovery.NewEnumerator(backend, cfg.Policy(), logger),
		layer:       layer,
		diagnostics: state,
		preference:  cfg.GPUPreference(),
		topology:    cfg.Topology(),
		heapCounts:  heapCounts,
		logger:      logger,
	}

	logger.Infow(
		"Created instance",
		"driver", driver.Name(),
		"backend", backend.Name(),
		"preferenceOrdered", instance.enumerator.Ordered(),
		"renderingGPUs", instance.topology.RenderingGPUCount(),
	)
	return instance, nil
}

// Diagnostics returns the diagnostics enabled during construction
func (i *Instance) Diagnostics() diagnostics.State {
	return i.diagnostics
}

// Topology returns the rendering GPU topology
func (i *Instance) Topology() gpumask.Topology {
	return i.topology
}

// HeapCounts returns a copy of the configured default heap sizes
func (i *Instance) HeapCounts() HeapCounts {
	counts := make(HeapCounts, len(i.heapCounts))
	for t, count := range i.heapCounts {
		counts[t] = count
	}
	return counts
}

// Enumerator returns the adapter enumerator
func (i *Instance) Enumerator() *discovery.Enumerator {
	return i.enumerator
}

// SearchAdapter returns the adapter that best matches the preference, or nil if no adapter qualifies
func (i *Instance) SearchAdapter(preference discovery.Preference) (*discovery.AdapterDescriptor, error) {
	return i.enumerator.SearchAdapter(preference)
}

// SearchPreferredAdapter searches using the configured preference
func (i *Instance) SearchPreferredAdapter() (*discovery.AdapterDescriptor, error) {
	return i.enumerator.SearchAdapter(i.preference)
}

// EnumerateAdapters returns every adapter the backend reports, unranked and unfiltered
func (i *Instance) EnumerateAdapters() ([]discovery.AdapterDescriptor, error) {
	return i.enumerator.EnumerateAll()
}

// LogAdapters logs the name, memory sizes and outputs of every adapter
func (i *Instance) LogAdapters() error {
	adapters, err := i.EnumerateAdapters()
	if err != nil {
		return err
	}

	i.logger.Infof("Found %d adapter(s)", len(adapters))
	for index, adapter := range adapters {
		i.logger.Infow(
			fmt.Sprintf("Adapter %d", index),
			"name", adapter.Name,
			"vendor", adapter.VendorName(),
			"dedicatedVideoMemoryMB", adapter.DedicatedVideoMemory>>20,
			"dedicatedSystemMemoryMB", adapter.DedicatedSystemMemory>>20,
			"sharedSystemMemoryMB", adapter.SharedSystemMemory>>20,
			"outputs", len(adapter.Outputs),
		)
		for _, output := range adapter.Outputs {
			i.logger.Infow("  Output", "deviceName", output.DeviceName, "attachedToDesktop", output.AttachedToDesktop)
		}
	}

	return nil
}

// CreateDevice creates a logical device bound to the adapter and mask.
// A failure is returned as-is; the next-ranked adapter is not tried.
func (i *Instance) CreateDevice(adapter *discovery.AdapterDescriptor, mask gpumask.Mask) (Device, error) {
	if adapter == nil {
		return nil, fmt.Errorf("%w: no adapter was selected", ErrInvalidArgument)
	}
	if mask.IsZero() || !i.topology.AllGPU().ContainsAll(mask) {
		return nil, fmt.Errorf("%w: GPU mask %s is outside the rendering GPUs %s", ErrInvalidArgument, mask, i.topology.AllGPU())
	}

	device, err := i.driver.CreateDevice(*adapter, mask, i.logger.With("adapter", adapter.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create a %s device on %s: %w", i.driver.Name(), adapter.Name, err)
	}

	metrics.DevicesCreated.WithLabelValues(i.driver.Name()).Inc()
	i.devices = append(i.devices, device)
	i.logger.Infow("Created device", "adapter", adapter.Name, "mask", mask, "capabilities", device.Capabilities().Features())
	return device, nil
}

// Destroy destroys every device in reverse creation order, then releases the debug layer and the backend
func (i *Instance) Destroy() {
	for index := len(i.devices) - 1; index >= 0; index -= 1 {
		i.devices[index].Destroy()
	}
	i.devices = nil

	i.layer.Release()
	i.enumerator.Backend().Destroy()
}
