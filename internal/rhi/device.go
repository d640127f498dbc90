package rhi

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
)

// A logical device bound to one physical adapter and one GPU mask for its whole lifetime.
// The device owns every GPU object it creates: Destroy releases them in reverse creation order and any later call fails with ErrDestroyed.
// Creation calls are not synchronized, so callers that share a device across goroutines must serialize them.
type Device interface {
	Destroyer

	// Returns the adapter the device was created on
	GetDisplayAdapter() discovery.AdapterDescriptor

	// Returns the GPUs the device targets
	GetGPUMask() gpumask.Mask

	// Returns the feature set detected when the device was created
	Capabilities() Capabilities

	// Creates the default descriptor heaps that views are allocated from when no custom heap is given (may only be called once)
	SetUpDefaultHeap(counts HeapCounts) error

	// Returns the default heap of the supplied type, or nil before SetUpDefaultHeap
	DefaultHeap(t DescriptorHeapType) DescriptorHeap

	CreateFrameBuffer(pass RenderPass, renderTargets []GPUTexture, depthStencil GPUTexture) (FrameBuffer, error)
	CreateFence(initialValue uint64, name string) (Fence, error)
	CreateCommandAllocator(listType CommandListType, name string) (CommandAllocator, error)
	CreateCommandList(allocator CommandAllocator, name string) (CommandList, error)
	CreateCommandQueue(listType CommandListType, name string) (CommandQueue, error)

	// CreateSwapChainFor takes the swap chain description as individual parameters
	CreateSwapChain(desc SwapChainDesc, name string) (SwapChain, error)
	CreateSwapChainFor(queue CommandQueue, window WindowInfo, width, height uint32, format PixelFormat, bufferCount uint32, vsync, fullScreen bool, name string) (SwapChain, error)

	CreateDescriptorHeap(heapType DescriptorHeapType, count uint32, name string) (DescriptorHeap, error)
	CreateDescriptorHeaps(counts HeapCounts, name string) (DescriptorHeapSet, error)

	CreateResourceLayout(elements []ResourceLayoutElement, samplers []SamplerLayoutElement, constant *Constant32Bits, name string) (ResourceLayout, error)
	CreatePipelineFactory(name string) (PipelineFactory, error)
	CreateGraphicPipelineState(pass RenderPass, layout ResourceLayout, name string) (GraphicPipelineState, error)
	CreateComputePipelineState(layout ResourceLayout, name string) (ComputePipelineState, error)
	CreateRenderPass(colors []Attachment, depth *Attachment, name string) (RenderPass, error)

	// Views allocate a slot from the custom heap, or from the default heap of the matching type when the custom heap is nil
	CreateTextureView(viewType ResourceViewType, texture GPUTexture, customHeap DescriptorHeap, name string) (ResourceView, error)
	CreateBufferView(viewType ResourceViewType, buffer GPUBuffer, customHeap DescriptorHeap, name string) (ResourceView, error)

	CreateSampler(info SamplerInfo, name string) (Sampler, error)
	CreateBuffer(metadata GPUBufferMetadata, name string) (GPUBuffer, error)
	CreateTexture(metadata GPUTextureMetadata, name string) (GPUTexture, error)

	// Creates a placeholder texture with no storage, to be replaced once real data is available
	CreateTextureEmpty(name string) (GPUTexture, error)

	CreateRayTracingGeometry(flags RayTracingGeometryFlags, vertexBuffer, indexBuffer GPUBuffer, name string) (RayTracingGeometry, error)
	CreateASInstance(desc ASInstanceDesc, name string) (ASInstance, error)
	CreateRayTracingBLAS(geometries []RayTracingGeometry, flags BuildAccelerationStructureFlags, name string) (RayTracingBLAS, error)
	CreateRayTracingTLAS(instances []ASInstance, flags BuildAccelerationStructureFlags, name string) (RayTracingTLAS, error)
	CreateQuery(desc QueryHeapDesc, name string) (Query, error)
}

// Holds the state every backend device shares, and is embedded by each backend's device
type DeviceBase struct {

	// The adapter and GPU mask the device is bound to
	adapter discovery.AdapterDescriptor
	mask    gpumask.Mask

	// The feature set computed when the device was created
	capabilities Capabilities

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger

	// The live objects created through the device, keyed by creation sequence number
	owned map[uint64]Object

	// The sequence number assigned to the next tracked object
	nextID uint64

	destroyed bool
}

// Binds a device to its adapter and mask
func NewDeviceBase(adapter discovery.AdapterDescriptor, mask gpumask.Mask, features Feature, logger *zap.SugaredLogger) DeviceBase {
	return DeviceBase{
		adapter:      adapter,
		mask:         mask,
		capabilities: NewCapabilities(features, adapter),
		logger:       logger,
		owned:        make(map[uint64]Object),
	}
}

func (d *DeviceBase) GetDisplayAdapter() discovery.AdapterDescriptor { return d.adapter }

func (d *DeviceBase) GetGPUMask() gpumask.Mask { return d.mask }

func (d *DeviceBase) Capabilities() Capabilities { return d.capabilities }

func (d *DeviceBase) Logger() *zap.SugaredLogger { return d.logger }

// Returns ErrDestroyed once the device has been destroyed
func (d *DeviceBase) CheckAlive() error {
	if d.destroyed {
		return fmt.Errorf("%w: device on %s", ErrDestroyed, d.adapter.Name)
	}
	return nil
}

// Returns ErrUnsupported unless the device has every feature in the supplied set
func (d *DeviceBase) Require(f Feature, operation string) error {
	if !d.capabilities.Supports(f) {
		return fmt.Errorf("%w: %s requires %s", ErrUnsupported, operation, f&^d.capabilities.Features())
	}
	return nil
}

// Verifies that an object argument is still alive and was created by this device
func (d *DeviceBase) CheckArgument(obj Object, what string) error {
	base := baseOf(obj)
	if base != nil && base.destroyed {
		return fmt.Errorf("%w: %s \"%s\"", ErrDestroyed, what, obj.Name())
	}
	if base == nil || base.owner != d {
		return fmt.Errorf("%w: %s \"%s\" was not created by this device", ErrInvalidArgument, what, obj.Name())
	}
	return nil
}

// Records an object in the ownership table so that it is destroyed with the device.
// The entry is removed as soon as the object is destroyed.
func (d *DeviceBase) Track(obj Object) {
	id := d.nextID
	d.nextID += 1
	d.owned[id] = obj

	if base := baseOf(obj); base != nil {
		base.owner = d
		base.untrack = func() { delete(d.owned, id) }
	}

	metrics.DeviceObjectsCreated.WithLabelValues(obj.Kind()).Inc()
	d.logger.Debugw("Created device object", "kind", obj.Kind(), "name", obj.Name())
}

// Marks the device as the owner of an object whose lifetime is managed by another tracked object (e.g. swap chain back buffers)
func (d *DeviceBase) Adopt(obj Object) {
	if base := baseOf(obj); base != nil {
		base.owner = d
	}
}

// Returns the number of live objects in the ownership table
func (d *DeviceBase) OwnedCount() int { return len(d.owned) }

// Destroys every live tracked object in reverse creation order and marks the device destroyed
func (d *DeviceBase) DestroyOwned() {
	if d.destroyed {
		return
	}

	ids := maps.Keys(d.owned)
	slices.Sort(ids)
	for index := len(ids) - 1; index >= 0; index -= 1 {

		// Destroying one object may already have destroyed another
		if obj, ok := d.owned[ids[index]]; ok {
			obj.Destroy()
			delete(d.owned, ids[index])
		}
	}

	d.logger.Infow("Destroyed device", "adapter", d.adapter.Name, "objects", len(ids))
	d.owned = nil
	d.destroyed = true
}
