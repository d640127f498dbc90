package rhi

import (
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
)

// Wraps the Destroy method, which releases backend-owned GPU state and has no effect when called more than once
type Destroyer interface {
	Destroy()
}

// The interface shared by every handle a Device creates
type Object interface {
	Destroyer

	// Returns the debug name given at creation
	Name() string

	// Returns the object kind used for metrics and logs (e.g. "buffer" or "commandQueue")
	Kind() string
}

// A monotonically increasing GPU timeline value
type Fence interface {
	Object
	CompletedValue() uint64

	// Advances the fence, failing if the value is lower than the completed value
	Signal(value uint64) error
}

// Owns the memory that command lists record into
type CommandAllocator interface {
	Object
	Type() CommandListType
}

// Records commands of a single type
type CommandList interface {
	Object
	Type() CommandListType
	Allocator() CommandAllocator
}

// Executes command lists of a single type
type CommandQueue interface {
	Object
	Type() CommandListType
}

// A fixed-size pool of descriptor slots
type DescriptorHeap interface {
	Object
	Type() DescriptorHeapType
	Capacity() uint32

	// Returns the number of slots in use
	Allocated() uint32

	// Reserves a free slot, returning ErrHeapExhausted when none remain
	Allocate() (uint32, error)

	// Returns a slot to the heap
	Free(slot uint32)
}

// Holds one heap per descriptor type
type DescriptorHeapSet map[DescriptorHeapType]DescriptorHeap

// Describes the resources a pipeline binds
type ResourceLayout interface {
	Object
	Elements() []ResourceLayoutElement
	Samplers() []SamplerLayoutElement

	// Returns the inline constant block, or nil
	Constant() *Constant32Bits
}

// Creates the per-stage state objects that pipeline states are assembled from
type PipelineFactory interface {
	Object
}

type GraphicPipelineState interface {
	Object
	RenderPass() RenderPass
	Layout() ResourceLayout
}

type ComputePipelineState interface {
	Object
	Layout() ResourceLayout
}

// Describes the attachments rendered to
type RenderPass interface {
	Object
	ColorAttachments() []Attachment

	// Returns the depth attachment, or nil
	DepthAttachment() *Attachment
}

// Binds textures to the attachments of a render pass
type FrameBuffer interface {
	Object
	RenderPass() RenderPass
	RenderTargets() []GPUTexture

	// Returns the depth texture, or nil
	DepthStencil() GPUTexture
}

// Presents back buffers to a window
type SwapChain interface {
	Object
	Desc() SwapChainDesc
	BackBuffer(index uint32) GPUTexture
}

// A typed descriptor over a buffer or texture, stored in a descriptor heap slot
type ResourceView interface {
	Object
	ViewType() ResourceViewType
	Heap() DescriptorHeap
	Slot() uint32

	// Returns the viewed texture, or nil for buffer views
	Texture() GPUTexture

	// Returns the viewed buffer, or nil for texture views
	Buffer() GPUBuffer
}

type Sampler interface {
	Object
	Info() SamplerInfo
}

type GPUBuffer interface {
	Object
	Metadata() GPUBufferMetadata
}

type GPUTexture interface {
	Object
	Metadata() GPUTextureMetadata

	// Reports whether the texture was created empty and has no storage
	IsPlaceholder() bool
}

// A triangle geometry referenced by a bottom-level acceleration structure
type RayTracingGeometry interface {
	Object
	Flags() RayTracingGeometryFlags
	VertexBuffer() GPUBuffer

	// Returns the index buffer, or nil
	IndexBuffer() GPUBuffer
}

type RayTracingBLAS interface {
	Object
	Geometries() []RayTracingGeometry
}

// Places a BLAS into a TLAS
type ASInstance interface {
	Object
	Desc() ASInstanceDesc
}

type RayTracingTLAS interface {
	Object
	Instances() []ASInstance
}

// A set of GPU queries of one type
type Query interface {
	Object
	Desc() QueryHeapDesc
}

// Implements the bookkeeping shared by every backend object.
// Backends embed it and supply a release function that frees their native state.
type ObjectBase struct {

	// The object kind used for metrics and logs
	kind string

	// The debug name given at creation
	name string

	// Frees the backend state, or nil when there is nothing to free
	release func()

	// The device that created the object, set once the device takes ownership of it
	owner *DeviceBase

	// Removes the object from its owner's table when it is destroyed
	untrack func()

	destroyed bool
}

// Implemented by every object that embeds ObjectBase
type objectBaseHolder interface {
	objectBase() *ObjectBase
}

// Initializes the shared part of a new object, which counts as live until Destroy is called
func NewObjectBase(kind, name string, release func()) ObjectBase {
	metrics.DeviceObjectsLive.Inc()
	return ObjectBase{kind: kind, name: name, release: release}
}

func (o *ObjectBase) objectBase() *ObjectBase { return o }

// Returns the ObjectBase embedded in an object, or nil for objects that do not embed one
func baseOf(obj Object) *ObjectBase {
	if holder, ok := obj.(objectBaseHolder); ok {
		return holder.objectBase()
	}
	return nil
}

func (o *ObjectBase) Name() string { return o.name }

func (o *ObjectBase) Kind() string { return o.kind }

// Reports whether Destroy has been called
func (o *ObjectBase) Destroyed() bool { return o.destroyed }

func (o *ObjectBase) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	if o.release != nil {
		o.release()
	}
	if o.untrack != nil {
		o.untrack()
		o.untrack = nil
	}
	metrics.DeviceObjectsLive.Dec()
}
