package rhi

import (
	"fmt"
	"strings"
)

// The kind of work a command list, allocator or queue accepts
type CommandListType int

// Command list types
const (
	CommandListGraphics CommandListType = iota
	CommandListCompute
	CommandListCopy
)

func (t CommandListType) String() string {
	switch t {
	case CommandListGraphics:
		return "graphics"
	case CommandListCompute:
		return "compute"
	case CommandListCopy:
		return "copy"
	default:
		return fmt.Sprintf("CommandListType(%d)", int(t))
	}
}

// The kind of descriptor stored in a descriptor heap
type DescriptorHeapType int

// Descriptor heap types
const (
	HeapConstantBuffer DescriptorHeapType = iota
	HeapShaderResource
	HeapUnorderedAccess
	HeapSampler
	HeapRenderTarget
	HeapDepthStencil

	descriptorHeapTypeCount
)

var descriptorHeapTypeNames = [descriptorHeapTypeCount]string{
	HeapConstantBuffer:  "constantBuffer",
	HeapShaderResource:  "shaderResource",
	HeapUnorderedAccess: "unorderedAccess",
	HeapSampler:         "sampler",
	HeapRenderTarget:    "renderTarget",
	HeapDepthStencil:    "depthStencil",
}

func (t DescriptorHeapType) String() string {
	if t.Valid() {
		return descriptorHeapTypeNames[t]
	}
	return fmt.Sprintf("DescriptorHeapType(%d)", int(t))
}

// Reports whether the value names a known heap type
func (t DescriptorHeapType) Valid() bool {
	return t >= 0 && t < descriptorHeapTypeCount
}

// Returns every heap type in declaration order
func DescriptorHeapTypes() []DescriptorHeapType {
	types := make([]DescriptorHeapType, 0, descriptorHeapTypeCount)
	for t := DescriptorHeapType(0); t < descriptorHeapTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Converts a heap type name (case-insensitive) into a DescriptorHeapType
func ParseDescriptorHeapType(name string) (DescriptorHeapType, error) {
	for t, known := range descriptorHeapTypeNames {
		if strings.EqualFold(name, known) {
			return DescriptorHeapType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown descriptor heap type \"%s\"", ErrInvalidArgument, name)
}

// Maps each descriptor heap type to the number of descriptors to reserve for it
type HeapCounts map[DescriptorHeapType]uint32

// Returns the descriptor counts used for the default heaps when no override is configured
func DefaultHeapCounts() HeapCounts {
	return HeapCounts{
		HeapConstantBuffer:  1000,
		HeapShaderResource:  1000,
		HeapUnorderedAccess: 1000,
		HeapSampler:         64,
		HeapRenderTarget:    256,
		HeapDepthStencil:    64,
	}
}

// Converts a name-keyed count map (as found in configuration files) into HeapCounts, filling in the default count for every missing type
func HeapCountsFromNames(named map[string]uint32) (HeapCounts, error) {
	counts := DefaultHeapCounts()
	for name, count := range named {
		t, err := ParseDescriptorHeapType(name)
		if err != nil {
			return nil, err
		}
		counts[t] = count
	}
	return counts, nil
}

// Describes the format of a texel
type PixelFormat int

// Pixel formats
const (
	FormatUnknown PixelFormat = iota
	// Color, 8-bit channels
	FormatRGBA8Unorm
	FormatRGBA8UnormSRGB
	FormatBGRA8Unorm
	FormatBGRA8UnormSRGB
	// Color, wide channels
	FormatRGB10A2Unorm
	FormatRGBA16Float
	FormatRGBA32Float
	FormatR32Float
	// Depth/Stencil
	FormatD16Unorm
	FormatD32Float
	FormatD24UnormS8Uint
	FormatD32FloatS8Uint
)

// Reports whether the format is a depth or depth/stencil format
func (f PixelFormat) IsDepthStencil() bool {
	return f >= FormatD16Unorm && f <= FormatD32FloatS8Uint
}

// Reports whether the format is used for high-dynamic-range presentation
func (f PixelFormat) IsHDR() bool {
	return f == FormatRGB10A2Unorm || f == FormatRGBA16Float
}

func (f PixelFormat) valid() bool {
	return f > FormatUnknown && f <= FormatD32FloatS8Uint
}

// A mask of the ways a buffer or texture may be used
type ResourceUsage int

// Usage flags
const (
	UsageShaderResource ResourceUsage = 1 << iota
	UsageUnorderedAccess
	UsageConstantBuffer
	UsageVertexBuffer
	UsageIndexBuffer
	UsageRenderTarget
	UsageDepthStencil
	UsageAccelerationStructure
	UsageCopySource
	UsageCopyDestination
)

// Reports whether every flag in the supplied mask is set
func (u ResourceUsage) Has(other ResourceUsage) bool {
	return u&other == other
}

// The memory pool a resource is allocated from
type MemoryHeap int

// Memory heaps
const (
	MemoryDefault MemoryHeap = iota
	MemoryUpload
	MemoryReadback
)

// Describes a buffer to create
type GPUBufferMetadata struct {

	// The size of one element in bytes
	Stride uint32

	// The number of elements
	Count uint32

	Usage ResourceUsage
	Heap  MemoryHeap
}

// Returns the total size of the buffer in bytes
func (m GPUBufferMetadata) ByteSize() uint64 {
	return uint64(m.Stride) * uint64(m.Count)
}

// The dimensionality of a texture
type TextureDimension int

// Texture dimensions
const (
	Texture1D TextureDimension = iota
	Texture2D
	Texture3D
	TextureCube
)

// Describes a texture to create
type GPUTextureMetadata struct {
	Dimension TextureDimension
	Format    PixelFormat
	Width     uint32
	Height    uint32

	// The depth for 3D textures, and the array size otherwise
	DepthOrArraySize uint32

	MipLevels   uint32
	SampleCount uint32
	Usage       ResourceUsage
}

// The kind of view created over a buffer or texture
type ResourceViewType int

// Resource view types
const (
	ViewShaderResource ResourceViewType = iota
	ViewUnorderedAccess
	ViewConstantBuffer
	ViewRenderTarget
	ViewDepthStencil
)

func (t ResourceViewType) String() string {
	switch t {
	case ViewShaderResource:
		return "shaderResource"
	case ViewUnorderedAccess:
		return "unorderedAccess"
	case ViewConstantBuffer:
		return "constantBuffer"
	case ViewRenderTarget:
		return "renderTarget"
	case ViewDepthStencil:
		return "depthStencil"
	default:
		return fmt.Sprintf("ResourceViewType(%d)", int(t))
	}
}

// Returns the descriptor heap type that views of this type are allocated from
func (t ResourceViewType) HeapType() (DescriptorHeapType, error) {
	switch t {
	case ViewShaderResource:
		return HeapShaderResource, nil
	case ViewUnorderedAccess:
		return HeapUnorderedAccess, nil
	case ViewConstantBuffer:
		return HeapConstantBuffer, nil
	case ViewRenderTarget:
		return HeapRenderTarget, nil
	case ViewDepthStencil:
		return HeapDepthStencil, nil
	default:
		return 0, fmt.Errorf("%w: unknown resource view type %d", ErrInvalidArgument, int(t))
	}
}

// Restricts which shader stages can see a resource layout element
type ShaderVisibility int

// Shader visibilities
const (
	VisibleAll ShaderVisibility = iota
	VisibleVertex
	VisiblePixel
	VisibleCompute
)

// Binds one descriptor range to a shader register
type ResourceLayoutElement struct {
	Type       DescriptorHeapType
	Register   uint32
	Space      uint32
	Count      uint32
	Visibility ShaderVisibility
}

// Binds a sampler to a shader register
type SamplerLayoutElement struct {
	Sampler    Sampler
	Register   uint32
	Space      uint32
	Visibility ShaderVisibility
}

// Describes an inline block of 32-bit constants in a resource layout
type Constant32Bits struct {
	Register uint32
	Space    uint32
	Count    uint32
}

// The largest inline constant block a resource layout may declare
const MaxConstant32BitsCount = 64

// Sampler filtering modes
type Filter int

// Filters
const (
	FilterPoint Filter = iota
	FilterLinear
	FilterAnisotropic
)

// Sampler texture addressing modes
type AddressMode int

// Address modes
const (
	AddressWrap AddressMode = iota
	AddressMirror
	AddressClamp
	AddressBorder
)

// Describes sampler state
type SamplerInfo struct {
	Filter        Filter
	AddressU      AddressMode
	AddressV      AddressMode
	AddressW      AddressMode
	MaxAnisotropy uint32
	MinLOD        float32
	MaxLOD        float32
}

// The operation applied to an attachment when a render pass begins
type LoadOp int

// Load operations
const (
	LoadDontCare LoadOp = iota
	LoadClear
	LoadLoad
)

// The operation applied to an attachment when a render pass ends
type StoreOp int

// Store operations
const (
	StoreDontCare StoreOp = iota
	StoreStore
)

// Describes one render pass attachment
type Attachment struct {
	Format       PixelFormat
	SampleCount  uint32
	Load         LoadOp
	Store        StoreOp
	StencilLoad  LoadOp
	StencilStore StoreOp
}

// Identifies the native window a swap chain presents to
type WindowInfo struct {

	// The native window handle
	Handle uintptr

	// The module instance handle, where the platform needs one
	Instance uintptr
}

// Describes a swap chain to create
type SwapChainDesc struct {
	Queue       CommandQueue
	Window      WindowInfo
	Width       uint32
	Height      uint32
	Format      PixelFormat
	BufferCount uint32
	VSync       bool
	FullScreen  bool
}

// The kind of GPU query
type QueryType int

// Query types
const (
	QueryOcclusion QueryType = iota
	QueryBinaryOcclusion
	QueryTimestamp
	QueryCopyQueueTimestamp
	QueryPipelineStatistics
)

// Describes a set of queries to create
type QueryHeapDesc struct {
	Type  QueryType
	Count uint32
}

// Controls how a geometry takes part in ray traversal
type RayTracingGeometryFlags int

// Geometry flags
const (
	GeometryOpaque RayTracingGeometryFlags = 1 << iota
	GeometryNoDuplicateAnyHit
)

// Controls how an acceleration structure is built
type BuildAccelerationStructureFlags int

// Build flags
const (
	BuildAllowUpdate BuildAccelerationStructureFlags = 1 << iota
	BuildAllowCompaction
	BuildPreferFastTrace
	BuildPreferFastBuild
	BuildMinimizeMemory
)

// Controls how an instance is traversed
type RayTracingInstanceFlags int

// Instance flags
const (
	InstanceTriangleCullDisable RayTracingInstanceFlags = 1 << iota
	InstanceTriangleFrontCounterClockwise
	InstanceForceOpaque
	InstanceForceNonOpaque
)

// The largest user-defined ID an acceleration structure instance may carry (24 bits)
const MaxInstanceID = 1<<24 - 1

// Describes one instance of a bottom-level acceleration structure placed in a top-level one
type ASInstanceDesc struct {
	BLAS RayTracingBLAS

	// The row-major 3x4 object-to-world transform
	Transform [12]float32

	InstanceID    uint32
	Mask          uint8
	HitGroupIndex uint32
	Flags         RayTracingInstanceFlags
}

// Returns a row-major 3x4 identity matrix
func IdentityTransform() [12]float32 {
	return [12]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
}
