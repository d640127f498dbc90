package rhi

import (
	"errors"
	"fmt"
	"math/bits"
)

// Errors shared by every backend
var (
	// Returned when a creation argument was missing, out of range or inconsistent
	ErrInvalidArgument = errors.New("rhi: invalid argument")

	// Returned when the device lacks a feature the call requires
	ErrUnsupported = errors.New("rhi: feature not supported by the device")

	// Returned when a descriptor heap has no free slots left
	ErrHeapExhausted = errors.New("rhi: descriptor heap exhausted")

	// Returned when the device or an argument was already destroyed
	ErrDestroyed = errors.New("rhi: object destroyed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Checks that the command list type is known
func ValidateCommandListType(t CommandListType) error {
	if t < CommandListGraphics || t > CommandListCopy {
		return invalid("unknown command list type %d", int(t))
	}
	return nil
}

// Checks that every heap type is known and every count is non-zero
func ValidateHeapCounts(counts HeapCounts) error {
	if len(counts) == 0 {
		return invalid("no descriptor heap counts given")
	}
	for t, count := range counts {
		if err := ValidateDescriptorHeap(t, count); err != nil {
			return err
		}
	}
	return nil
}

// Checks a single heap request
func ValidateDescriptorHeap(t DescriptorHeapType, count uint32) error {
	if !t.Valid() {
		return invalid("unknown descriptor heap type %d", int(t))
	}
	if count == 0 {
		return invalid("%s heap must hold at least one descriptor", t)
	}
	return nil
}

// Checks a buffer description
func ValidateBufferMetadata(m GPUBufferMetadata) error {
	if m.Stride == 0 || m.Count == 0 {
		return invalid("buffer stride and count must be non-zero (got %d x %d)", m.Stride, m.Count)
	}
	if m.Usage.Has(UsageRenderTarget) || m.Usage.Has(UsageDepthStencil) {
		return invalid("buffers cannot be used as render or depth targets")
	}
	if m.Heap != MemoryDefault && m.Usage.Has(UsageUnorderedAccess) {
		return invalid("unordered access buffers must live in the default heap")
	}
	return nil
}

// Checks a texture description
func ValidateTextureMetadata(m GPUTextureMetadata) error {
	if !m.Format.valid() {
		return invalid("texture format %d is not valid", int(m.Format))
	}
	if m.Width == 0 || m.Height == 0 || m.DepthOrArraySize == 0 {
		return invalid("texture extent must be non-zero (got %dx%dx%d)", m.Width, m.Height, m.DepthOrArraySize)
	}
	if m.Dimension == Texture1D && m.Height != 1 {
		return invalid("1D textures must have a height of 1")
	}
	if m.Dimension == TextureCube && (m.Width != m.Height || m.DepthOrArraySize%6 != 0) {
		return invalid("cube textures must be square with a multiple of 6 faces")
	}

	// A full mip chain ends at 1x1
	largest := m.Width
	if m.Height > largest {
		largest = m.Height
	}
	maxLevels := uint32(bits.Len32(largest))
	if m.MipLevels == 0 || m.MipLevels > maxLevels {
		return invalid("texture mip levels must be between 1 and %d (got %d)", maxLevels, m.MipLevels)
	}

	if err := validateSampleCount(m.SampleCount); err != nil {
		return err
	}
	if m.SampleCount > 1 && m.MipLevels != 1 {
		return invalid("multisampled textures cannot have mip levels")
	}
	if m.Usage.Has(UsageDepthStencil) != m.Format.IsDepthStencil() {
		return invalid("depth stencil usage requires a depth format and vice versa")
	}
	return nil
}

func validateSampleCount(count uint32) error {
	if count == 0 || count > 32 || count&(count-1) != 0 {
		return invalid("sample count must be a power of two between 1 and 32 (got %d)", count)
	}
	return nil
}

// Checks a swap chain description
func ValidateSwapChainDesc(desc SwapChainDesc) error {
	if desc.Queue == nil {
		return invalid("swap chain requires a command queue")
	}
	if desc.Queue.Type() != CommandListGraphics {
		return invalid("swap chain requires a graphics queue (got %s)", desc.Queue.Type())
	}
	if desc.Width == 0 || desc.Height == 0 {
		return invalid("swap chain extent must be non-zero")
	}
	if desc.BufferCount < 2 || desc.BufferCount > 16 {
		return invalid("swap chain buffer count must be between 2 and 16 (got %d)", desc.BufferCount)
	}
	if !desc.Format.valid() || desc.Format.IsDepthStencil() {
		return invalid("swap chain requires a color format")
	}
	return nil
}

// Checks a render pass description
func ValidateRenderPass(colors []Attachment, depth *Attachment) error {
	if len(colors) == 0 && depth == nil {
		return invalid("render pass needs at least one attachment")
	}
	if len(colors) > 8 {
		return invalid("render pass supports at most 8 color attachments (got %d)", len(colors))
	}
	for index, color := range colors {
		if !color.Format.valid() || color.Format.IsDepthStencil() {
			return invalid("color attachment %d requires a color format", index)
		}
		if err := validateSampleCount(color.SampleCount); err != nil {
			return err
		}
	}
	if depth != nil {
		if !depth.Format.IsDepthStencil() {
			return invalid("depth attachment requires a depth format")
		}
		if err := validateSampleCount(depth.SampleCount); err != nil {
			return err
		}
	}
	return nil
}

// Checks that the textures match the attachments of the render pass
func ValidateFrameBuffer(pass RenderPass, renderTargets []GPUTexture, depthStencil GPUTexture) error {
	if pass == nil {
		return invalid("frame buffer requires a render pass")
	}

	colors := pass.ColorAttachments()
	if len(renderTargets) != len(colors) {
		return invalid("render pass has %d color attachments but %d render targets were given", len(colors), len(renderTargets))
	}

	var width, height uint32
	checkExtent := func(texture GPUTexture) error {
		m := texture.Metadata()
		if width == 0 {
			width, height = m.Width, m.Height
		} else if m.Width != width || m.Height != height {
			return invalid("frame buffer textures must share one extent")
		}
		return nil
	}

	for index, target := range renderTargets {
		if target == nil {
			return invalid("render target %d is nil", index)
		}
		m := target.Metadata()
		if m.Format != colors[index].Format || !m.Usage.Has(UsageRenderTarget) {
			return invalid("render target %d does not match its attachment", index)
		}
		if err := checkExtent(target); err != nil {
			return err
		}
	}

	depth := pass.DepthAttachment()
	if (depth == nil) != (depthStencil == nil) {
		return invalid("depth texture must be given exactly when the render pass has a depth attachment")
	}
	if depthStencil != nil {
		if depthStencil.Metadata().Format != depth.Format {
			return invalid("depth texture does not match the depth attachment")
		}
		if err := checkExtent(depthStencil); err != nil {
			return err
		}
	}
	return nil
}

// Checks that no two elements bind the same register
func ValidateResourceLayout(elements []ResourceLayoutElement, samplers []SamplerLayoutElement, constant *Constant32Bits) error {
	type binding struct {
		class           string
		register, space uint32
	}
	used := map[binding]bool{}
	claim := func(b binding) error {
		if used[b] {
			return invalid("register %s%d in space %d is bound twice", b.class, b.register, b.space)
		}
		used[b] = true
		return nil
	}

	for _, element := range elements {
		if !element.Type.Valid() || element.Type == HeapRenderTarget || element.Type == HeapDepthStencil {
			return invalid("%s descriptors cannot be bound in a resource layout", element.Type)
		}
		if element.Count == 0 {
			return invalid("resource layout element must bind at least one descriptor")
		}
		if err := claim(binding{registerClass(element.Type), element.Register, element.Space}); err != nil {
			return err
		}
	}
	for _, sampler := range samplers {
		if sampler.Sampler == nil {
			return invalid("sampler layout element has no sampler")
		}
		if err := claim(binding{"s", sampler.Register, sampler.Space}); err != nil {
			return err
		}
	}
	if constant != nil {
		if constant.Count == 0 || constant.Count > MaxConstant32BitsCount {
			return invalid("inline constant count must be between 1 and %d (got %d)", MaxConstant32BitsCount, constant.Count)
		}
		if err := claim(binding{"b", constant.Register, constant.Space}); err != nil {
			return err
		}
	}
	return nil
}

// Returns the shader register class a descriptor type binds to
func registerClass(t DescriptorHeapType) string {
	switch t {
	case HeapConstantBuffer:
		return "b"
	case HeapUnorderedAccess:
		return "u"
	case HeapSampler:
		return "s"
	default:
		return "t"
	}
}

// Checks sampler state
func ValidateSamplerInfo(info SamplerInfo) error {
	if info.Filter == FilterAnisotropic && (info.MaxAnisotropy == 0 || info.MaxAnisotropy > 16) {
		return invalid("anisotropic filtering requires a max anisotropy between 1 and 16")
	}
	if info.MaxLOD < info.MinLOD {
		return invalid("sampler max LOD is lower than its min LOD")
	}
	return nil
}

// Checks a query description
func ValidateQueryDesc(desc QueryHeapDesc) error {
	if desc.Type < QueryOcclusion || desc.Type > QueryPipelineStatistics {
		return invalid("unknown query type %d", int(desc.Type))
	}
	if desc.Count == 0 {
		return invalid("query count must be non-zero")
	}
	return nil
}

// Checks an acceleration structure instance description
func ValidateASInstance(desc ASInstanceDesc) error {
	if desc.BLAS == nil {
		return invalid("instance requires a bottom-level acceleration structure")
	}
	if desc.InstanceID > MaxInstanceID {
		return invalid("instance ID %d does not fit in 24 bits", desc.InstanceID)
	}
	if desc.HitGroupIndex > MaxInstanceID {
		return invalid("hit group index %d does not fit in 24 bits", desc.HitGroupIndex)
	}
	return nil
}
