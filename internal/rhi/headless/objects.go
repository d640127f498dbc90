package headless

import (
	"fmt"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

type fence struct {
	rhi.ObjectBase
	value uint64
}

func (f *fence) CompletedValue() uint64 { return f.value }

func (f *fence) Signal(value uint64) error {
	if value < f.value {
		return fmt.Errorf("%w: fence value %d is below the completed value %d", rhi.ErrInvalidArgument, value, f.value)
	}
	f.value = value
	return nil
}

type commandAllocator struct {
	rhi.ObjectBase
	listType rhi.CommandListType
}

func (a *commandAllocator) Type() rhi.CommandListType { return a.listType }

type commandList struct {
	rhi.ObjectBase
	allocator rhi.CommandAllocator
}

func (l *commandList) Type() rhi.CommandListType { return l.allocator.Type() }

func (l *commandList) Allocator() rhi.CommandAllocator { return l.allocator }

type commandQueue struct {
	rhi.ObjectBase
	listType rhi.CommandListType
}

func (q *commandQueue) Type() rhi.CommandListType { return q.listType }

type swapChain struct {
	rhi.ObjectBase
	desc        rhi.SwapChainDesc
	backBuffers []rhi.GPUTexture
}

func (s *swapChain) Desc() rhi.SwapChainDesc { return s.desc }

func (s *swapChain) BackBuffer(index uint32) rhi.GPUTexture {
	if int(index) >= len(s.backBuffers) {
		return nil
	}
	return s.backBuffers[index]
}

type resourceLayout struct {
	rhi.ObjectBase
	elements []rhi.ResourceLayoutElement
	samplers []rhi.SamplerLayoutElement
	constant *rhi.Constant32Bits
}

func (l *resourceLayout) Elements() []rhi.ResourceLayoutElement { return l.elements }

func (l *resourceLayout) Samplers() []rhi.SamplerLayoutElement { return l.samplers }

func (l *resourceLayout) Constant() *rhi.Constant32Bits { return l.constant }

type pipelineFactory struct {
	rhi.ObjectBase
}

type graphicPipelineState struct {
	rhi.ObjectBase
	pass   rhi.RenderPass
	layout rhi.ResourceLayout
}

func (p *graphicPipelineState) RenderPass() rhi.RenderPass { return p.pass }

func (p *graphicPipelineState) Layout() rhi.ResourceLayout { return p.layout }

type computePipelineState struct {
	rhi.ObjectBase
	layout rhi.ResourceLayout
}

func (p *computePipelineState) Layout() rhi.ResourceLayout { return p.layout }

type renderPass struct {
	rhi.ObjectBase
	colors []rhi.Attachment
	depth  *rhi.Attachment
}

func (p *renderPass) ColorAttachments() []rhi.Attachment { return p.colors }

func (p *renderPass) DepthAttachment() *rhi.Attachment { return p.depth }

type frameBuffer struct {
	rhi.ObjectBase
	pass          rhi.RenderPass
	renderTargets []rhi.GPUTexture
	depthStencil  rhi.GPUTexture
}

func (f *frameBuffer) RenderPass() rhi.RenderPass { return f.pass }

func (f *frameBuffer) RenderTargets() []rhi.GPUTexture { return f.renderTargets }

func (f *frameBuffer) DepthStencil() rhi.GPUTexture { return f.depthStencil }

type resourceView struct {
	rhi.ObjectBase
	viewType rhi.ResourceViewType
	heap     rhi.DescriptorHeap
	slot     uint32
	texture  rhi.GPUTexture
	buffer   rhi.GPUBuffer
}

func (v *resourceView) ViewType() rhi.ResourceViewType { return v.viewType }

func (v *resourceView) Heap() rhi.DescriptorHeap { return v.heap }

func (v *resourceView) Slot() uint32 { return v.slot }

func (v *resourceView) Texture() rhi.GPUTexture { return v.texture }

func (v *resourceView) Buffer() rhi.GPUBuffer { return v.buffer }

type sampler struct {
	rhi.ObjectBase
	info rhi.SamplerInfo
}

func (s *sampler) Info() rhi.SamplerInfo { return s.info }

type buffer struct {
	rhi.ObjectBase
	metadata rhi.GPUBufferMetadata
}

func (b *buffer) Metadata() rhi.GPUBufferMetadata { return b.metadata }

type texture struct {
	rhi.ObjectBase
	metadata    rhi.GPUTextureMetadata
	placeholder bool
}

func (t *texture) Metadata() rhi.GPUTextureMetadata { return t.metadata }

func (t *texture) IsPlaceholder() bool { return t.placeholder }

type rayTracingGeometry struct {
	rhi.ObjectBase
	flags        rhi.RayTracingGeometryFlags
	vertexBuffer rhi.GPUBuffer
	indexBuffer  rhi.GPUBuffer
}

func (g *rayTracingGeometry) Flags() rhi.RayTracingGeometryFlags { return g.flags }

func (g *rayTracingGeometry) VertexBuffer() rhi.GPUBuffer { return g.vertexBuffer }

func (g *rayTracingGeometry) IndexBuffer() rhi.GPUBuffer { return g.indexBuffer }

type rayTracingBLAS struct {
	rhi.ObjectBase
	geometries []rhi.RayTracingGeometry
	flags      rhi.BuildAccelerationStructureFlags
}

func (b *rayTracingBLAS) Geometries() []rhi.RayTracingGeometry { return b.geometries }

type asInstance struct {
	rhi.ObjectBase
	desc rhi.ASInstanceDesc
}

func (i *asInstance) Desc() rhi.ASInstanceDesc { return i.desc }

type rayTracingTLAS struct {
	rhi.ObjectBase
	instances []rhi.ASInstance
	flags     rhi.BuildAccelerationStructureFlags
}

func (t *rayTracingTLAS) Instances() []rhi.ASInstance { return t.instances }

type query struct {
	rhi.ObjectBase
	desc rhi.QueryHeapDesc
}

func (q *query) Desc() rhi.QueryHeapDesc { return q.desc }
