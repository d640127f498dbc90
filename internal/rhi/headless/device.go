package headless

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

// Device is a logical device that keeps all of its state in host memory
type Device struct {
	rhi.DeviceBase

	// The heaps created by SetUpDefaultHeap
	defaultHeaps rhi.DescriptorHeapSet
}

// NewDevice creates a headless device bound to the adapter and mask
func NewDevice(adapter discovery.AdapterDescriptor, mask gpumask.Mask, logger *zap.SugaredLogger) *Device {
	return &Device{DeviceBase: rhi.NewDeviceBase(adapter, mask, detectFeatures(adapter), logger)}
}

func (d *Device) Destroy() {
	d.DestroyOwned()
	d.defaultHeaps = nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", rhi.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Checks that an object argument was given, is still alive and belongs to this device
// Checks that an object argument was given and is still alive
func (d *Device) required(obj rhi.Object, what string) error {
	if obj == nil {
		return invalid("%s is required", what)
	}
	return d.CheckArgument(obj, what)
}

func (d *Device) SetUpDefaultHeap(counts rhi.HeapCounts) error {
	if err := d.CheckAlive(); err != nil {
		return err
	}
	if d.defaultHeaps != nil {
		return invalid("default heaps are already set up")
	}

	heaps, err := d.CreateDescriptorHeaps(counts, "default")
	if err != nil {
		return err
	}
	d.defaultHeaps = heaps
	return nil
}

func (d *Device) DefaultHeap(t rhi.DescriptorHeapType) rhi.DescriptorHeap {
	return d.defaultHeaps[t]
}

func (d *Device) CreateFrameBuffer(pass rhi.RenderPass, renderTargets []rhi.GPUTexture, depthStencil rhi.GPUTexture) (rhi.FrameBuffer, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateFrameBuffer(pass, renderTargets, depthStencil); err != nil {
		return nil, err
	}
	if err := d.CheckArgument(pass, "render pass"); err != nil {
		return nil, err
	}
	for _, target := range renderTargets {
		if err := d.CheckArgument(target, "render target"); err != nil {
			return nil, err
		}
	}
	if depthStencil != nil {
		if err := d.CheckArgument(depthStencil, "depth stencil"); err != nil {
			return nil, err
		}
	}

	f := &frameBuffer{
		pass:          pass,
		renderTargets: append([]rhi.GPUTexture(nil), renderTargets...),
		depthStencil:  depthStencil,
	}
	f.ObjectBase = rhi.NewObjectBase("frameBuffer", pass.Name()+"/frameBuffer", nil)
	d.Track(f)
	return f, nil
}

func (d *Device) CreateFence(initialValue uint64, name string) (rhi.Fence, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}

	f := &fence{value: initialValue}
	f.ObjectBase = rhi.NewObjectBase("fence", name, nil)
	d.Track(f)
	return f, nil
}

func (d *Device) CreateCommandAllocator(listType rhi.CommandListType, name string) (rhi.CommandAllocator, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateCommandListType(listType); err != nil {
		return nil, err
	}

	a := &commandAllocator{listType: listType}
	a.ObjectBase = rhi.NewObjectBase("commandAllocator", name, nil)
	d.Track(a)
	return a, nil
}

func (d *Device) CreateCommandList(allocator rhi.CommandAllocator, name string) (rhi.CommandList, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.required(allocator, "command allocator"); err != nil {
		return nil, err
	}

	l := &commandList{allocator: allocator}
	l.ObjectBase = rhi.NewObjectBase("commandList", name, nil)
	d.Track(l)
	return l, nil
}

func (d *Device) CreateCommandQueue(listType rhi.CommandListType, name string) (rhi.CommandQueue, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateCommandListType(listType); err != nil {
		return nil, err
	}

	q := &commandQueue{listType: listType}
	q.ObjectBase = rhi.NewObjectBase("commandQueue", name, nil)
	d.Track(q)
	return q, nil
}

func (d *Device) CreateSwapChain(desc rhi.SwapChainDesc, name string) (rhi.SwapChain, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateSwapChainDesc(desc); err != nil {
		return nil, err
	}
	if err := d.CheckArgument(desc.Queue, "command queue"); err != nil {
		return nil, err
	}
	if desc.Format.IsHDR() {
		if err := d.Require(rhi.FeatureHDRDisplay, "an HDR swap chain"); err != nil {
			return nil, err
		}
	}

	// The back buffers belong to the swap chain and are destroyed with it
	backBuffers := make([]rhi.GPUTexture, 0, desc.BufferCount)
	for index := uint32(0); index < desc.BufferCount; index += 1 {
		t := &texture{metadata: rhi.GPUTextureMetadata{
			Dimension:        rhi.Texture2D,
			Format:           desc.Format,
			Width:            desc.Width,
			Height:           desc.Height,
			DepthOrArraySize: 1,
			MipLevels:        1,
			SampleCount:      1,
			Usage:            rhi.UsageRenderTarget,
		}}
		t.ObjectBase = rhi.NewObjectBase("backBuffer", fmt.Sprintf("%s/backBuffer%d", name, index), nil)
		d.Adopt(t)
		backBuffers = append(backBuffers, t)
	}

	s := &swapChain{desc: desc, backBuffers: backBuffers}
	s.ObjectBase = rhi.NewObjectBase("swapChain", name, func() {
		for index := len(backBuffers) - 1; index >= 0; index -= 1 {
			backBuffers[index].Destroy()
		}
	})
	d.Track(s)
	return s, nil
}

func (d *Device) CreateSwapChainFor(queue rhi.CommandQueue, window rhi.WindowInfo, width, height uint32, format rhi.PixelFormat, bufferCount uint32, vsync, fullScreen bool, name string) (rhi.SwapChain, error) {
	return d.CreateSwapChain(rhi.SwapChainDesc{
		Queue:       queue,
		Window:      window,
		Width:       width,
		Height:      height,
		Format:      format,
		BufferCount: bufferCount,
		VSync:       vsync,
		FullScreen:  fullScreen,
	}, name)
}

func (d *Device) CreateDescriptorHeap(heapType rhi.DescriptorHeapType, count uint32, name string) (rhi.DescriptorHeap, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateDescriptorHeap(heapType, count); err != nil {
		return nil, err
	}

	h := newDescriptorHeap(heapType, count, name)
	d.Track(h)
	return h, nil
}

func (d *Device) CreateDescriptorHeaps(counts rhi.HeapCounts, name string) (rhi.DescriptorHeapSet, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}

	// Validate every request up front so that a bad entry creates nothing
	if err := rhi.ValidateHeapCounts(counts); err != nil {
		return nil, err
	}

	heaps := make(rhi.DescriptorHeapSet, len(counts))
	for _, heapType := range rhi.DescriptorHeapTypes() {
		count, ok := counts[heapType]
		if !ok {
			continue
		}
		h := newDescriptorHeap(heapType, count, name+"/"+heapType.String())
		d.Track(h)
		heaps[heapType] = h
	}
	return heaps, nil
}

func (d *Device) CreateResourceLayout(elements []rhi.ResourceLayoutElement, samplers []rhi.SamplerLayoutElement, constant *rhi.Constant32Bits, name string) (rhi.ResourceLayout, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateResourceLayout(elements, samplers, constant); err != nil {
		return nil, err
	}
	for _, element := range samplers {
		if err := d.CheckArgument(element.Sampler, "sampler"); err != nil {
			return nil, err
		}
	}

	l := &resourceLayout{
		elements: append([]rhi.ResourceLayoutElement(nil), elements...),
		samplers: append([]rhi.SamplerLayoutElement(nil), samplers...),
	}
	if constant != nil {
		copied := *constant
		l.constant = &copied
	}
	l.ObjectBase = rhi.NewObjectBase("resourceLayout", name, nil)
	d.Track(l)
	return l, nil
}

func (d *Device) CreatePipelineFactory(name string) (rhi.PipelineFactory, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}

	f := &pipelineFactory{}
	f.ObjectBase = rhi.NewObjectBase("pipelineFactory", name, nil)
	d.Track(f)
	return f, nil
}

func (d *Device) CreateGraphicPipelineState(pass rhi.RenderPass, layout rhi.ResourceLayout, name string) (rhi.GraphicPipelineState, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.required(pass, "render pass"); err != nil {
		return nil, err
	}
	if err := d.required(layout, "resource layout"); err != nil {
		return nil, err
	}

	p := &graphicPipelineState{pass: pass, layout: layout}
	p.ObjectBase = rhi.NewObjectBase("graphicPipelineState", name, nil)
	d.Track(p)
	return p, nil
}

func (d *Device) CreateComputePipelineState(layout rhi.ResourceLayout, name string) (rhi.ComputePipelineState, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.required(layout, "resource layout"); err != nil {
		return nil, err
	}

	p := &computePipelineState{layout: layout}
	p.ObjectBase = rhi.NewObjectBase("computePipelineState", name, nil)
	d.Track(p)
	return p, nil
}

func (d *Device) CreateRenderPass(colors []rhi.Attachment, depth *rhi.Attachment, name string) (rhi.RenderPass, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateRenderPass(colors, depth); err != nil {
		return nil, err
	}

	p := &renderPass{colors: append([]rhi.Attachment(nil), colors...)}
	if depth != nil {
		copied := *depth
		p.depth = &copied
	}
	p.ObjectBase = rhi.NewObjectBase("renderPass", name, nil)
	d.Track(p)
	return p, nil
}

// The usage flag a resource needs for each view type
var viewUsage = map[rhi.ResourceViewType]rhi.ResourceUsage{
	rhi.ViewShaderResource:  rhi.UsageShaderResource,
	rhi.ViewUnorderedAccess: rhi.UsageUnorderedAccess,
	rhi.ViewConstantBuffer:  rhi.UsageConstantBuffer,
	rhi.ViewRenderTarget:    rhi.UsageRenderTarget,
	rhi.ViewDepthStencil:    rhi.UsageDepthStencil,
}

func (d *Device) CreateTextureView(viewType rhi.ResourceViewType, source rhi.GPUTexture, customHeap rhi.DescriptorHeap, name string) (rhi.ResourceView, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.required(source, "texture"); err != nil {
		return nil, err
	}
	if viewType == rhi.ViewConstantBuffer {
		return nil, invalid("textures cannot be viewed as constant buffers")
	}
	if source.IsPlaceholder() {
		return nil, invalid("placeholder texture \"%s\" has no storage to view", source.Name())
	}
	if usage := viewUsage[viewType]; !source.Metadata().Usage.Has(usage) {
		return nil, invalid("texture \"%s\" was not created for %s views", source.Name(), viewType)
	}

	return d.createView(viewType, customHeap, source, nil, name)
}

func (d *Device) CreateBufferView(viewType rhi.ResourceViewType, source rhi.GPUBuffer, customHeap rhi.DescriptorHeap, name string) (rhi.ResourceView, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.required(source, "buffer"); err != nil {
		return nil, err
	}
	if viewType == rhi.ViewRenderTarget || viewType == rhi.ViewDepthStencil {
		return nil, invalid("buffers cannot be viewed as %s", viewType)
	}
	if usage := viewUsage[viewType]; !source.Metadata().Usage.Has(usage) {
		return nil, invalid("buffer \"%s\" was not created for %s views", source.Name(), viewType)
	}

	return d.createView(viewType, customHeap, nil, source, name)
}

// Allocates a descriptor slot for a view from the custom heap or the matching default heap
func (d *Device) createView(viewType rhi.ResourceViewType, customHeap rhi.DescriptorHeap, source rhi.GPUTexture, buffer rhi.GPUBuffer, name string) (rhi.ResourceView, error) {
	heapType, err := viewType.HeapType()
	if err != nil {
		return nil, err
	}

	heap := customHeap
	if heap == nil {
		heap = d.defaultHeaps[heapType]
		if heap == nil {
			return nil, invalid("no default %s heap exists, call SetUpDefaultHeap first", heapType)
		}
	}
	if err := d.CheckArgument(heap, "descriptor heap"); err != nil {
		return nil, err
	}
	if heap.Type() != heapType {
		return nil, invalid("%s views cannot be allocated from a %s heap", viewType, heap.Type())
	}

	slot, err := heap.Allocate()
	if err != nil {
		return nil, err
	}

	v := &resourceView{viewType: viewType, heap: heap, slot: slot, texture: source, buffer: buffer}
	v.ObjectBase = rhi.NewObjectBase("resourceView", name, func() { heap.Free(slot) })
	d.Track(v)
	return v, nil
}

func (d *Device) CreateSampler(info rhi.SamplerInfo, name string) (rhi.Sampler, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateSamplerInfo(info); err != nil {
		return nil, err
	}

	s := &sampler{info: info}
	s.ObjectBase = rhi.NewObjectBase("sampler", name, nil)
	d.Track(s)
	return s, nil
}

func (d *Device) CreateBuffer(metadata rhi.GPUBufferMetadata, name string) (rhi.GPUBuffer, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateBufferMetadata(metadata); err != nil {
		return nil, err
	}
	if metadata.Usage.Has(rhi.UsageAccelerationStructure) {
		if err := d.Require(rhi.FeatureRayTracing, "an acceleration structure buffer"); err != nil {
			return nil, err
		}
	}

	b := &buffer{metadata: metadata}
	b.ObjectBase = rhi.NewObjectBase("buffer", name, nil)
	d.Track(b)
	return b, nil
}

func (d *Device) CreateTexture(metadata rhi.GPUTextureMetadata, name string) (rhi.GPUTexture, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateTextureMetadata(metadata); err != nil {
		return nil, err
	}

	t := &texture{metadata: metadata}
	t.ObjectBase = rhi.NewObjectBase("texture", name, nil)
	d.Track(t)
	return t, nil
}

func (d *Device) CreateTextureEmpty(name string) (rhi.GPUTexture, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}

	t := &texture{placeholder: true}
	t.ObjectBase = rhi.NewObjectBase("texture", name, nil)
	d.Track(t)
	return t, nil
}

func (d *Device) CreateRayTracingGeometry(flags rhi.RayTracingGeometryFlags, vertexBuffer, indexBuffer rhi.GPUBuffer, name string) (rhi.RayTracingGeometry, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.Require(rhi.FeatureRayTracing, "ray tracing geometry"); err != nil {
		return nil, err
	}
	if err := d.required(vertexBuffer, "vertex buffer"); err != nil {
		return nil, err
	}
	if !vertexBuffer.Metadata().Usage.Has(rhi.UsageVertexBuffer) {
		return nil, invalid("buffer \"%s\" was not created as a vertex buffer", vertexBuffer.Name())
	}
	if indexBuffer != nil {
		if err := d.CheckArgument(indexBuffer, "index buffer"); err != nil {
			return nil, err
		}
		m := indexBuffer.Metadata()
		if !m.Usage.Has(rhi.UsageIndexBuffer) || (m.Stride != 2 && m.Stride != 4) {
			return nil, invalid("buffer \"%s\" is not a 16-bit or 32-bit index buffer", indexBuffer.Name())
		}
	}

	g := &rayTracingGeometry{flags: flags, vertexBuffer: vertexBuffer, indexBuffer: indexBuffer}
	g.ObjectBase = rhi.NewObjectBase("rayTracingGeometry", name, nil)
	d.Track(g)
	return g, nil
}

func (d *Device) CreateASInstance(desc rhi.ASInstanceDesc, name string) (rhi.ASInstance, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.Require(rhi.FeatureRayTracing, "an acceleration structure instance"); err != nil {
		return nil, err
	}
	if err := rhi.ValidateASInstance(desc); err != nil {
		return nil, err
	}
	if err := d.CheckArgument(desc.BLAS, "bottom-level acceleration structure"); err != nil {
		return nil, err
	}

	i := &asInstance{desc: desc}
	i.ObjectBase = rhi.NewObjectBase("asInstance", name, nil)
	d.Track(i)
	return i, nil
}

func (d *Device) CreateRayTracingBLAS(geometries []rhi.RayTracingGeometry, flags rhi.BuildAccelerationStructureFlags, name string) (rhi.RayTracingBLAS, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.Require(rhi.FeatureRayTracing, "a bottom-level acceleration structure"); err != nil {
		return nil, err
	}
	if len(geometries) == 0 {
		return nil, invalid("bottom-level acceleration structure needs at least one geometry")
	}
	for _, geometry := range geometries {
		if err := d.required(geometry, "geometry"); err != nil {
			return nil, err
		}
	}

	b := &rayTracingBLAS{geometries: append([]rhi.RayTracingGeometry(nil), geometries...), flags: flags}
	b.ObjectBase = rhi.NewObjectBase("rayTracingBLAS", name, nil)
	d.Track(b)
	return b, nil
}

func (d *Device) CreateRayTracingTLAS(instances []rhi.ASInstance, flags rhi.BuildAccelerationStructureFlags, name string) (rhi.RayTracingTLAS, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := d.Require(rhi.FeatureRayTracing, "a top-level acceleration structure"); err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, invalid("top-level acceleration structure needs at least one instance")
	}
	for _, instance := range instances {
		if err := d.required(instance, "instance"); err != nil {
			return nil, err
		}
	}

	t := &rayTracingTLAS{instances: append([]rhi.ASInstance(nil), instances...), flags: flags}
	t.ObjectBase = rhi.NewObjectBase("rayTracingTLAS", name, nil)
	d.Track(t)
	return t, nil
}

func (d *Device) CreateQuery(desc rhi.QueryHeapDesc, name string) (rhi.Query, error) {
	if err := d.CheckAlive(); err != nil {
		return nil, err
	}
	if err := rhi.ValidateQueryDesc(desc); err != nil {
		return nil, err
	}

	q := &query{desc: desc}
	q.ObjectBase = rhi.NewObjectBase("query", name, nil)
	d.Track(q)
	return q, nil
}
