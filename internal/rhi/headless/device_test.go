package headless

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

var (
	discreteAdapter = discovery.AdapterDescriptor{
		Name:                 "AMD Radeon RX 7900 XTX",
		VendorID:             discovery.VendorAMD,
		DedicatedVideoMemory: 24 << 30,
		Outputs:              []discovery.OutputDescriptor{{DeviceName: `\\.\DISPLAY1`, AttachedToDesktop: true}},
	}

	warpAdapter = discovery.AdapterDescriptor{
		Name:     "Microsoft Basic Render Driver",
		VendorID: discovery.VendorSoftware,
	}
)

func newDevice(t *testing.T, adapter discovery.AdapterDescriptor) *Device {
	device := NewDevice(adapter, gpumask.SingleGPU(), zaptest.NewLogger(t).Sugar())
	t.Cleanup(device.Destroy)
	return device
}

func renderTarget(width, height uint32) rhi.GPUTextureMetadata {
	return rhi.GPUTextureMetadata{
		Dimension:        rhi.Texture2D,
		Format:           rhi.FormatRGBA8Unorm,
		Width:            width,
		Height:           height,
		DepthOrArraySize: 1,
		MipLevels:        1,
		SampleCount:      1,
		Usage:            rhi.UsageRenderTarget | rhi.UsageShaderResource,
	}
}

func depthTarget(width, height uint32) rhi.GPUTextureMetadata {
	m := renderTarget(width, height)
	m.Format = rhi.FormatD32Float
	m.Usage = rhi.UsageDepthStencil
	return m
}

func TestDetectFeatures(t *testing.T) {
	assert.Equal(t, rhi.FeatureAll, detectFeatures(discreteAdapter))
	assert.Equal(t, baselineFeatures, detectFeatures(warpAdapter))

	headlessGPU := discovery.AdapterDescriptor{Name: "Tesla T4", VendorID: discovery.VendorNvidia, DedicatedVideoMemory: 16 << 30}
	features := detectFeatures(headlessGPU)
	assert.Zero(t, features&rhi.FeatureHDRDisplay)
	assert.NotZero(t, features&rhi.FeatureRayTracing)
}

func TestDeviceBinding(t *testing.T) {
	device := NewDevice(discreteAdapter, gpumask.FromIndex(1), zaptest.NewLogger(t).Sugar())
	defer device.Destroy()

	assert.Equal(t, discreteAdapter.Name, device.GetDisplayAdapter().Name)
	assert.Equal(t, gpumask.FromIndex(1), device.GetGPUMask())
	assert.True(t, device.Capabilities().IsDiscreteGPU())
}

func TestDefaultHeapsAndViews(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	texture, err := device.CreateTexture(renderTarget(64, 64), "albedo")
	require.NoError(t, err)

	// Views need a heap to allocate from
	_, err = device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "albedo/srv")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	counts := rhi.DefaultHeapCounts()
	counts[rhi.HeapShaderResource] = 2
	require.NoError(t, device.SetUpDefaultHeap(counts))
	assert.ErrorIs(t, device.SetUpDefaultHeap(counts), rhi.ErrInvalidArgument)

	heap := device.DefaultHeap(rhi.HeapShaderResource)
	require.NotNil(t, heap)
	assert.Equal(t, uint32(2), heap.Capacity())

	first, err := device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "albedo/srv0")
	require.NoError(t, err)
	second, err := device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "albedo/srv1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Slot(), second.Slot())
	assert.Equal(t, uint32(2), heap.Allocated())

	_, err = device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "albedo/srv2")
	assert.ErrorIs(t, err, rhi.ErrHeapExhausted)

	// Destroying a view frees its slot for reuse
	firstSlot := first.Slot()
	first.Destroy()
	assert.Equal(t, uint32(1), heap.Allocated())
	third, err := device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "albedo/srv3")
	require.NoError(t, err)
	assert.Equal(t, firstSlot, third.Slot())
	assert.Same(t, heap, third.Heap())
	assert.Equal(t, texture, third.Texture())
	assert.Nil(t, third.Buffer())

	// Render target views come from their own heap
	rtv, err := device.CreateTextureView(rhi.ViewRenderTarget, texture, nil, "albedo/rtv")
	require.NoError(t, err)
	assert.Equal(t, rhi.HeapRenderTarget, rtv.Heap().Type())

	// The texture was not created for unordered access or depth
	_, err = device.CreateTextureView(rhi.ViewUnorderedAccess, texture, nil, "albedo/uav")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateTextureView(rhi.ViewConstantBuffer, texture, nil, "albedo/cbv")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
}

func TestCustomHeapViews(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	heaps, err := device.CreateDescriptorHeaps(rhi.HeapCounts{rhi.HeapConstantBuffer: 1, rhi.HeapUnorderedAccess: 4}, "frame")
	require.NoError(t, err)
	require.Len(t, heaps, 2)
	assert.Equal(t, "frame/constantBuffer", heaps[rhi.HeapConstantBuffer].Name())

	constants, err := device.CreateBuffer(rhi.GPUBufferMetadata{Stride: 256, Count: 1, Usage: rhi.UsageConstantBuffer, Heap: rhi.MemoryUpload}, "constants")
	require.NoError(t, err)

	view, err := device.CreateBufferView(rhi.ViewConstantBuffer, constants, heaps[rhi.HeapConstantBuffer], "constants/cbv")
	require.NoError(t, err)
	assert.Equal(t, constants, view.Buffer())
	assert.Nil(t, view.Texture())

	// A heap of the wrong type is rejected
	_, err = device.CreateBufferView(rhi.ViewConstantBuffer, constants, heaps[rhi.HeapUnorderedAccess], "constants/cbv2")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	_, err = device.CreateBufferView(rhi.ViewConstantBuffer, constants, heaps[rhi.HeapConstantBuffer], "constants/cbv3")
	assert.ErrorIs(t, err, rhi.ErrHeapExhausted)

	_, err = device.CreateBufferView(rhi.ViewRenderTarget, constants, nil, "constants/rtv")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	// A destroyed heap cannot be allocated from
	heaps[rhi.HeapUnorderedAccess].Destroy()
	storage, err := device.CreateBuffer(rhi.GPUBufferMetadata{Stride: 4, Count: 1024, Usage: rhi.UsageUnorderedAccess}, "storage")
	require.NoError(t, err)
	_, err = device.CreateBufferView(rhi.ViewUnorderedAccess, storage, heaps[rhi.HeapUnorderedAccess], "storage/uav")
	assert.ErrorIs(t, err, rhi.ErrDestroyed)

	// A single invalid count creates nothing
	before := device.OwnedCount()
	_, err = device.CreateDescriptorHeaps(rhi.HeapCounts{rhi.HeapSampler: 16, rhi.HeapRenderTarget: 0}, "bad")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	assert.Equal(t, before, device.OwnedCount())

	single, err := device.CreateDescriptorHeap(rhi.HeapSampler, 16, "samplers")
	require.NoError(t, err)
	assert.Equal(t, rhi.HeapSampler, single.Type())
}

func TestCommandObjects(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	allocator, err := device.CreateCommandAllocator(rhi.CommandListCompute, "compute/allocator")
	require.NoError(t, err)
	list, err := device.CreateCommandList(allocator, "compute/list")
	require.NoError(t, err)
	assert.Equal(t, rhi.CommandListCompute, list.Type())
	assert.Equal(t, allocator, list.Allocator())

	queue, err := device.CreateCommandQueue(rhi.CommandListCopy, "copy/queue")
	require.NoError(t, err)
	assert.Equal(t, rhi.CommandListCopy, queue.Type())
	assert.Equal(t, "commandQueue", queue.Kind())

	_, err = device.CreateCommandQueue(rhi.CommandListType(9), "bad")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateCommandList(nil, "orphan")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	allocator.Destroy()
	_, err = device.CreateCommandList(allocator, "stale")
	assert.ErrorIs(t, err, rhi.ErrDestroyed)

	fence, err := device.CreateFence(5, "frame")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), fence.CompletedValue())
	require.NoError(t, fence.Signal(6))
	assert.ErrorIs(t, fence.Signal(2), rhi.ErrInvalidArgument)
	assert.Equal(t, uint64(6), fence.CompletedValue())
}

func TestSwapChain(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	queue, err := device.CreateCommandQueue(rhi.CommandListGraphics, "graphics")
	require.NoError(t, err)

	swapChain, err := device.CreateSwapChainFor(queue, rhi.WindowInfo{Handle: 0x1234}, 1280, 720, rhi.FormatRGBA16Float, 3, true, false, "main")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), swapChain.Desc().BufferCount)

	backBuffer := swapChain.BackBuffer(2)
	require.NotNil(t, backBuffer)
	assert.Equal(t, uint32(1280), backBuffer.Metadata().Width)
	assert.Nil(t, swapChain.BackBuffer(3))

	// The back buffers go away with the swap chain
	swapChain.Destroy()
	assert.True(t, backBuffer.(interface{ Destroyed() bool }).Destroyed())

	copyQueue, err := device.CreateCommandQueue(rhi.CommandListCopy, "copy")
	require.NoError(t, err)
	_, err = device.CreateSwapChain(rhi.SwapChainDesc{Queue: copyQueue, Width: 1, Height: 1, Format: rhi.FormatBGRA8Unorm, BufferCount: 2}, "bad")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	// HDR presentation needs a display, which WARP never has
	warp := newDevice(t, warpAdapter)
	warpQueue, err := warp.CreateCommandQueue(rhi.CommandListGraphics, "graphics")
	require.NoError(t, err)
	_, err = warp.CreateSwapChain(rhi.SwapChainDesc{Queue: warpQueue, Width: 640, Height: 480, Format: rhi.FormatRGB10A2Unorm, BufferCount: 2}, "hdr")
	assert.ErrorIs(t, err, rhi.ErrUnsupported)
	_, err = warp.CreateSwapChain(rhi.SwapChainDesc{Queue: warpQueue, Width: 640, Height: 480, Format: rhi.FormatBGRA8Unorm, BufferCount: 2}, "sdr")
	assert.NoError(t, err)
}

func TestRenderPassAndPipelines(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	pass, err := device.CreateRenderPass(
		[]rhi.Attachment{{Format: rhi.FormatRGBA8Unorm, SampleCount: 1, Load: rhi.LoadClear, Store: rhi.StoreStore}},
		&rhi.Attachment{Format: rhi.FormatD32Float, SampleCount: 1, Load: rhi.LoadClear},
		"forward",
	)
	require.NoError(t, err)
	require.NotNil(t, pass.DepthAttachment())

	color, err := device.CreateTexture(renderTarget(800, 600), "color")
	require.NoError(t, err)
	depth, err := device.CreateTexture(depthTarget(800, 600), "depth")
	require.NoError(t, err)
	smallDepth, err := device.CreateTexture(depthTarget(400, 300), "smallDepth")
	require.NoError(t, err)

	frameBuffer, err := device.CreateFrameBuffer(pass, []rhi.GPUTexture{color}, depth)
	require.NoError(t, err)
	assert.Equal(t, depth, frameBuffer.DepthStencil())
	assert.Equal(t, pass, frameBuffer.RenderPass())

	_, err = device.CreateFrameBuffer(pass, []rhi.GPUTexture{color}, smallDepth)
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateFrameBuffer(pass, []rhi.GPUTexture{color}, nil)
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateFrameBuffer(pass, nil, depth)
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	linear, err := device.CreateSampler(rhi.SamplerInfo{Filter: rhi.FilterLinear, MaxLOD: 16}, "linear")
	require.NoError(t, err)
	assert.Equal(t, rhi.FilterLinear, linear.Info().Filter)

	layout, err := device.CreateResourceLayout(
		[]rhi.ResourceLayoutElement{{Type: rhi.HeapConstantBuffer, Count: 1}, {Type: rhi.HeapShaderResource, Count: 8}},
		[]rhi.SamplerLayoutElement{{Sampler: linear}},
		&rhi.Constant32Bits{Register: 1, Count: 16},
		"forward/layout",
	)
	require.NoError(t, err)
	assert.Len(t, layout.Elements(), 2)
	assert.Equal(t, uint32(16), layout.Constant().Count)

	factory, err := device.CreatePipelineFactory("factory")
	require.NoError(t, err)
	assert.Equal(t, "pipelineFactory", factory.Kind())

	graphics, err := device.CreateGraphicPipelineState(pass, layout, "forward/pso")
	require.NoError(t, err)
	assert.Equal(t, layout, graphics.Layout())

	compute, err := device.CreateComputePipelineState(layout, "cull/pso")
	require.NoError(t, err)
	assert.Equal(t, layout, compute.Layout())

	_, err = device.CreateGraphicPipelineState(nil, layout, "missing pass")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateComputePipelineState(nil, "missing layout")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
}

func TestTexturesBuffersAndQueries(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	placeholder, err := device.CreateTextureEmpty("placeholder")
	require.NoError(t, err)
	assert.True(t, placeholder.IsPlaceholder())

	require.NoError(t, device.SetUpDefaultHeap(rhi.DefaultHeapCounts()))
	_, err = device.CreateTextureView(rhi.ViewShaderResource, placeholder, nil, "placeholder/srv")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	_, err = device.CreateTexture(rhi.GPUTextureMetadata{Format: rhi.FormatRGBA8Unorm}, "empty")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	_, err = device.CreateBuffer(rhi.GPUBufferMetadata{}, "empty")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	timestamps, err := device.CreateQuery(rhi.QueryHeapDesc{Type: rhi.QueryTimestamp, Count: 128}, "timestamps")
	require.NoError(t, err)
	assert.Equal(t, uint32(128), timestamps.Desc().Count)

	_, err = device.CreateQuery(rhi.QueryHeapDesc{Type: rhi.QueryOcclusion}, "none")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
}

func TestRayTracingObjects(t *testing.T) {
	device := newDevice(t, discreteAdapter)

	vertices, err := device.CreateBuffer(rhi.GPUBufferMetadata{Stride: 12, Count: 3, Usage: rhi.UsageVertexBuffer}, "triangle/vertices")
	require.NoError(t, err)
	indices, err := device.CreateBuffer(rhi.GPUBufferMetadata{Stride: 2, Count: 3, Usage: rhi.UsageIndexBuffer}, "triangle/indices")
	require.NoError(t, err)

	geometry, err := device.CreateRayTracingGeometry(rhi.GeometryOpaque, vertices, indices, "triangle")
	require.NoError(t, err)
	assert.Equal(t, indices, geometry.IndexBuffer())

	_, err = device.CreateRayTracingGeometry(rhi.GeometryOpaque, indices, nil, "wrong vertices")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	_, err = device.CreateRayTracingGeometry(rhi.GeometryOpaque, vertices, vertices, "wrong indices")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	blas, err := device.CreateRayTracingBLAS([]rhi.RayTracingGeometry{geometry}, rhi.BuildPreferFastTrace, "triangle/blas")
	require.NoError(t, err)
	assert.Len(t, blas.Geometries(), 1)

	_, err = device.CreateRayTracingBLAS(nil, 0, "empty")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	instance, err := device.CreateASInstance(rhi.ASInstanceDesc{BLAS: blas, Transform: rhi.IdentityTransform(), InstanceID: 7, Mask: 0xFF}, "triangle/instance")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), instance.Desc().InstanceID)

	_, err = device.CreateASInstance(rhi.ASInstanceDesc{BLAS: blas, InstanceID: 1 << 24}, "overflow")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	tlas, err := device.CreateRayTracingTLAS([]rhi.ASInstance{instance}, rhi.BuildAllowUpdate, "scene")
	require.NoError(t, err)
	assert.Len(t, tlas.Instances(), 1)

	_, err = device.CreateRayTracingTLAS(nil, 0, "empty")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	// Software rendering has no raytracing support
	warp := newDevice(t, warpAdapter)
	warpVertices, err := warp.CreateBuffer(rhi.GPUBufferMetadata{Stride: 12, Count: 3, Usage: rhi.UsageVertexBuffer}, "vertices")
	require.NoError(t, err)
	_, err = warp.CreateRayTracingGeometry(rhi.GeometryOpaque, warpVertices, nil, "triangle")
	assert.ErrorIs(t, err, rhi.ErrUnsupported)
	_, err = warp.CreateRayTracingBLAS([]rhi.RayTracingGeometry{geometry}, 0, "blas")
	assert.ErrorIs(t, err, rhi.ErrUnsupported)
	_, err = warp.CreateBuffer(rhi.GPUBufferMetadata{Stride: 1, Count: 1024, Usage: rhi.UsageAccelerationStructure}, "scratch")
	assert.ErrorIs(t, err, rhi.ErrUnsupported)
}

func TestDestroyReleasesEverything(t *testing.T) {
	live := testutil.ToFloat64(metrics.DeviceObjectsLive)
	device := NewDevice(discreteAdapter, gpumask.SingleGPU(), zaptest.NewLogger(t).Sugar())

	require.NoError(t, device.SetUpDefaultHeap(rhi.DefaultHeapCounts()))
	texture, err := device.CreateTexture(renderTarget(32, 32), "texture")
	require.NoError(t, err)
	view, err := device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "texture/srv")
	require.NoError(t, err)
	_, err = device.CreateFence(0, "fence")
	require.NoError(t, err)

	// Destroying an object early leaves it to be skipped at teardown
	view.Destroy()
	assert.Equal(t, live+float64(device.OwnedCount()), testutil.ToFloat64(metrics.DeviceObjectsLive))

	device.Destroy()
	assert.Equal(t, live, testutil.ToFloat64(metrics.DeviceObjectsLive))
	assert.True(t, texture.(interface{ Destroyed() bool }).Destroyed())
	assert.Nil(t, device.DefaultHeap(rhi.HeapShaderResource))

	// A second Destroy is harmless and every later call fails
	device.Destroy()
	_, err = device.CreateFence(0, "late")
	assert.ErrorIs(t, err, rhi.ErrDestroyed)
	assert.ErrorIs(t, device.SetUpDefaultHeap(rhi.DefaultHeapCounts()), rhi.ErrDestroyed)
	_, err = device.CreateTextureEmpty("late")
	assert.ErrorIs(t, err, rhi.ErrDestroyed)
}

func TestOwnershipTableShrinksOnDestroy(t *testing.T) {
	device := newDevice(t, discreteAdapter)
	require.NoError(t, device.SetUpDefaultHeap(rhi.DefaultHeapCounts()))
	baseline := device.OwnedCount()

	texture, err := device.CreateTexture(renderTarget(64, 64), "frame")
	require.NoError(t, err)

	// Transient per-frame objects never accumulate in the table
	for frame := 0; frame < 10000; frame += 1 {
		fence, err := device.CreateFence(uint64(frame), "frame/fence")
		require.NoError(t, err)
		view, err := device.CreateTextureView(rhi.ViewShaderResource, texture, nil, "frame/srv")
		require.NoError(t, err)

		view.Destroy()
		fence.Destroy()
	}

	assert.Equal(t, baseline+1, device.OwnedCount())
	assert.Equal(t, uint32(0), device.DefaultHeap(rhi.HeapShaderResource).Allocated())
}

func TestForeignObjectsAreRejected(t *testing.T) {
	first := newDevice(t, discreteAdapter)
	second := newDevice(t, discreteAdapter)
	require.NoError(t, second.SetUpDefaultHeap(rhi.DefaultHeapCounts()))

	firstHeap, err := first.CreateDescriptorHeap(rhi.HeapConstantBuffer, 4, "first/constants")
	require.NoError(t, err)
	secondBuffer, err := second.CreateBuffer(rhi.GPUBufferMetadata{Stride: 256, Count: 1, Usage: rhi.UsageConstantBuffer, Heap: rhi.MemoryUpload}, "second/constants")
	require.NoError(t, err)

	// A view on one device cannot take a slot from another device's heap
	_, err = second.CreateBufferView(rhi.ViewConstantBuffer, secondBuffer, firstHeap, "cross")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
	assert.Equal(t, uint32(0), firstHeap.Allocated())

	// Nor view another device's resources
	_, err = first.CreateBufferView(rhi.ViewConstantBuffer, secondBuffer, firstHeap, "cross")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	// Pipelines cannot reference another device's layouts or passes
	layout, err := first.CreateResourceLayout(nil, nil, &rhi.Constant32Bits{Count: 4}, "first/layout")
	require.NoError(t, err)
	_, err = second.CreateComputePipelineState(layout, "cross")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	pass, err := second.CreateRenderPass([]rhi.Attachment{{Format: rhi.FormatRGBA8Unorm, SampleCount: 1}}, nil, "second/pass")
	require.NoError(t, err)
	_, err = first.CreateGraphicPipelineState(pass, layout, "cross")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)

	// Back buffers belong to the device that created the swap chain
	queue, err := second.CreateCommandQueue(rhi.CommandListGraphics, "second/queue")
	require.NoError(t, err)
	swapChain, err := second.CreateSwapChainFor(queue, rhi.WindowInfo{Handle: 0x1234}, 64, 64, rhi.FormatRGBA8Unorm, 2, true, false, "second/swapChain")
	require.NoError(t, err)
	_, err = second.CreateTextureView(rhi.ViewRenderTarget, swapChain.BackBuffer(0), nil, "second/rtv")
	assert.NoError(t, err)
	_, err = first.CreateSwapChainFor(queue, rhi.WindowInfo{Handle: 0x1234}, 64, 64, rhi.FormatRGBA8Unorm, 2, true, false, "cross")
	assert.ErrorIs(t, err, rhi.ErrInvalidArgument)
}
