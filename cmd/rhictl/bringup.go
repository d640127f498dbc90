package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/diagnostics"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

func bringupCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "bringup",
		Usage: "Configure diagnostics, select an adapter and create a device on it",
		Action: func(c *cli.Context) error {
			driver, err := rhi.Lookup(s.cfg.Driver)
			if err != nil {
				return err
			}

			layer, err := diagnostics.OpenDebugLayer(s.logger)
			if err != nil {
				return err
			}

			backend, err := discovery.OpenBackend(s.cfg.InventoryFile, s.logger)
			if err != nil {
				layer.Release()
				return err
			}

			// The instance owns the layer and backend from here on
			instance, err := rhi.NewInstance(driver, backend, layer, s.cfg, s.logger)
			if err != nil {
				backend.Destroy()
				layer.Release()
				return err
			}
			defer instance.Destroy()

			if err := instance.LogAdapters(); err != nil {
				return err
			}

			adapter, err := instance.SearchPreferredAdapter()
			if err != nil {
				return err
			}
			if adapter == nil {
				return errors.New("no adapter qualifies under the configured selection policy")
			}

			device, err := instance.CreateDevice(adapter, gpumask.SingleGPU())
			if err != nil {
				return err
			}
			if err := device.SetUpDefaultHeap(instance.HeapCounts()); err != nil {
				return err
			}

			printDevice(device, instance)
			return nil
		},
	}
}

func printDevice(device rhi.Device, instance *rhi.Instance) {
	adapter := device.GetDisplayAdapter()
	caps := device.Capabilities()

	fmt.Println("Adapter:     ", adapter.String())
	fmt.Println("GPU mask:    ", device.GetGPUMask(), "of", instance.Topology().AllGPU())
	fmt.Printf("Diagnostics:  %+v\n", instance.Diagnostics())
	fmt.Println("Capabilities:")
	for _, entry := range []struct {
		name      string
		supported bool
	}{
		{"discrete GPU", caps.IsDiscreteGPU()},
		{"raytracing", caps.IsSupportedRayTracing()},
		{"HDR", caps.IsSupportedHDR()},
		{"variable rate shading", caps.IsSupportedVariableRateShading()},
		{"mesh shading", caps.IsSupportedMeshShading()},
		{"draw indirect", caps.IsSupportedDrawIndirect()},
		{"geometry shader", caps.IsSupportedGeometryShader()},
		{"render pass", caps.IsSupportedRenderPass()},
		{"depth bounds test", caps.IsSupportedDepthBoundsTest()},
		{"sampler feedback", caps.IsSupportedSamplerFeedback()},
		{"stencil reference from pixel shader", caps.IsSupportedStencilReferenceFromPixelShader()},
		{"wave lane operations", caps.IsSupportedWaveLaneOperation()},
		{"native 16-bit operations", caps.IsSupportedNative16BitOperation()},
		{"atomic operations", caps.IsSupportedAtomicOperation()},
	} {
		fmt.Printf("  %-36s %v\n", entry.name, entry.supported)
	}

	fmt.Println("Default heaps:")
	for _, heapType := range rhi.DescriptorHeapTypes() {
		if heap := device.DefaultHeap(heapType); heap != nil {
			fmt.Printf("  %-16s %d descriptors\n", heapType, heap.Capacity())
		}
	}
}
