// Package headless implements a device backend without a GPU. It validates every creation call,
// allocates descriptor slots and tracks object lifetimes exactly like a native backend, which makes
// it the backend used by tooling and tests.
package headless

import (
	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

// The name the driver is registered under
const DriverName = "headless"

func init() {
	rhi.Register(Driver{})
}

// Driver creates headless devices
type Driver struct{}

func (Driver) Name() string {
	return DriverName
}

func (Driver) CreateDevice(adapter discovery.AdapterDescriptor, mask gpumask.Mask, logger *zap.SugaredLogger) (rhi.Device, error) {
	return NewDevice(adapter, mask, logger), nil
}

// Features every adapter gets, including the software rasterizer
const baselineFeatures = rhi.FeatureDrawIndirect |
	rhi.FeatureGeometryShader |
	rhi.FeatureRenderPass |
	rhi.FeatureWaveLaneOperations |
	rhi.FeatureNative16BitOperations |
	rhi.FeatureAtomicOperations

// Derives the feature set of a device from its adapter.
// Hardware adapters get every feature except HDR, which needs an output attached to the desktop.
func detectFeatures(adapter discovery.AdapterDescriptor) rhi.Feature {
	if adapter.IsSoftware() {
		return baselineFeatures
	}

	features := rhi.FeatureAll &^ rhi.FeatureHDRDisplay
	for _, output := range adapter.Outputs {
		if output.AttachedToDesktop {
			features |= rhi.FeatureHDRDisplay
			break
		}
	}
	return features
}
