// Package diagnostics performs the one-time setup of the validation layers and device-removed diagnostics
// that must happen before any logical device is created.
package diagnostics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
)

// Returned by a debug layer when the native interface backing a feature is not available
var ErrInterfaceUnavailable = errors.New("debug interface is unavailable")

// Metric labels for each tier
const (
	TierCPUValidation     = "cpuValidation"
	TierGPUValidation     = "gpuValidation"
	TierDeviceRemoved     = "deviceRemoved"
	TierBreadcrumbContext = "breadcrumbContext"
	TierMarkersOnly       = "markersOnly"
)

// DebugLayer is the native collaborator that switches each diagnostic feature on.
// Every method is called at most once, before any device exists.
type DebugLayer interface {
	Name() string

	// Enables the CPU-side API validation layer
	EnableCPUValidation() error

	// Enables GPU-based shader validation (uninitialized or incompatible descriptors,
	// destroyed resource references, resource state mismatches, heap overruns and sampler misuse)
	EnableGPUValidation() error

	// Enables automatic breadcrumbs and page-fault reporting
	EnableDeviceRemovedDiagnostics() error

	// Enables breadcrumb context strings
	EnableBreadcrumbContext() error

	// Restricts breadcrumbs to the lightweight marker-only mode
	EnableMarkersOnlyBreadcrumbs() error

	// Releases every native interface acquired by the layer
	Release()
}

// Options selects which diagnostics Setup attempts
type Options struct {
	CPUValidation bool
	GPUValidation bool
	DeviceRemoved bool
}

// State records which diagnostics were actually enabled
type State struct {
	CPUValidation bool
	GPUValidation bool

	// The three device-removed diagnostics tiers
	DeviceRemoved     bool
	BreadcrumbContext bool
	MarkersOnly       bool
}

// DebugBuild reports whether the binary was built with the CPU validation layer available
func DebugBuild() bool {
	return debugBuild
}

// Setup enables the requested diagnostics on the supplied layer.
// Failing to enable CPU validation in a debug build is fatal and returned as an error,
// whereas GPU validation and each device-removed tier are optional and are logged and skipped.
// GPU validation is only attempted once CPU validation is active.
func Setup(layer DebugLayer, options Options, logger *zap.SugaredLogger) (State, error) {
	state := State{}

	if options.CPUValidation {
		if !debugBuild {
			logger.Infow("CPU validation was requested but is only available in debug builds, ignoring")
		} else if err := layer.EnableCPUValidation(); err != nil {
			return state, fmt.Errorf("failed to enable the CPU validation layer using %s: %w", layer.Name(), err)
		} else {
			state.CPUValidation = true
		}
	}

	// GPU-based validation is a setting of the debug layer and has no effect unless CPU validation is active
	if options.GPUValidation {
		if state.CPUValidation {
			state.GPUValidation = enableTier(TierGPUValidation, layer.EnableGPUValidation, logger)
		} else {
			logger.Infow("GPU-based validation requires the CPU validation layer, skipping", "tier", TierGPUValidation)
		}
	}

	// Each device-removed tier is attempted even when a lower tier was unavailable
	if options.DeviceRemoved {
		state.DeviceRemoved = enableTier(TierDeviceRemoved, layer.EnableDeviceRemovedDiagnostics, logger)
		state.BreadcrumbContext = enableTier(TierBreadcrumbContext, layer.EnableBreadcrumbContext, logger)
		state.MarkersOnly = enableTier(TierMarkersOnly, layer.EnableMarkersOnlyBreadcrumbs, logger)
	}

	// Publish the final state of every tier
	setGauge(TierCPUValidation, state.CPUValidation)
	setGauge(TierGPUValidation, state.GPUValidation)
	setGauge(TierDeviceRemoved, state.DeviceRemoved)
	setGauge(TierBreadcrumbContext, state.BreadcrumbContext)
	setGauge(TierMarkersOnly, state.MarkersOnly)

	logger.Infow("Diagnostics configured", "layer", layer.Name(), "state", state)
	return state, nil
}

// Attempts to enable an optional tier, logging rather than propagating any failure
func enableTier(tier string, enable func() error, logger *zap.SugaredLogger) bool {
	if err := enable(); err != nil {
		logger.Warnw("Diagnostics tier unavailable, skipping", "tier", tier, "error", err)
		return false
	}

	logger.Debugw("Enabled diagnostics tier", "tier", tier)
	return true
}

func setGauge(tier string, enabled bool) {
	value := 0.0
	if enabled {
		value = 1.0
	}
	metrics.DiagnosticsEnabled.WithLabelValues(tier).Set(value)
}
