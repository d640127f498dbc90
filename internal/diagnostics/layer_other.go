//go:build !windows

package diagnostics

import "go.uber.org/zap"

// OpenDebugLayer returns a layer whose features are all unavailable, since there is no native debug interface on this platform
func OpenDebugLayer(logger *zap.SugaredLogger) (DebugLayer, error) {
	logger.Debug("No native debug interface on this platform")
	return unavailableLayer{}, nil
}

type unavailableLayer struct{}

func (unavailableLayer) Name() string                          { return "none" }
func (unavailableLayer) EnableCPUValidation() error            { return ErrInterfaceUnavailable }
func (unavailableLayer) EnableGPUValidation() error            { return ErrInterfaceUnavailable }
func (unavailableLayer) EnableDeviceRemovedDiagnostics() error { return ErrInterfaceUnavailable }
func (unavailableLayer) EnableBreadcrumbContext() error        { return ErrInterfaceUnavailable }
func (unavailableLayer) EnableMarkersOnlyBreadcrumbs() error   { return ErrInterfaceUnavailable }
func (unavailableLayer) Release()                              {}
