//go:build !windows

package discovery

import "go.uber.org/zap"

// OpenSystemBackend reports that no native adapter backend exists for this platform
func OpenSystemBackend(logger *zap.SugaredLogger) (Backend, error) {
	return nil, ErrBackendUnavailable
}
