package discovery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBackendUnavailable is returned when the native adapter backend cannot be loaded on this system
var ErrBackendUnavailable = errors.New("discovery: adapter backend is not available on this system")

// ErrPreferenceOrderingUnsupported is returned by backends that cannot enumerate adapters in preference order
var ErrPreferenceOrderingUnsupported = errors.New("discovery: backend does not support preference-ordered enumeration")

// Preference is the caller's GPU performance preference (values match DXGI_GPU_PREFERENCE)
type Preference int32

const (
	PreferenceUnspecified     Preference = 0
	PreferenceMinimumPower    Preference = 1
	PreferenceHighPerformance Preference = 2
)

// String returns the configuration spelling of the preference
func (p Preference) String() string {
	switch p {
	case PreferenceUnspecified:
		return "unspecified"
	case PreferenceMinimumPower:
		return "minimumPower"
	case PreferenceHighPerformance:
		return "highPerformance"
	default:
		return fmt.Sprintf("Preference(%d)", int32(p))
	}
}

// ParsePreference parses the configuration spelling of a preference (case-insensitive)
func ParsePreference(value string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unspecified":
		return PreferenceUnspecified, nil
	case "minimumpower", "minimum-power", "lowpower":
		return PreferenceMinimumPower, nil
	case "highperformance", "high-performance":
		return PreferenceHighPerformance, nil
	default:
		return PreferenceUnspecified, fmt.Errorf("unknown GPU preference \"%s\"", value)
	}
}

// Backend is the native collaborator that reports the physical adapters installed in the system
type Backend interface {

	// The name of the backend, for logging
	Name() string

	// Specifies whether EnumerateAdaptersByPreference is available
	SupportsPreferenceOrdering() bool

	// Returns every adapter the backend reports, in backend-assigned order
	EnumerateAdapters() ([]AdapterDescriptor, error)

	// Returns every adapter the backend reports, ordered by the specified preference
	EnumerateAdaptersByPreference(preference Preference) ([]AdapterDescriptor, error)

	// Reports whether the last enumeration still reflects the installed adapters
	IsCurrent() (bool, error)

	// Releases the native resources held by the backend
	Destroy()
}
