package discovery

import "fmt"

// Well-known PCI vendor IDs
const (
	VendorAMD       uint32 = 0x1002
	VendorNvidia    uint32 = 0x10DE
	VendorIntel     uint32 = 0x8086
	VendorQualcomm  uint32 = 0x5143
	VendorMicrosoft uint32 = 0x1414

	// The vendor ID reported by the WARP software rasterizer
	VendorSoftware = VendorMicrosoft
)

// Represents a physical GPU as reported by a backend
type AdapterDescriptor struct {

	// A human-readable description of the adapter (e.g. the model name)
	Name string `yaml:"name"`

	// The PCI vendor ID of the adapter
	VendorID uint32 `yaml:"vendorID"`

	// The PCI device ID of the adapter
	DeviceID uint32 `yaml:"deviceID"`

	// The PCI subsystem ID of the adapter
	SubSystemID uint32 `yaml:"subSystemID"`

	// The hardware revision of the adapter
	Revision uint32 `yaml:"revision"`

	// The number of bytes of video memory that are not shared with the CPU
	DedicatedVideoMemory uint64 `yaml:"dedicatedVideoMemory"`

	// The number of bytes of system memory that are reserved for the adapter and not shared with the CPU
	DedicatedSystemMemory uint64 `yaml:"dedicatedSystemMemory"`

	// The number of bytes of system memory that the adapter can share with the CPU
	SharedSystemMemory uint64 `yaml:"sharedSystemMemory"`

	// The locally unique identifier the backend assigned to the adapter
	LUID int64 `yaml:"luid"`

	// The display outputs (monitors) attached to the adapter
	Outputs []OutputDescriptor `yaml:"outputs"`
}

// Represents a display output attached to an adapter
type OutputDescriptor struct {

	// The name of the output device (e.g. \\.\DISPLAY1)
	DeviceName string `yaml:"deviceName"`

	// Specifies whether the output is part of the desktop
	AttachedToDesktop bool `yaml:"attachedToDesktop"`
}

// IsDiscrete reports whether the adapter has its own video memory
func (a *AdapterDescriptor) IsDiscrete() bool {
	return a.DedicatedVideoMemory != 0
}

// IsSoftware reports whether the adapter is the WARP software rasterizer
func (a *AdapterDescriptor) IsSoftware() bool {
	return a.VendorID == VendorSoftware
}

// VendorName returns a readable name for the adapter vendor
func (a *AdapterDescriptor) VendorName() string {
	return VendorName(a.VendorID)
}

// String identifies the adapter in log output
func (a *AdapterDescriptor) String() string {
	return fmt.Sprintf("%s (vendor 0x%04X, device 0x%04X)", a.Name, a.VendorID, a.DeviceID)
}

// VendorName returns a readable name for a PCI vendor ID
func VendorName(vendorID uint32) string {
	switch vendorID {
	case VendorAMD:
		return "AMD"
	case VendorNvidia:
		return "NVIDIA"
	case VendorIntel:
		return "Intel"
	case VendorQualcomm:
		return "Qualcomm"
	case VendorMicrosoft:
		return "Microsoft"
	default:
		return fmt.Sprintf("0x%04X", vendorID)
	}
}
