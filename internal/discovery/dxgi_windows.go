//go:build windows

package discovery

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/com"
)

var (
	dxgidll                = windows.NewLazySystemDLL("dxgi.dll")
	procCreateDXGIFactory1 = dxgidll.NewProc("CreateDXGIFactory1")
)

// COM interface identifiers
var (
	iidIDXGIFactory1 = windows.GUID{Data1: 0x770aae78, Data2: 0xf26f, Data3: 0x4dba, Data4: [8]byte{0xa8, 0x29, 0x25, 0x3c, 0x83, 0xd1, 0xb3, 0x87}}
	iidIDXGIFactory6 = windows.GUID{Data1: 0xc1b6694f, Data2: 0xff09, Data3: 0x44a9, Data4: [8]byte{0xb0, 0x3c, 0x77, 0x90, 0x0a, 0x0a, 0x1d, 0x17}}
	iidIDXGIAdapter1 = windows.GUID{Data1: 0x29038f61, Data2: 0x3839, Data3: 0x4626, Data4: [8]byte{0x91, 0xfd, 0x08, 0x68, 0x79, 0x01, 0x1a, 0x05}}
)

// Virtual table slots for the COM methods we call
const (
	methodFactoryEnumAdapters1        = 12
	methodFactoryIsCurrent            = 13
	methodFactoryEnumAdapterByGpuPref = 29
	methodAdapterEnumOutputs          = 7
	methodAdapterGetDesc1             = 10
	methodOutputGetDesc               = 7
)

// Returned by the enumeration methods once the index is past the last adapter or output
const dxgiErrorNotFound = 0x887A0002

// DXGI_ADAPTER_DESC1
type dxgiAdapterDesc1 struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           windows.LUID
	Flags                 uint32
}

// DXGI_OUTPUT_DESC
type dxgiOutputDesc struct {
	DeviceName         [32]uint16
	DesktopCoordinates windows.Rect
	AttachedToDesktop  int32
	Rotation           uint32
	Monitor            windows.Handle
}

// DXGIBackend enumerates adapters through a DXGI factory
type DXGIBackend struct {

	// The IDXGIFactory1 interface
	factory uintptr

	// The IDXGIFactory6 interface, or zero when the system does not provide it
	factory6 uintptr

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger
}

// OpenSystemBackend loads dxgi.dll and creates a DXGI factory
func OpenSystemBackend(logger *zap.SugaredLogger) (Backend, error) {

	// Attempt to load the DXGI library, catching failures gracefully rather than triggering a panic upon lazy-load
	if err := dxgidll.Load(); err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %s", ErrBackendUnavailable, dxgidll.Name, err.Error())
	}

	backend := &DXGIBackend{logger: logger}
	if err := backend.createFactory(); err != nil {
		return nil, err
	}

	logger.Infow("Created DXGI factory", "preferenceOrdering", backend.factory6 != 0)
	return backend, nil
}

// Creates the factory interfaces, releasing any previous ones
func (d *DXGIBackend) createFactory() error {
	d.releaseFactory()

	// Attempt to create the IDXGIFactory1 interface
	var factory uintptr
	hr, _, _ := procCreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iidIDXGIFactory1)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if com.Failed(hr) {
		return com.Error("CreateDXGIFactory1()", hr)
	}
	d.factory = factory

	// IDXGIFactory6 only exists on Windows 10 1803 and newer, so its absence is not an error
	if factory6, err := com.QueryInterface(factory, &iidIDXGIFactory6); err == nil {
		d.factory6 = factory6
	} else {
		d.logger.Debugw("IDXGIFactory6 is unavailable, adapters will be enumerated without preference ordering", "error", err)
	}

	return nil
}

// Releases the factory interfaces
func (d *DXGIBackend) releaseFactory() {
	com.Release(d.factory6)
	com.Release(d.factory)
	d.factory6 = 0
	d.factory = 0
}

func (d *DXGIBackend) Name() string {
	return "dxgi"
}

func (d *DXGIBackend) SupportsPreferenceOrdering() bool {
	return d.factory6 != 0
}

// Recreates the factory if the adapter list has changed since it was created
func (d *DXGIBackend) ensureCurrent() error {
	current, err := d.IsCurrent()
	if err != nil {
		return err
	}

	if !current {
		d.logger.Info("DXGI factory is stale, recreating it")
		return d.createFactory()
	}

	return nil
}

func (d *DXGIBackend) EnumerateAdapters() ([]AdapterDescriptor, error) {
	if err := d.ensureCurrent(); err != nil {
		return nil, err
	}

	return d.enumerate(func(index uint32, adapter *uintptr) uintptr {
		return com.Call(d.factory, methodFactoryEnumAdapters1, uintptr(index), uintptr(unsafe.Pointer(adapter)))
	})
}

func (d *DXGIBackend) EnumerateAdaptersByPreference(preference Preference) ([]AdapterDescriptor, error) {
	if err := d.ensureCurrent(); err != nil {
		return nil, err
	}

	if d.factory6 == 0 {
		return nil, ErrPreferenceOrderingUnsupported
	}

	return d.enumerate(func(index uint32, adapter *uintptr) uintptr {
		return com.Call(
			d.factory6,
			methodFactoryEnumAdapterByGpuPref,
			uintptr(index),
			uintptr(preference),
			uintptr(unsafe.Pointer(&iidIDXGIAdapter1)),
			uintptr(unsafe.Pointer(adapter)),
		)
	})
}

// Walks adapter indices until the enumeration function reports that there are no more adapters
func (d *DXGIBackend) enumerate(enumAdapter func(index uint32, adapter *uintptr) uintptr) ([]AdapterDescriptor, error) {
	adapters := []AdapterDescriptor{}
	for index := uint32(0); ; index += 1 {

		// Attempt to retrieve the adapter interface
		var adapter uintptr
		hr := enumAdapter(index, &adapter)
		if uint32(hr) == dxgiErrorNotFound {
			break
		}
		if com.Failed(hr) {
			return nil, com.Error("adapter enumeration", hr)
		}

		// Attempt to retrieve the adapter details
		descriptor, err := d.describeAdapter(adapter)
		com.Release(adapter)
		if err != nil {
			return nil, err
		}

		adapters = append(adapters, descriptor)
	}

	return adapters, nil
}

// Retrieves the details for an individual adapter
func (d *DXGIBackend) describeAdapter(adapter uintptr) (AdapterDescriptor, error) {

	// Attempt to retrieve the adapter description
	desc := dxgiAdapterDesc1{}
	if hr := com.Call(adapter, methodAdapterGetDesc1, uintptr(unsafe.Pointer(&desc))); com.Failed(hr) {
		return AdapterDescriptor{}, com.Error("IDXGIAdapter1::GetDesc1()", hr)
	}

	// Attempt to retrieve the details of each attached output
	outputs := []OutputDescriptor{}
	for index := uint32(0); ; index += 1 {
		var output uintptr
		hr := com.Call(adapter, methodAdapterEnumOutputs, uintptr(index), uintptr(unsafe.Pointer(&output)))
		if uint32(hr) == dxgiErrorNotFound {
			break
		}
		if com.Failed(hr) {
			return AdapterDescriptor{}, com.Error("IDXGIAdapter::EnumOutputs()", hr)
		}

		outputDesc := dxgiOutputDesc{}
		hr = com.Call(output, methodOutputGetDesc, uintptr(unsafe.Pointer(&outputDesc)))
		com.Release(output)
		if com.Failed(hr) {
			return AdapterDescriptor{}, com.Error("IDXGIOutput::GetDesc()", hr)
		}

		outputs = append(outputs, OutputDescriptor{
			DeviceName:        windows.UTF16ToString(outputDesc.DeviceName[:]),
			AttachedToDesktop: outputDesc.AttachedToDesktop != 0,
		})
	}

	// Construct an AdapterDescriptor from the retrieved data
	return AdapterDescriptor{
		Name:                  windows.UTF16ToString(desc.Description[:]),
		VendorID:              desc.VendorID,
		DeviceID:              desc.DeviceID,
		SubSystemID:           desc.SubSysID,
		Revision:              desc.Revision,
		DedicatedVideoMemory:  uint64(desc.DedicatedVideoMemory),
		DedicatedSystemMemory: uint64(desc.DedicatedSystemMemory),
		SharedSystemMemory:    uint64(desc.SharedSystemMemory),
		LUID:                  int64(desc.AdapterLuid.HighPart)<<32 | int64(desc.AdapterLuid.LowPart),
		Outputs:               outputs,
	}, nil
}

// Wrapper function for IDXGIFactory1::IsCurrent
func (d *DXGIBackend) IsCurrent() (bool, error) {
	if d.factory == 0 {
		return false, nil
	}

	return com.Call(d.factory, methodFactoryIsCurrent) != 0, nil
}

func (d *DXGIBackend) Destroy() {
	d.releaseFactory()
}
