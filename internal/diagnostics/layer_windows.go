//go:build windows

package diagnostics

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/com"
)

var (
	d3d12dll                   = windows.NewLazySystemDLL("d3d12.dll")
	procD3D12GetDebugInterface = d3d12dll.NewProc("D3D12GetDebugInterface")
)

// COM interface identifiers
var (
	iidID3D12Debug                              = windows.GUID{Data1: 0x344488b7, Data2: 0x6846, Data3: 0x474b, Data4: [8]byte{0xb9, 0x89, 0xf0, 0x27, 0x44, 0x82, 0x45, 0xe0}}
	iidID3D12Debug1                             = windows.GUID{Data1: 0xaffaa4ca, Data2: 0x63fe, Data3: 0x4d8e, Data4: [8]byte{0xb8, 0xad, 0x15, 0x90, 0x00, 0xaf, 0x43, 0x04}}
	iidID3D12DeviceRemovedExtendedDataSettings  = windows.GUID{Data1: 0x82bc481c, Data2: 0x6b9b, Data3: 0x4030, Data4: [8]byte{0xae, 0xdb, 0x7e, 0xe3, 0xd1, 0xdf, 0x1e, 0x63}}
	iidID3D12DeviceRemovedExtendedDataSettings1 = windows.GUID{Data1: 0xdbd5ae51, Data2: 0x3317, Data3: 0x4f0a, Data4: [8]byte{0xad, 0xf9, 0x1d, 0x7c, 0xed, 0xca, 0xae, 0x0b}}
	iidID3D12DeviceRemovedExtendedDataSettings2 = windows.GUID{Data1: 0x61552388, Data2: 0x01ab, Data3: 0x4008, Data4: [8]byte{0xa4, 0x36, 0x83, 0xdb, 0x18, 0x95, 0x66, 0xea}}
)

// Virtual table slots for the COM methods we call
const (
	methodDebugEnableDebugLayer               = 3
	methodDebug1SetEnableGPUBasedValidation   = 4
	methodDREDSetAutoBreadcrumbsEnablement    = 3
	methodDREDSetPageFaultEnablement          = 4
	methodDRED1SetBreadcrumbContextEnablement = 6
	methodDRED2UseMarkersOnlyAutoBreadcrumbs  = 7
)

// D3D12_DRED_ENABLEMENT_FORCED_ON
const dredEnablementForcedOn = 2

// D3D12Layer enables diagnostics through the interfaces returned by D3D12GetDebugInterface
type D3D12Layer struct {

	// Every interface acquired so far, released together by Release()
	acquired []uintptr

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger
}

// OpenDebugLayer loads d3d12.dll so that its debug interfaces can be queried
func OpenDebugLayer(logger *zap.SugaredLogger) (DebugLayer, error) {

	// Attempt to load the D3D12 library, catching failures gracefully rather than triggering a panic upon lazy-load
	if err := d3d12dll.Load(); err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %s", ErrInterfaceUnavailable, d3d12dll.Name, err.Error())
	}

	return &D3D12Layer{logger: logger}, nil
}

func (l *D3D12Layer) Name() string {
	return "d3d12"
}

// Wrapper function for D3D12GetDebugInterface
func (l *D3D12Layer) getInterface(name string, iid *windows.GUID) (uintptr, error) {
	var object uintptr
	hr, _, _ := procD3D12GetDebugInterface.Call(uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&object)))
	if com.Failed(hr) {
		return 0, fmt.Errorf("%w: %s", ErrInterfaceUnavailable, com.Error("D3D12GetDebugInterface("+name+")", hr))
	}

	l.acquired = append(l.acquired, object)
	return object, nil
}

func (l *D3D12Layer) EnableCPUValidation() error {
	debug, err := l.getInterface("ID3D12Debug", &iidID3D12Debug)
	if err != nil {
		return err
	}

	com.Call(debug, methodDebugEnableDebugLayer)
	return nil
}

func (l *D3D12Layer) EnableGPUValidation() error {
	debug1, err := l.getInterface("ID3D12Debug1", &iidID3D12Debug1)
	if err != nil {
		return err
	}

	com.Call(debug1, methodDebug1SetEnableGPUBasedValidation, 1)
	return nil
}

func (l *D3D12Layer) EnableDeviceRemovedDiagnostics() error {
	settings, err := l.getInterface("ID3D12DeviceRemovedExtendedDataSettings", &iidID3D12DeviceRemovedExtendedDataSettings)
	if err != nil {
		return err
	}

	com.Call(settings, methodDREDSetAutoBreadcrumbsEnablement, dredEnablementForcedOn)
	com.Call(settings, methodDREDSetPageFaultEnablement, dredEnablementForcedOn)
	return nil
}

func (l *D3D12Layer) EnableBreadcrumbContext() error {
	settings1, err := l.getInterface("ID3D12DeviceRemovedExtendedDataSettings1", &iidID3D12DeviceRemovedExtendedDataSettings1)
	if err != nil {
		return err
	}

	com.Call(settings1, methodDRED1SetBreadcrumbContextEnablement, dredEnablementForcedOn)
	return nil
}

func (l *D3D12Layer) EnableMarkersOnlyBreadcrumbs() error {
	settings2, err := l.getInterface("ID3D12DeviceRemovedExtendedDataSettings2", &iidID3D12DeviceRemovedExtendedDataSettings2)
	if err != nil {
		return err
	}

	com.Call(settings2, methodDRED2UseMarkersOnlyAutoBreadcrumbs, 1)
	return nil
}

func (l *D3D12Layer) Release() {
	for index := len(l.acquired) - 1; index >= 0; index -= 1 {
		com.Release(l.acquired[index])
	}
	l.acquired = nil
}
