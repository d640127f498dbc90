//go:build windows

// Package com provides the minimal COM plumbing needed to call DXGI and D3D12 interfaces without cgo.
package com

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Virtual table slots shared by every COM interface
const (
	MethodQueryInterface = 0
	MethodAddRef         = 1
	MethodRelease        = 2
)

// Call invokes a method through the virtual table of a COM object
func Call(object uintptr, method uintptr, args ...uintptr) uintptr {
	vtable := *(*uintptr)(unsafe.Pointer(object))
	function := *(*uintptr)(unsafe.Pointer(vtable + method*unsafe.Sizeof(uintptr(0))))
	result, _, _ := syscall.SyscallN(function, append([]uintptr{object}, args...)...)
	return result
}

// Release releases a COM object if it is non-nil
func Release(object uintptr) {
	if object != 0 {
		Call(object, MethodRelease)
	}
}

// QueryInterface retrieves another interface implemented by a COM object
func QueryInterface(object uintptr, iid *windows.GUID) (uintptr, error) {
	var result uintptr
	hr := Call(object, MethodQueryInterface, uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&result)))
	if Failed(hr) {
		return 0, Error(fmt.Sprintf("QueryInterface(%s)", iid.String()), hr)
	}

	return result, nil
}

// Failed reports whether an HRESULT indicates failure
func Failed(hr uintptr) bool {
	return int32(hr) < 0
}

// Error converts a failed HRESULT into a Go error
func Error(operation string, hr uintptr) error {
	return fmt.Errorf("%s failed: HRESULT 0x%08X", operation, uint32(hr))
}
