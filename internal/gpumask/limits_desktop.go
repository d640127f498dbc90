//go:build (windows || linux || darwin) && !android && !ios

package gpumask

// MaxGPUCount is the maximum number of physical GPUs a mask can address
const MaxGPUCount = 8

// MultiGPUEnabled reports whether multi-GPU configurations are supported on this platform
const MultiGPUEnabled = true
