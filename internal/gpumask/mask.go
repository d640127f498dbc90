package gpumask

import (
	"fmt"
	"math/bits"
	"strconv"
)

// Mask is a bitset identifying which of the installed physical GPUs a device, resource or command targets.
// Bit i set means GPU i is included. Mask is a plain value type and supports Go's bitwise operators directly.
type Mask uint32

// SingleGPU returns the default mask, targeting only the first GPU
func SingleGPU() Mask {
	return 1
}

// FromIndex returns a mask targeting only the GPU at the specified index
func FromIndex(index uint32) Mask {
	return Mask(1) << index
}

// Contains reports whether the GPU at the specified index is part of the mask
func (m Mask) Contains(index uint32) bool {
	return m&FromIndex(index) != 0
}

// ContainsAll reports whether every GPU in other is also part of the mask
func (m Mask) ContainsAll(other Mask) bool {
	return m&other == other
}

// Intersects reports whether the mask shares at least one GPU with other
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// IsZero reports whether the mask targets no GPU at all, which is never valid in normal use
func (m Mask) IsZero() bool {
	return m == 0
}

// HasSingleIndex reports whether the mask is a power of two.
// Note that the zero mask also passes this test, so callers must reject it separately using IsZero.
func (m Mask) HasSingleIndex() bool {
	return m&(m-1) == 0
}

// ToIndex returns the index of the GPU targeted by a single-index mask.
// When multi-GPU support is compiled out this always returns 0.
func (m Mask) ToIndex() uint32 {
	if !MultiGPUEnabled {
		return 0
	}

	return CountTrailingZeros(uint32(m))
}

// String formats the mask as a binary literal for logging
func (m Mask) String() string {
	return "0b" + strconv.FormatUint(uint64(m), 2)
}

// CountTrailingZeros returns the number of zero bits below the lowest set bit, or 32 when value is zero
func CountTrailingZeros(value uint32) uint32 {
	return uint32(bits.TrailingZeros32(value))
}

// Topology describes how many of the installed GPUs take part in rendering.
// It is fixed at start-up and passed by value to anything that needs the full GPU range.
type Topology struct {
	renderingCount uint32
}

// NewTopology validates the rendering GPU count against the platform limit
func NewTopology(renderingCount uint32) (Topology, error) {
	if renderingCount == 0 || renderingCount > MaxGPUCount {
		return Topology{}, fmt.Errorf("rendering GPU count must be between 1 and %d (got %d)", MaxGPUCount, renderingCount)
	}

	return Topology{renderingCount: renderingCount}, nil
}

// RenderingGPUCount returns the number of GPUs used for rendering
func (t Topology) RenderingGPUCount() uint32 {
	if t.renderingCount == 0 {
		return 1
	}

	return t.renderingCount
}

// AllGPU returns the mask with the low RenderingGPUCount bits set
func (t Topology) AllGPU() Mask {
	return Mask((uint64(1) << t.RenderingGPUCount()) - 1)
}

// FilterGPUsBeforeIndex clears every bit below the specified index, restricted to the rendering GPU range
func (t Topology) FilterGPUsBeforeIndex(index uint32) Mask {
	return ^(FromIndex(index) - 1) & t.AllGPU()
}
