package headless

import (
	"fmt"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi"
)

// A fixed-size descriptor heap with a free list of released slots
type descriptorHeap struct {
	rhi.ObjectBase
	heapType rhi.DescriptorHeapType
	capacity uint32

	// The next never-used slot
	next uint32

	// Released slots, reused before next advances
	free []uint32
}

func newDescriptorHeap(heapType rhi.DescriptorHeapType, capacity uint32, name string) *descriptorHeap {
	heap := &descriptorHeap{heapType: heapType, capacity: capacity}
	heap.ObjectBase = rhi.NewObjectBase("descriptorHeap", name, nil)
	return heap
}

func (h *descriptorHeap) Type() rhi.DescriptorHeapType { return h.heapType }

func (h *descriptorHeap) Capacity() uint32 { return h.capacity }

func (h *descriptorHeap) Allocated() uint32 { return h.next - uint32(len(h.free)) }

func (h *descriptorHeap) Allocate() (uint32, error) {
	if h.Destroyed() {
		return 0, fmt.Errorf("%w: descriptor heap \"%s\"", rhi.ErrDestroyed, h.Name())
	}
	if n := len(h.free); n > 0 {
		slot := h.free[n-1]
		h.free = h.free[:n-1]
		return slot, nil
	}
	if h.next == h.capacity {
		return 0, fmt.Errorf("%w: %s heap \"%s\" holds %d descriptors", rhi.ErrHeapExhausted, h.heapType, h.Name(), h.capacity)
	}
	slot := h.next
	h.next += 1
	return slot, nil
}

func (h *descriptorHeap) Free(slot uint32) {
	if h.Destroyed() || slot >= h.next {
		return
	}
	h.free = append(h.free, slot)
}
