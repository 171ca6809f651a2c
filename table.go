package gups

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// Table is the shared array of 64-bit words updated by the benchmark.
// Its length is always a power of two so indices can be masked.
//
// A Table is not synchronized. The engine writes to it from many
// goroutines at once and lost updates are part of what is measured.
type Table struct {
	words     []uint64
	mask      uint64
	hugePages bool
	release   func() error
}

type tableOptions struct {
	hugePages   bool
	memoryCheck bool
}

// TableOption configures table allocation
type TableOption func(*tableOptions)

// WithHugePages requests a transparent huge page backed mapping where the
// platform supports it. It is ignored elsewhere.
func WithHugePages() TableOption {
	return func(o *tableOptions) { o.hugePages = true }
}

// WithoutMemoryCheck skips the available memory check before allocation.
func WithoutMemoryCheck() TableOption {
	return func(o *tableOptions) { o.memoryCheck = false }
}

// NewTable allocates a table of 2^log2Length words initialized so that
// every cell holds its own index.
func NewTable(log2Length uint, opts ...TableOption) (*Table, error) {
	o := tableOptions{memoryCheck: true}
	for _, opt := range opts {
		opt(&o)
	}

	if log2Length > MaxLog2Length {
		return nil, ErrTableTooLarge
	}
	length := uint64(1) << log2Length
	bytes := length * 8

	if o.memoryCheck {
		if err := checkAvailable(bytes); err != nil {
			return nil, err
		}
	}

	t := &Table{mask: length - 1}
	if err := t.allocate(length, o.hugePages); err != nil {
		return nil, err
	}
	t.Reset()
	return t, nil
}

// checkAvailable refuses allocations larger than the memory the kernel
// reports as available. Hosts that cannot report memory are not checked.
func checkAvailable(bytes uint64) error {
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available == 0 {
		return nil
	}
	if bytes > vm.Available {
		return NewMemoryError("NewTable", "out of memory",
			fmt.Errorf("table needs %d bytes, %d available", bytes, vm.Available))
	}
	return nil
}

func (t *Table) allocateHeap(length uint64) {
	t.words = make([]uint64, length)
	t.release = func() error { return nil }
}

// Reset restores the identity contents table[i] = i.
func (t *Table) Reset() {
	for i := range t.words {
		t.words[i] = uint64(i)
	}
}

// Words exposes the backing store; it is nil after Release.
func (t *Table) Words() []uint64 {
	return t.words
}

// Len returns the number of cells.
func (t *Table) Len() uint64 {
	return uint64(len(t.words))
}

// Mask returns Len()-1, the index mask applied to every sequence state.
func (t *Table) Mask() uint64 {
	return t.mask
}

// HugePages reports whether the table is backed by a huge page mapping.
func (t *Table) HugePages() bool {
	return t.hugePages
}

// Errors counts the cells that do not hold their own index.
func (t *Table) Errors() uint64 {
	var errors uint64
	for i, v := range t.words {
		if v != uint64(i) {
			errors++
		}
	}
	return errors
}

// Release frees the backing store. It is safe to call more than once.
func (t *Table) Release() error {
	if t.words == nil {
		return nil
	}
	err := t.release()
	t.words = nil
	t.release = nil
	if err != nil {
		return NewMemoryError("Release", "failed to release table", err)
	}
	return nil
}
