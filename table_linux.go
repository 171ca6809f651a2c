//go:build linux
// +build linux

package gups

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// allocate maps the table anonymously when huge pages are requested so the
// kernel can back it with transparent huge pages.
func (t *Table) allocate(length uint64, hugePages bool) error {
	if !hugePages {
		t.allocateHeap(length)
		return nil
	}

	b, err := unix.Mmap(-1, 0, int(length*8),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return NewMemoryError("NewTable", "mmap failed", err)
	}

	// Kernels without THP reject the advice; the mapping still works.
	t.hugePages = unix.Madvise(b, unix.MADV_HUGEPAGE) == nil

	t.words = unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), length)
	t.release = func() error {
		return unix.Munmap(b)
	}
	return nil
}
