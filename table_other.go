//go:build !linux
// +build !linux

package gups

// allocate uses the Go heap; huge page mappings are Linux only.
func (t *Table) allocate(length uint64, hugePages bool) error {
	t.allocateHeap(length)
	return nil
}
