// Package slot tracks where deferred placeholders were written.
//
// The table is an arena: a slot is addressed only by its index, which callers
// hold in lightweight handles. Slots are never removed, so indices stay valid
// for the life of the table.
package slot

import "fmt"

// Table records, per slot, every absolute offset where that slot's
// placeholder was written.
type Table struct {
	offsets [][]int64
}

// Open allocates the next slot and returns its index.
func (t *Table) Open() int {
	idx := len(t.offsets)
	t.offsets = append(t.offsets, nil)
	return idx
}

// Record appends an offset to a slot.
func (t *Table) Record(idx int, offset int64) error {
	if idx < 0 || idx >= len(t.offsets) {
		return fmt.Errorf("slot index %d out of range", idx)
	}
	t.offsets[idx] = append(t.offsets[idx], offset)
	return nil
}

// Offsets returns the offsets recorded for a slot, in write order.
// The returned slice must not be modified.
func (t *Table) Offsets(idx int) ([]int64, error) {
	if idx < 0 || idx >= len(t.offsets) {
		return nil, fmt.Errorf("slot index %d out of range", idx)
	}
	return t.offsets[idx], nil
}

// Len returns the number of slots opened.
func (t *Table) Len() int {
	return len(t.offsets)
}
