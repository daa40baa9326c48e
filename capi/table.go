package capi

import (
	"sync"
)

// Handle is an opaque reference to a core object held by the Table.
// Handle 0 is never valid.
type Handle uint32

// kind tags what a table entry holds, so misuse of a handle across object
// kinds is detected instead of producing a bad type assertion panic.
type kind uint8

const (
	kindModule kind = iota + 1
	kindBrowser
	kindIdentifier
	kindError
)

func (k kind) String() string {
	switch k {
	case kindModule:
		return "module"
	case kindBrowser:
		return "browser"
	case kindIdentifier:
		return "identifier"
	case kindError:
		return "error"
	default:
		return "unknown"
	}
}

// Table is a mutex-guarded handle table. Entries are stored in a dense
// slice with a free list so handles stay small and reusable; all access is
// synchronized, which makes dispose-vs-read races detectable rather than
// memory-unsafe.
type Table struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
}

type entry struct {
	value any
	kind  kind
	valid bool
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

func (t *Table) create(k kind, value any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := entry{kind: k, value: value, valid: true}

	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

// get retrieves a live value by handle, checking the kind tag.
func (t *Table) get(k kind, h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.kind != k {
		return nil, false
	}
	return e.value, true
}

// take atomically removes a live entry and returns its value. This is the
// consume primitive: after take the handle is invalid and a second take
// (or any other use) observes a dead handle.
func (t *Table) take(k kind, h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.kind != k {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	t.freeList = append(t.freeList, h)
	return value, true
}

// Close invalidates every live handle. Double close is a no-op.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		t.entries[i].valid = false
		t.entries[i].value = nil
	}
	t.entries = t.entries[:0]
	t.freeList = t.freeList[:0]
}

// Len returns the number of live handles, for leak checks in tests and
// embedders.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}
