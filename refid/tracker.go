// Package refid implements the reference-identity tracker used when a
// serializer has reference preservation enabled: it replaces repeated
// occurrences of the same object with a backward index to the first
// occurrence, so shared references in an object graph round-trip without
// duplication. Cycles are not resolved: the parent package's
// reference-tracking converter registers an object only after it has been
// read in full, so a reference back to an object still being read finds no
// entry.
package refid

import (
	"reflect"
	"sync"
)

// Tracker is per-call state: on the write side it remembers which
// identities have already been emitted; on the read side it remembers
// which backref index corresponds to which freshly constructed object.
// A Tracker must not be shared across concurrent serialization calls —
// acquire one per call via Acquire and give it back via Release.
type Tracker struct {
	seen    map[uintptr]int
	next    int
	objects []any
}

func newTracker() *Tracker {
	return &Tracker{seen: map[uintptr]int{}}
}

// reset clears a Tracker for reuse, dropping every reference it holds so
// the pool never keeps large object graphs alive past their call.
func (t *Tracker) reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
	t.next = 0
	t.objects = t.objects[:0]
}

// identity returns the pointer identity of v and whether v is of a kind
// that has one (pointer, map, chan, func, unsafe pointer, or slice).
// Reference preservation is only meaningful for reference-typed values;
// callers should not invoke CheckWrite/RegisterRead for anything else.
func identity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

// CheckWrite records v's first occurrence and returns (0, false) for it;
// on every subsequent call for the same identity it returns the backref
// index assigned at first occurrence and true. ok is false when v has no
// stable pointer identity (reference preservation does not apply to it;
// the caller should write it as a normal payload every time).
func (t *Tracker) CheckWrite(v any) (idx int, seen bool, ok bool) {
	id, has := identity(v)
	if !has {
		return 0, false, false
	}
	if idx, already := t.seen[id]; already {
		return idx, true, true
	}
	idx = t.next
	t.next++
	t.seen[id] = idx
	return idx, false, true
}

// RegisterRead records obj as the object constructed for the current
// position, returning the backref index later reads can use to resolve
// against it. Call this before descending into obj's fields so a
// self-referential field read part-way through construction still
// resolves.
func (t *Tracker) RegisterRead(obj any) int {
	idx := len(t.objects)
	t.objects = append(t.objects, obj)
	return idx
}

// Resolve returns the object registered under idx, if any.
func (t *Tracker) Resolve(idx int) (any, bool) {
	if idx < 0 || idx >= len(t.objects) {
		return nil, false
	}
	return t.objects[idx], true
}

var pool struct {
	mu    sync.Mutex
	stack []*Tracker
}

// Acquire takes a cleared Tracker from the pool, allocating a new one if
// the pool is empty.
func Acquire() *Tracker {
	pool.mu.Lock()
	n := len(pool.stack)
	if n == 0 {
		pool.mu.Unlock()
		return newTracker()
	}
	t := pool.stack[n-1]
	pool.stack = pool.stack[:n-1]
	pool.mu.Unlock()
	return t
}

// Release clears t and returns it to the pool.
func Release(t *Tracker) {
	if t == nil {
		return
	}
	t.reset()
	pool.mu.Lock()
	pool.stack = append(pool.stack, t)
	pool.mu.Unlock()
}
