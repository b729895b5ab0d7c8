// Package arena provides stable-identity storage for mesh entities.
// An Arena hands out opaque Handles on insert and resolves them in O(1).
// Handles are tagged with the identity of the arena that issued them, so
// a handle from one arena (or one mesh) is rejected by every other arena
// instead of silently aliasing an unrelated record.
package arena

import (
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
)

// ErrInvalidHandle is returned when a handle was not issued by the arena
// it is presented to, or is the zero handle.
var ErrInvalidHandle = errors.New("arena: invalid handle")

// storeTags issues a unique nonzero tag per arena for the lifetime of
// the process.
var storeTags atomic.Uint32

// Handle is an opaque, comparable identifier for one entity in one arena.
// The zero Handle refers to nothing and is used as a sentinel.
type Handle struct {
	idx   uint32 // 1-based slot number; 0 means nil
	store uint32 // tag of the issuing arena
}

// IsNil reports whether the handle is the zero sentinel.
func (h Handle) IsNil() bool {
	return h.idx == 0
}

// Index returns the dense insertion position of the handle within its
// arena, or -1 for the nil handle. Adapters use it to map entities onto
// contiguous external indices.
func (h Handle) Index() int {
	if h.IsNil() {
		return -1
	}
	return int(h.idx - 1)
}

func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d", h.idx-1)
}

// Arena is append-only indexed storage for values of type T. It knows
// nothing about what the values mean; relations between entities live in
// the records themselves, as handles.
type Arena[T any] struct {
	store uint32
	items []T
}

// New creates an empty arena with a process-unique store tag.
func New[T any]() *Arena[T] {
	return &Arena[T]{store: storeTags.Add(1)}
}

// Insert stores v and returns its handle. Handles are never reused.
func (a *Arena[T]) Insert(v T) Handle {
	a.items = append(a.items, v)
	return Handle{idx: uint32(len(a.items)), store: a.store}
}

// Get resolves a handle to a pointer at the stored record. It returns
// ErrInvalidHandle if the handle is nil, out of range, or was issued by
// a different arena.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	if h.IsNil() || h.store != a.store || int(h.idx) > len(a.items) {
		return nil, fmt.Errorf("%w: %s (store %d)", ErrInvalidHandle, h, h.store)
	}
	return &a.items[h.idx-1], nil
}

// MustGet is Get for handles the caller knows are live. It panics on an
// invalid handle.
func (a *Arena[T]) MustGet(h Handle) *T {
	p, err := a.Get(h)
	if err != nil {
		panic(err)
	}
	return p
}

// Contains reports whether h is a live handle of this arena.
func (a *Arena[T]) Contains(h Handle) bool {
	return !h.IsNil() && h.store == a.store && int(h.idx) <= len(a.items)
}

// Len returns the number of stored records.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// At returns the handle for the i-th inserted record.
// It panics if i is out of range.
func (a *Arena[T]) At(i int) Handle {
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("arena: index %d out of range [0,%d)", i, len(a.items)))
	}
	return Handle{idx: uint32(i + 1), store: a.store}
}

// Handles returns all live handles in insertion order.
func (a *Arena[T]) Handles() []Handle {
	hs := make([]Handle, len(a.items))
	for i := range a.items {
		hs[i] = Handle{idx: uint32(i + 1), store: a.store}
	}
	return hs
}

// All iterates over handle/record pairs in insertion order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.items {
			if !yield(Handle{idx: uint32(i + 1), store: a.store}, &a.items[i]) {
				return
			}
		}
	}
}
