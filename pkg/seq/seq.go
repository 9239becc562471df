// Package seq provides the ordered container backing every entity
// collection in the system: a resizable, index-addressable sequence
// that doubles as a FIFO queue over its front element.
//
// Nothing here is safe for concurrent use; the core assumes a single
// writer. Index violations and empty-queue dequeues are programmer
// errors and panic rather than returning an error.
package seq

import "fmt"

// List is the ordered, index-addressable view of a container.
type List[T comparable] interface {
	Add(item T)
	Insert(index int, item T)
	Get(index int) T
	Set(index int, item T) T
	RemoveAt(index int) T
	Remove(item T) bool
	IndexOf(item T) int
	Contains(item T) bool
	Len() int
	Empty() bool
	Clear()
	Sort(less func(a, b T) bool)
	Iter() *Iterator[T]
}

// Queue is the FIFO view over the front of a container.
type Queue[T comparable] interface {
	Enqueue(item T)
	Dequeue() T
	Peek() T
	Len() int
	Empty() bool
}

const defaultCapacity = 10

// Array is the single concrete container behind both List and Queue.
type Array[T comparable] struct {
	items []T
	count int
}

var (
	_ List[int]  = (*Array[int])(nil)
	_ Queue[int] = (*Array[int])(nil)
)

func New[T comparable]() *Array[T] {
	return &Array[T]{items: make([]T, defaultCapacity)}
}

// Of builds an Array pre-filled with the given items, in order.
func Of[T comparable](items ...T) *Array[T] {
	a := New[T]()
	for _, it := range items {
		a.Add(it)
	}
	return a
}

func (a *Array[T]) grow() {
	if a.count < len(a.items) {
		return
	}
	bigger := make([]T, len(a.items)*2)
	copy(bigger, a.items)
	a.items = bigger
}

func (a *Array[T]) check(index int) {
	if index < 0 || index >= a.count {
		panic(fmt.Sprintf("seq: index %d out of range [0,%d)", index, a.count))
	}
}

func (a *Array[T]) Add(item T) {
	a.grow()
	a.items[a.count] = item
	a.count++
}

// Insert places item at index, shifting later elements right.
// index == Len() appends.
func (a *Array[T]) Insert(index int, item T) {
	if index < 0 || index > a.count {
		panic(fmt.Sprintf("seq: insert index %d out of range [0,%d]", index, a.count))
	}
	a.grow()
	copy(a.items[index+1:a.count+1], a.items[index:a.count])
	a.items[index] = item
	a.count++
}

func (a *Array[T]) Get(index int) T {
	a.check(index)
	return a.items[index]
}

// Set replaces the element at index and returns the previous value.
func (a *Array[T]) Set(index int, item T) T {
	a.check(index)
	old := a.items[index]
	a.items[index] = item
	return old
}

func (a *Array[T]) RemoveAt(index int) T {
	a.check(index)
	item := a.items[index]
	copy(a.items[index:], a.items[index+1:a.count])
	var zero T
	a.items[a.count-1] = zero
	a.count--
	return item
}

// Remove deletes the first element equal to item, reporting whether
// anything was removed.
func (a *Array[T]) Remove(item T) bool {
	i := a.IndexOf(item)
	if i < 0 {
		return false
	}
	a.RemoveAt(i)
	return true
}

// IndexOf returns the index of the first element equal to item, or -1.
func (a *Array[T]) IndexOf(item T) int {
	for i := 0; i < a.count; i++ {
		if a.items[i] == item {
			return i
		}
	}
	return -1
}

func (a *Array[T]) Contains(item T) bool {
	return a.IndexOf(item) >= 0
}

func (a *Array[T]) Len() int {
	return a.count
}

func (a *Array[T]) Empty() bool {
	return a.count == 0
}

func (a *Array[T]) Clear() {
	var zero T
	for i := 0; i < a.count; i++ {
		a.items[i] = zero
	}
	a.count = 0
}

func (a *Array[T]) Enqueue(item T) {
	a.Add(item)
}

func (a *Array[T]) Dequeue() T {
	if a.count == 0 {
		panic("seq: dequeue on empty queue")
	}
	return a.RemoveAt(0)
}

func (a *Array[T]) Peek() T {
	if a.count == 0 {
		panic("seq: peek on empty queue")
	}
	return a.items[0]
}

// Sort orders the elements in place with a stable bubble sort:
// adjacent swaps only, early exit on a swap-free pass. Collections
// here are small enough that the quadratic worst case does not matter,
// and stability is relied on by the search helpers.
func (a *Array[T]) Sort(less func(x, y T) bool) {
	for end := a.count - 1; end > 0; end-- {
		swapped := false
		for i := 0; i < end; i++ {
			if less(a.items[i+1], a.items[i]) {
				a.items[i], a.items[i+1] = a.items[i+1], a.items[i]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// Values returns a copy of the live elements.
func (a *Array[T]) Values() []T {
	out := make([]T, a.count)
	copy(out, a.items[:a.count])
	return out
}

// Iterator walks an Array front to back. Each call to Iter starts a
// fresh pass; a single Iterator cannot be restarted.
type Iterator[T comparable] struct {
	a    *Array[T]
	next int
}

func (a *Array[T]) Iter() *Iterator[T] {
	return &Iterator[T]{a: a}
}

// Next advances the iterator, reporting whether an element is
// available via Value.
func (it *Iterator[T]) Next() bool {
	if it.next >= it.a.count {
		return false
	}
	it.next++
	return true
}

// Value returns the current element. It panics if Next has not been
// called or returned false.
func (it *Iterator[T]) Value() T {
	if it.next == 0 || it.next > it.a.count {
		panic("seq: iterator has no current element")
	}
	return it.a.items[it.next-1]
}
