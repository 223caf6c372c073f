package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides typed access to a single component instance that is not
// attached to an entity. Use it for world-wide state such as clocks,
// configuration or event buffers. Systems may declare Singleton fields; the
// Scheduler binds them on Register.
type Singleton[T any] struct {
	storage *Storage
	dataPtr unsafe.Pointer
}

// NewSingleton returns an accessor for the singleton of type T, creating it
// from initializer (or the zero value) when storage does not hold one yet.
// An initializer passed for an existing singleton is ignored.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. Called by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.dataPtr = nil
	s.refresh()
}

// Get returns a pointer to the singleton, or nil if it has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.dataPtr == nil {
		s.refresh()
	}
	return (*T)(s.dataPtr)
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.dataPtr = entry.dataPtr
	}
}
