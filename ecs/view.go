package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

// View represents a query for entities with a specific combination of components.
// T must be a struct whose fields are pointers to component types. A field of
// type EntityId receives the id of the entity. Named pointer fields can be
// marked optional with the `ecs:"optional"` tag; embedded fields are always required.
type View[T any] struct {
	storage  *Storage
	fields   []viewField
	idOffset uintptr
	hasId    bool
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types or EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		v.fields = append(v.fields, viewField{
			typ:      field.Type.Elem(),
			offset:   field.Offset,
			optional: optional,
		})
	}

	return v
}

// Fill populates the provided struct pointer with component data for the given entity.
// It returns false if the entity is gone or missing any required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.live(int(id.Index())) || !v.matches(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columnIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// Iter yields a populated view struct for every matching entity.
func (v *View[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.All() {
			if !yield(item) {
				return
			}
		}
	}
}

// All yields (EntityId, T) pairs for every matching entity, archetypes in creation order.
func (v *View[T]) All() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.order {
			if archetype.count == 0 || !v.matches(archetype) {
				continue
			}

			indices := v.columnIndices(archetype)
			for slot := range archetype.slots() {
				var result T
				if !v.populate(unsafe.Pointer(&result), archetype, slot, indices) {
					continue
				}
				if !yield(NewEntityId(archetype.id, uint32(slot)), result) {
					return
				}
			}
		}
	}
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for _, archetype := range v.storage.order {
		if v.matches(archetype) {
			n += archetype.count
		}
	}
	return n
}

// matches checks if an archetype contains every required component type of the view
func (v *View[T]) matches(archetype *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.fields))
	for i, f := range v.fields {
		indices[i] = archetype.columnIndex(f.typ)
	}
	return indices
}

func (v *View[T]) populate(base unsafe.Pointer, archetype *Archetype, slot int, indices []int) bool {
	for i, idx := range indices {
		fieldPtr := (*unsafe.Pointer)(unsafe.Add(base, v.fields[i].offset))
		if idx < 0 {
			if !v.fields[i].optional {
				return false
			}
			*fieldPtr = nil
			continue
		}
		*fieldPtr = reflect.ValueOf(archetype.columns[idx].get(slot)).UnsafePointer()
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(base, v.idOffset)) = NewEntityId(archetype.id, uint32(slot))
	}
	return true
}
