package ecs

import (
	"hash/fnv"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Archetype stores every entity that has exactly the same set of component types.
// Slots are stable for the lifetime of an entity; freed slots are reused by later spawns.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	alive   []bool
	free    []int
	count   int
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
	}
	return a
}

// ID returns the archetype's identifier, the upper half of its entities' ids.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of this archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return a.count
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// Iter yields the ids of all live entities in slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot := range a.slots() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}

func (a *Archetype) slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		// alive may grow while iterating; entities spawned mid-iteration are skipped.
		n := len(a.alive)
		for slot := 0; slot < n; slot++ {
			if a.alive[slot] && !yield(slot) {
				return
			}
		}
	}
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

func (a *Archetype) live(slot int) bool {
	return slot >= 0 && slot < len(a.alive) && a.alive[slot]
}

func (a *Archetype) spawn(components []any) uint32 {
	var slot int
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[slot] = true
	} else {
		slot = len(a.alive)
		a.alive = append(a.alive, true)
	}

	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx < 0 || !a.columns[idx].set(slot, comp) {
			panic("component " + reflect.TypeOf(comp).String() + " does not belong to archetype")
		}
	}

	a.count++
	return uint32(slot)
}

func (a *Archetype) component(slot int, t reflect.Type) any {
	if !a.live(slot) {
		return nil
	}
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].get(slot)
}

func (a *Archetype) remove(slot int) bool {
	if !a.live(slot) {
		return false
	}
	for _, c := range a.columns {
		c.zero(slot)
	}
	a.alive[slot] = false
	a.free = append(a.free, slot)
	a.count--
	return true
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t == nil {
		panic("nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return t
}

// sortTypes orders component types by name so that equal sets hash equally.
func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(typeKey(a), typeKey(b))
	})
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

// hashTypes derives an archetype id from a sorted type set with FNV-1a.
func hashTypes(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(typeKey(t)))
		h.Write([]byte{0})
	}
	id := h.Sum32()
	if id == 0 {
		id = 1
	}
	return id
}
