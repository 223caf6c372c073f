package ecs

import "reflect"

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage owns a registry, so several worlds can coexist without sharing state.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers a component type with the given registry.
// Every type passed to Spawn or AddComponent must be registered first.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory := r.factories[t]
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

const blockSize = 64

// column holds the values of one component type for every slot of an archetype.
// Slot bookkeeping lives in the archetype; a column only stores values.
type column interface {
	set(slot int, item any) bool
	get(slot int) any
	zero(slot int)
}

// blockColumn stores values in fixed-size blocks. Blocks are heap allocated
// individually so that pointers handed out by get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
}

func (c *blockColumn[T]) set(slot int, item any) bool {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return false
	}

	block := slot / blockSize
	for block >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[block][slot%blockSize] = value
	return true
}

func (c *blockColumn[T]) get(slot int) any {
	block := slot / blockSize
	if slot < 0 || block >= len(c.blocks) {
		return nil
	}
	return &c.blocks[block][slot%blockSize]
}

func (c *blockColumn[T]) zero(slot int) {
	block := slot / blockSize
	if slot < 0 || block >= len(c.blocks) {
		return
	}
	var zero T
	c.blocks[block][slot%blockSize] = zero
}
