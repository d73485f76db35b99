package memory

import "maps"

// table is an ordered map of records keyed by ID.
// Values are stored by copy; callers never hold references into a table.
type table[T any] struct {
	items map[string]T
	order []string // insertion order for deterministic listing
}

func newTable[T any]() *table[T] {
	return &table[T]{items: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	item, ok := t.items[id]
	return item, ok
}

func (t *table[T]) has(id string) bool {
	_, ok := t.items[id]
	return ok
}

// set inserts or overwrites an item, keeping its first insertion position
func (t *table[T]) set(id string, item T) {
	if _, exists := t.items[id]; !exists {
		t.order = append(t.order, id)
	}
	t.items[id] = item
}

// filter returns the items matching keep in insertion order
func (t *table[T]) filter(keep func(T) bool) []T {
	result := make([]T, 0)
	for _, id := range t.order {
		if item := t.items[id]; keep(item) {
			result = append(result, item)
		}
	}
	return result
}

func (t *table[T]) clone() *table[T] {
	order := make([]string, len(t.order))
	copy(order, t.order)
	return &table[T]{items: maps.Clone(t.items), order: order}
}
