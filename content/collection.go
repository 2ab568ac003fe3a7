package content

// Collection is an insertion-ordered list of items of one kind. Published
// collections are treated as immutable; helpers return new slices.
type Collection []Item

// IDs returns the item identifiers in order.
func (c Collection) IDs() []ID {
	ids := make([]ID, 0, len(c))
	for _, item := range c {
		ids = append(ids, item.Metadata().ID)
	}
	return ids
}

// Clone returns a shallow copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Find returns the first item with id.
func (c Collection) Find(id ID) (Item, bool) {
	for _, item := range c {
		if item.Metadata().ID == id {
			return item, true
		}
	}
	return nil, false
}

// Filter returns the items of concrete type T in order.
func Filter[T Item](c Collection) []T {
	out := make([]T, 0, len(c))
	for _, item := range c {
		if typed, ok := item.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// Of converts typed items into a Collection.
func Of[T Item](items ...T) Collection {
	out := make(Collection, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
