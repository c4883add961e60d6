package source

import "slices"

// Slice is an in-memory DataSource. Its mutators return the Change to hand
// to the grid.
type Slice[T any] struct {
	items []T
}

func NewSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{items: items}
}

func (s *Slice[T]) Count() int { return len(s.items) }

func (s *Slice[T]) Item(index int) any { return s.items[index] }

func (s *Slice[T]) At(index int) T { return s.items[index] }

func (s *Slice[T]) IndexOf(item any) int {
	for i, v := range s.items {
		if SameItem(any(v), item) {
			return i
		}
	}
	return -1
}

func (s *Slice[T]) Insert(index int, items ...T) Change {
	s.items = slices.Insert(s.items, index, items...)
	return Change{Kind: ChangeAdd, Index: index, Count: len(items)}
}

func (s *Slice[T]) Append(items ...T) Change {
	return s.Insert(len(s.items), items...)
}

func (s *Slice[T]) Remove(index, count int) Change {
	s.items = slices.Delete(s.items, index, index+count)
	return Change{Kind: ChangeRemove, Index: index, Count: count}
}

func (s *Slice[T]) Replace(index int, item T) Change {
	s.items[index] = item
	return Change{Kind: ChangeReplace, Index: index, Count: 1}
}

func (s *Slice[T]) Move(from, to int) Change {
	item := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, item)
	return Change{Kind: ChangeMove, Index: to, OldIndex: from, Count: 1}
}

func (s *Slice[T]) Reset(items ...T) Change {
	s.items = items
	return Change{Kind: ChangeReset}
}
