package walkthrough

// Pager walks an ordered collection one item at a time, forward only.
// The index never leaves [0, Len()-1]; on an empty collection it stays 0
// and Current reports no item.
type Pager[T any] struct {
	items []T
	index int
}

// NewPager returns a pager positioned on the first item.
func NewPager[T any](items []T) *Pager[T] {
	return &Pager[T]{items: items}
}

// Len returns the number of items.
func (p *Pager[T]) Len() int { return len(p.items) }

// Index returns the zero-based position of the current item.
func (p *Pager[T]) Index() int { return p.index }

// Current returns the item at the current position.
func (p *Pager[T]) Current() (T, bool) {
	if p.index < len(p.items) {
		return p.items[p.index], true
	}
	var zero T
	return zero, false
}

// CanNext reports whether another item follows the current one.
func (p *Pager[T]) CanNext() bool {
	return p.index+1 < len(p.items)
}

// Next moves to the following item. At the last item it does nothing and
// returns false.
func (p *Pager[T]) Next() bool {
	if !p.CanNext() {
		return false
	}
	p.index++
	return true
}

// Reset moves back to the first item.
func (p *Pager[T]) Reset() { p.index = 0 }
