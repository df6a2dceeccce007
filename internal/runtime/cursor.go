package runtime

import "github.com/aretw0/triplet/pkg/domain"

// Cursor is a bounded position over the ordered dataset. It never wraps:
// moving past either end leaves the position unchanged.
type Cursor struct {
	items []domain.Item
	i     int
}

// NewCursor creates a Cursor at position 0.
func NewCursor(items []domain.Item) *Cursor {
	return &Cursor{items: items}
}

// Len returns the dataset size.
func (c *Cursor) Len() int { return len(c.items) }

// Index returns the current position.
func (c *Cursor) Index() int { return c.i }

// Current returns the item at the current position.
func (c *Cursor) Current() (domain.Item, error) {
	if len(c.items) == 0 {
		return domain.Item{}, domain.ErrEmptyDataset
	}
	return c.items[c.i], nil
}

// HasNext reports whether Next would move.
func (c *Cursor) HasNext() bool { return c.i < len(c.items)-1 }

// HasPrev reports whether Prev would move.
func (c *Cursor) HasPrev() bool { return c.i > 0 }

// Next advances by one if possible and returns the (possibly unchanged)
// current item and whether the position moved.
func (c *Cursor) Next() (domain.Item, bool) {
	moved := c.HasNext()
	if moved {
		c.i++
	}
	item, _ := c.Current()
	return item, moved
}

// Prev is the backward counterpart of Next.
func (c *Cursor) Prev() (domain.Item, bool) {
	moved := c.HasPrev()
	if moved {
		c.i--
	}
	item, _ := c.Current()
	return item, moved
}
