package ledger

import "slices"

// Catalog owns the items of the library, keyed by a unique identifier.
// Iteration follows the order in which items were added.
type Catalog struct {
	items map[ItemID]*Item
	order []ItemID
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		items: make(map[ItemID]*Item),
		order: make([]ItemID, 0),
	}
}

// Add inserts a new, available item.
// It fails with ErrDuplicateIdentifier if the identifier is already present.
func (c *Catalog) Add(title, author string, id ItemID) error {
	if _, exists := c.items[id]; exists {
		return duplicateIdentifier("item", id)
	}

	c.items[id] = newItem(title, author, id)
	c.order = append(c.order, id)

	return nil
}

// Remove deletes an item that is on the shelf.
// It fails with ErrItemNotFound if absent and with ErrItemOnLoan if currently borrowed.
func (c *Catalog) Remove(id ItemID) error {
	item, exists := c.items[id]
	if !exists {
		return itemNotFound(id)
	}

	if !item.available {
		return ErrItemOnLoan
	}

	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(candidate ItemID) bool { return candidate == id })

	return nil
}

// Find looks up an item without side effects.
func (c *Catalog) Find(id ItemID) (*Item, bool) {
	item, exists := c.items[id]
	return item, exists
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns the items in registration order.
func (c *Catalog) All() []*Item {
	all := make([]*Item, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.items[id])
	}

	return all
}
