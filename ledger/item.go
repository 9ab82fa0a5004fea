package ledger

// Item is a catalog entry representing one physical unit available for loan.
// Only the availability flag ever changes, and only through the Engine.
type Item struct {
	title     string
	author    string
	id        ItemID
	available bool
}

func newItem(title, author string, id ItemID) *Item {
	return &Item{
		title:     title,
		author:    author,
		id:        id,
		available: true,
	}
}

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// Author returns the display author.
func (i *Item) Author() string { return i.author }

// ID returns the identifier.
func (i *Item) ID() ItemID { return i.id }

// Available reports whether the item is on the shelf.
func (i *Item) Available() bool { return i.available }

// View returns a detached copy of the item's current state.
func (i *Item) View() ItemView {
	return ItemView{
		Title:     i.title,
		Author:    i.author,
		ID:        i.id,
		Available: i.available,
	}
}

// ItemView is a read-only copy of an Item.
type ItemView struct {
	Title     string
	Author    string
	ID        ItemID
	Available bool
}
