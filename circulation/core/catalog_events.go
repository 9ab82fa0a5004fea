package core

import (
	"time"
)

// ItemAddedToCatalogEventType is the event type identifier.
const ItemAddedToCatalogEventType = "ItemAddedToCatalog"

// ItemAddedToCatalog represents when an item was added to the catalog.
type ItemAddedToCatalog struct {
	ItemID     ItemIDString
	Title      string
	Author     string
	OccurredAt OccurredAt
}

// BuildItemAddedToCatalog creates a new ItemAddedToCatalog event.
func BuildItemAddedToCatalog(itemID ItemIDString, title string, author string, occurredAt time.Time) ItemAddedToCatalog {
	return ItemAddedToCatalog{
		ItemID:     itemID,
		Title:      title,
		Author:     author,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemAddedToCatalog) IsEventType() string {
	return ItemAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemAddedToCatalog) IsErrorEvent() bool {
	return false
}

// ItemRemovedFromCatalogEventType is the event type identifier.
const ItemRemovedFromCatalogEventType = "ItemRemovedFromCatalog"

// ItemRemovedFromCatalog represents when an available item was removed from the catalog.
type ItemRemovedFromCatalog struct {
	ItemID     ItemIDString
	OccurredAt OccurredAt
}

// BuildItemRemovedFromCatalog creates a new ItemRemovedFromCatalog event.
func BuildItemRemovedFromCatalog(itemID ItemIDString, occurredAt time.Time) ItemRemovedFromCatalog {
	return ItemRemovedFromCatalog{
		ItemID:     itemID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e ItemRemovedFromCatalog) IsEventType() string {
	return ItemRemovedFromCatalogEventType
}

func (e ItemRemovedFromCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ItemRemovedFromCatalog) IsErrorEvent() bool {
	return false
}
