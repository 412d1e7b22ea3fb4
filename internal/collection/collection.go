// Package collection implements the saved-items collection: an ordered,
// id-deduplicated list of media items kept in sync with a durable store.
//
// Collection values are immutable snapshots. Add and Remove never modify
// their input; they return a new Collection. Manager owns the current
// snapshot and writes it to the store after every mutation that changed it.
package collection

import (
	"encoding/json"

	"github.com/ytget/pixhub/internal/model"
)

// Collection is an ordered sequence of media items with unique ids, most
// recently added last.
type Collection struct {
	items []model.MediaItem
}

// Empty returns a collection with no items.
func Empty() Collection {
	return Collection{}
}

// Of builds a collection from items, keeping the first occurrence of each id.
func Of(items ...model.MediaItem) Collection {
	c := Empty()
	for _, item := range items {
		c, _ = Add(c, item)
	}
	return c
}

// Len returns the number of items.
func (c Collection) Len() int {
	return len(c.items)
}

// Items returns a copy of the items in insertion order.
func (c Collection) Items() []model.MediaItem {
	out := make([]model.MediaItem, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the item ids in insertion order.
func (c Collection) IDs() []model.ItemID {
	ids := make([]model.ItemID, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ID
	}
	return ids
}

// Contains reports whether an item with id is present.
func (c Collection) Contains(id model.ItemID) bool {
	return c.indexOf(id) >= 0
}

// Get returns the item with id.
func (c Collection) Get(id model.ItemID) (model.MediaItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	return model.MediaItem{}, false
}

// SameIDs reports whether both collections hold the same ids in the same
// order. Items are opaque beyond their id, so this is the equality the
// presentation layer uses for change detection.
func (c Collection) SameIDs(other Collection) bool {
	if len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		if c.items[i].ID != other.items[i].ID {
			return false
		}
	}
	return true
}

func (c Collection) indexOf(id model.ItemID) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the collection as a JSON array.
func (c Collection) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON reads a JSON array of media items verbatim. Items are not
// re-validated and duplicates are not collapsed.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var items []model.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = items
	return nil
}

// Add appends item unless an item with the same id is already present. The
// id is the only key: an existing entry wins over a newer one that differs
// in file or title.
func Add(c Collection, item model.MediaItem) (Collection, model.Outcome) {
	if c.Contains(item.ID) {
		return c, model.AlreadyExists
	}
	items := make([]model.MediaItem, len(c.items), len(c.items)+1)
	copy(items, c.items)
	return Collection{items: append(items, item)}, model.Added
}

// Remove returns the collection without the item whose id matches. Removing
// an absent id returns an equal collection.
func Remove(c Collection, id model.ItemID) Collection {
	items := make([]model.MediaItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	return Collection{items: items}
}
