package collection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/store"
)

// ErrPersist is returned, wrapped, when the collection could not be written
// to the store. The in-memory state keeps the mutation.
var ErrPersist = errors.New("persist saved collection")

// Manager owns the current collection snapshot and keeps it consistent with
// the durable store. It is not safe for concurrent use; callers run it on a
// single event loop.
type Manager struct {
	store   store.Store
	key     string
	current Collection
	log     *logrus.Entry
}

// NewManager creates a manager over s using the fixed collection key. Call
// Initialize before using it.
func NewManager(s store.Store) *Manager {
	return &Manager{
		store: s,
		key:   store.KeySavedCollection,
		log:   logrus.WithField("component", "collection"),
	}
}

// Initialize reads the collection from the store. An absent or unparsable
// value yields an empty collection. Initialization never writes to the
// store, even when the result is empty.
func (m *Manager) Initialize() Collection {
	m.current = Load(m.store, m.key)
	m.log.WithField("items", m.current.Len()).Debug("Saved collection loaded")
	return m.current
}

// Load reads the collection stored under key.
func Load(s store.Store, key string) Collection {
	raw, ok := s.Get(key)
	if !ok {
		return Empty()
	}

	var c Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("Stored collection is malformed, starting empty")
		return Empty()
	}
	return c
}

// Snapshot returns the current collection.
func (m *Manager) Snapshot() Collection {
	return m.current
}

// Contains reports whether id is saved.
func (m *Manager) Contains(id model.ItemID) bool {
	return m.current.Contains(id)
}

// Add saves item. AlreadyExists leaves the collection and the store
// untouched; Added persists the new collection.
func (m *Manager) Add(item model.MediaItem) (Collection, model.Outcome, error) {
	next, outcome := Add(m.current, item)
	if outcome == model.AlreadyExists {
		m.log.WithField("id", item.ID.String()).Debug("Item already saved")
		return m.current, outcome, nil
	}

	m.current = next
	m.log.WithField("id", item.ID.String()).Info("Item saved")
	return m.current, outcome, m.Persist(m.current)
}

// Remove deletes the item with id and persists the result, also when id was
// not saved.
func (m *Manager) Remove(id model.ItemID) (Collection, error) {
	m.current = Remove(m.current, id)
	m.log.WithField("id", id.String()).Info("Item removed")
	return m.current, m.Persist(m.current)
}

// Persist writes c to the store under the fixed key.
func (m *Manager) Persist(c Collection) error {
	data, err := json.Marshal(c)
	if err != nil {
		m.log.WithError(err).Error("Failed to serialize saved collection")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := m.store.Set(m.key, string(data)); err != nil {
		m.log.WithError(err).Error("Failed to write saved collection")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
