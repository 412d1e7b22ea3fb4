package collection

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/store"
)

func item(id int64, title string) model.MediaItem {
	return model.MediaItem{ID: model.IntID(id), Title: title, MediaType: model.MediaTypeImage}
}

func TestAdd_DedupInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := Empty()
	for i := 0; i < 500; i++ {
		c, _ = Add(c, item(rng.Int63n(40), "x"))
	}

	seen := make(map[model.ItemID]bool)
	for _, id := range c.IDs() {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.LessOrEqual(t, c.Len(), 40)
}

func TestAdd_ExistingIDKeepsOriginal(t *testing.T) {
	c := Of(item(1, "Cat"))

	next, outcome := Add(c, model.MediaItem{ID: model.IntID(1), Title: "Dog", File: "/dog.jpg"})
	assert.Equal(t, model.AlreadyExists, outcome)
	assert.Equal(t, c.Items(), next.Items())

	got, ok := next.Get(model.IntID(1))
	require.True(t, ok)
	assert.Equal(t, "Cat", got.Title)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	base := Of(item(1, "a"))
	withTwo, outcome := Add(base, item(2, "b"))
	assert.Equal(t, model.Added, outcome)
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, []model.ItemID{model.IntID(1), model.IntID(2)}, withTwo.IDs())
}

func TestRemove(t *testing.T) {
	c := Of(item(1, "a"), item(2, "b"))

	got := Remove(c, model.IntID(1))
	assert.Equal(t, []model.ItemID{model.IntID(2)}, got.IDs())
	assert.Equal(t, 2, c.Len(), "input must be left intact")
}

func TestRemove_Idempotent(t *testing.T) {
	c := Of(item(1, "a"), item(2, "b"), item(3, "c"))
	for _, id := range []model.ItemID{model.IntID(2), model.IntID(9), model.StringID("2")} {
		once := Remove(c, id)
		twice := Remove(once, id)
		assert.Equal(t, once.Items(), twice.Items())
	}
}

func TestOf_KeepsFirstOccurrence(t *testing.T) {
	c := Of(item(1, "first"), item(2, "b"), item(1, "second"))
	assert.Equal(t, 2, c.Len())
	got, _ := c.Get(model.IntID(1))
	assert.Equal(t, "first", got.Title)
}

func TestSameIDs(t *testing.T) {
	a := Of(item(1, "a"), item(2, "b"))
	b := Of(item(1, "x"), item(2, "y"))
	assert.True(t, a.SameIDs(b))
	assert.False(t, a.SameIDs(Of(item(2, "b"), item(1, "a"))))
	assert.False(t, a.SameIDs(Empty()))
}

func TestCollection_JSON(t *testing.T) {
	data, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	var c Collection
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"title":"Cat"},{"id":"b"}]`), &c))
	assert.Equal(t, []model.ItemID{model.IntID(1), model.StringID("b")}, c.IDs())
}

func TestFilter(t *testing.T) {
	items := []model.MediaItem{item(1, "Animals"), item(2, "City lights"), item(3, "")}

	assert.Len(t, FilterSlice(items, "animal"), 1)
	assert.Len(t, FilterSlice(items, "ANIMALS"), 1)
	assert.Empty(t, FilterSlice(items, "zzz"))
	assert.NotNil(t, FilterSlice(items, "zzz"))
	assert.Len(t, FilterSlice(items, ""), 3)
	assert.Equal(t, "City lights", FilterSlice(items, "LIGHT")[0].Title)
}

func TestFilter_IsLazy(t *testing.T) {
	items := []model.MediaItem{item(1, "a1"), item(2, "a2"), item(3, "a3")}

	var first []model.ItemID
	for it := range Filter(items, "a") {
		first = append(first, it.ID)
		break
	}
	assert.Equal(t, []model.ItemID{model.IntID(1)}, first)
}

func TestManager_EmptyStore(t *testing.T) {
	s := store.NewMemory()
	m := NewManager(s)

	c := m.Initialize()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, s.Writes(), "initialize must not persist")

	c, outcome, err := m.Add(item(1, "Cat"))
	require.NoError(t, err)
	assert.Equal(t, model.Added, outcome)
	assert.Equal(t, []model.ItemID{model.IntID(1)}, c.IDs())
	assert.Equal(t, 1, s.Writes())

	raw, ok := s.Get(store.KeySavedCollection)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"title":"Cat","media_type":"image"}]`, raw)
}

func TestManager_DuplicateDoesNotPersist(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(store.KeySavedCollection, `[{"id":1}]`))
	m := NewManager(s)
	m.Initialize()
	writes := s.Writes()

	c, outcome, err := m.Add(model.MediaItem{ID: model.IntID(1)})
	require.NoError(t, err)
	assert.Equal(t, model.AlreadyExists, outcome)
	assert.Equal(t, []model.ItemID{model.IntID(1)}, c.IDs())
	assert.Equal(t, writes, s.Writes())
}

func TestManager_RemoveAbsentStillPersists(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(store.KeySavedCollection, `[{"id":1},{"id":2}]`))
	m := NewManager(s)
	m.Initialize()
	writes := s.Writes()

	c, err := m.Remove(model.IntID(1))
	require.NoError(t, err)
	assert.Equal(t, []model.ItemID{model.IntID(2)}, c.IDs())

	_, err = m.Remove(model.IntID(42))
	require.NoError(t, err)
	assert.Equal(t, writes+2, s.Writes())

	raw, _ := s.Get(store.KeySavedCollection)
	assert.JSONEq(t, `[{"id":2}]`, raw)
}

func TestManager_MalformedStore(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":1}`, `"text"`} {
		s := store.NewMemory()
		require.NoError(t, s.Set(store.KeySavedCollection, raw))

		m := NewManager(s)
		assert.Equal(t, 0, m.Initialize().Len(), raw)

		stored, _ := s.Get(store.KeySavedCollection)
		assert.Equal(t, raw, stored, "malformed value must be left alone until a mutation")
	}
}

func TestManager_OddItemKeepsCollection(t *testing.T) {
	const raw = `[{"id":1,"title":"Cat"},{"id":2,"title":42}]`
	s := store.NewMemory()
	require.NoError(t, s.Set(store.KeySavedCollection, raw))

	m := NewManager(s)
	loaded := m.Initialize()
	assert.Equal(t, 2, loaded.Len())

	data, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))

	_, outcome, err := m.Add(item(9, "new"))
	require.NoError(t, err)
	assert.Equal(t, model.Added, outcome)

	stored, _ := s.Get(store.KeySavedCollection)
	assert.JSONEq(t, `[{"id":1,"title":"Cat"},{"id":2,"title":42},{"id":9,"title":"new","media_type":"image"}]`, stored)
}

func TestManager_RoundTrip(t *testing.T) {
	const raw = `[{"id":1,"title":"Cat","extra":{"w":10}},{"id":"b","media_type":"video"}]`
	s := store.NewMemory()
	require.NoError(t, s.Set(store.KeySavedCollection, raw))

	m := NewManager(s)
	loaded := m.Initialize()
	require.NoError(t, m.Persist(loaded))

	stored, _ := s.Get(store.KeySavedCollection)
	assert.JSONEq(t, raw, stored)

	reloaded := NewManager(s).Initialize()
	assert.Equal(t, loaded.Items(), reloaded.Items())
}

func TestManager_Contains(t *testing.T) {
	m := NewManager(store.NewMemory())
	m.Initialize()
	_, _, err := m.Add(item(5, "x"))
	require.NoError(t, err)

	assert.True(t, m.Contains(model.IntID(5)))
	assert.False(t, m.Contains(model.StringID("5")))
	assert.Equal(t, 1, m.Snapshot().Len())
}
