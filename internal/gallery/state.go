package gallery

import (
	"sync"

	"github.com/ytget/pixhub/internal/collection"
	"github.com/ytget/pixhub/internal/model"
)

// State is an immutable snapshot of the gallery.
type State struct {
	SearchText  string
	ContentType model.MediaType

	// Items is the listing for ItemsQuery and ItemsType, which may lag
	// SearchText and ContentType while a fetch is in flight.
	Items      []model.MediaItem
	ItemsQuery string
	ItemsType  model.MediaType
	Loading    bool

	Categories []model.Category
	Saved      collection.Collection
	Downloads  []model.DownloadTask

	BackToTopVisible bool
	Uploading        bool
	UploadError      string

	// Error is the last failed fetch, cleared by the next successful listing.
	Error string
}

// IsSaved reports whether id is in the saved collection.
func (st State) IsSaved(id model.ItemID) bool {
	return st.Saved.Contains(id)
}

func (st State) clone() State {
	out := st
	out.Items = append([]model.MediaItem(nil), st.Items...)
	out.Categories = append([]model.Category(nil), st.Categories...)
	out.Downloads = append([]model.DownloadTask(nil), st.Downloads...)
	if out.Items == nil {
		out.Items = []model.MediaItem{}
	}
	return out
}

type publishedState struct {
	mu    sync.RWMutex
	state State
}

func (p *publishedState) set(st State) {
	p.mu.Lock()
	p.state = st
	p.mu.Unlock()
}

func (p *publishedState) get() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}
