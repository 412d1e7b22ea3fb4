// Package gallery holds the state behind the gallery screens and turns user
// intents into catalog calls, collection changes and notifications.
//
// Every state change happens on the events.Loop the session was created
// with. Intent methods may be called from any goroutine; they post to the
// loop and return immediately. Network calls run on their own goroutines
// and post their completion back to the loop. There is no cancellation: the
// response that arrives last wins.
package gallery

import (
	"context"
	"errors"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/collection"
	"github.com/ytget/pixhub/internal/download"
	"github.com/ytget/pixhub/internal/events"
	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/notify"
	"github.com/ytget/pixhub/internal/upload"
)

// User-facing messages
const (
	MsgAdded              = "Image added to collection"
	MsgAlreadyAdded       = "Image already added to collection"
	MsgRemoved            = "Item removed from collection"
	MsgDownloadFailed     = "Failed to download file"
	MsgUploadOK           = "Upload Successful!"
	MsgUploadFailed       = "Failed to upload. Please try again."
	MsgCategoriesFailed   = "Failed to fetch categories."
	MsgMediaItemsFailed   = "Failed to fetch media items."
	MsgCollectionNotSaved = "Saved collection could not be written."
)

// BackToTopThreshold is the scroll offset past which the back-to-top button
// is shown.
const BackToTopThreshold float32 = 200

var topics = []string{
	"nature", "travel", "city", "car", "fashion", "india", "technology",
	"finance", "sports", "entertainment", "dubai", "love", "animals",
}

// Topics returns the preset search chips.
func Topics() []string {
	return append([]string(nil), topics...)
}

// Options wires a Session to its collaborators.
type Options struct {
	Loop      *events.Loop
	Catalog   catalog.Catalog
	Manager   *collection.Manager
	Notifier  notify.Publisher
	Downloads download.Downloader // optional

	InitialSearch  string
	ContentType    model.MediaType
	SearchDebounce time.Duration
}

// Session is the gallery state machine.
type Session struct {
	loop      *events.Loop
	catalog   catalog.Catalog
	manager   *collection.Manager
	notifier  notify.Publisher
	downloads download.Downloader
	debounced func(func())
	log       *logrus.Entry

	// owned by the loop goroutine
	state     State
	listeners []func(State)
	removed   map[string]struct{}

	published publishedState
}

// NewSession creates a session. Nothing is fetched until Start.
func NewSession(opts Options) *Session {
	contentType := opts.ContentType
	if !contentType.Valid() {
		contentType = model.MediaTypeImage
	}
	wait := opts.SearchDebounce
	if wait <= 0 {
		wait = time.Millisecond
	}

	s := &Session{
		loop:      opts.Loop,
		catalog:   opts.Catalog,
		manager:   opts.Manager,
		notifier:  opts.Notifier,
		downloads: opts.Downloads,
		debounced: debounce.New(wait),
		log:       logrus.WithField("component", "gallery"),
		removed:   make(map[string]struct{}),
		state: State{
			SearchText:  opts.InitialSearch,
			ContentType: contentType,
			Items:       []model.MediaItem{},
			Saved:       collection.Empty(),
		},
	}
	s.published.set(s.state.clone())

	if s.downloads != nil {
		s.downloads.SetUpdateCallback(s.onDownloadUpdate)
	}
	return s
}

// Start loads the saved collection, the categories and the first listing.
func (s *Session) Start() {
	s.post("start", func() {
		s.state.Saved = s.manager.Initialize()
		s.changed()
		s.fetchCategories()
		s.fetchItems()
	})
}

// OnChange registers fn to be called on the loop goroutine after every
// state change.
func (s *Session) OnChange(fn func(State)) {
	s.post("subscribe", func() {
		s.listeners = append(s.listeners, fn)
		fn(s.state.clone())
	})
}

// State returns the most recently published state. Safe from any goroutine.
func (s *Session) State() State {
	return s.published.get()
}

// Search sets the query as the user types; the refetch is debounced.
func (s *Session) Search(text string) {
	s.post("search", func() {
		s.state.SearchText = text
		s.changed()
	})
	s.debounced(func() {
		s.post("search-debounced", s.fetchItems)
	})
}

// OnTranscript handles a recognized voice query. It fetches immediately.
func (s *Session) OnTranscript(text string) {
	s.post("transcript", func() {
		s.state.SearchText = text
		s.changed()
		s.fetchItems()
	})
}

// SearchTopic runs a preset topic search immediately.
func (s *Session) SearchTopic(topic string) {
	s.OnTranscript(topic)
}

// ClearSearch empties the query and refetches.
func (s *Session) ClearSearch() {
	s.OnTranscript("")
}

// SetContentType switches between images and videos and refetches.
func (s *Session) SetContentType(mt model.MediaType) {
	if !mt.Valid() {
		return
	}
	s.post("content-type", func() {
		if s.state.ContentType == mt {
			return
		}
		s.state.ContentType = mt
		s.changed()
		s.fetchItems()
	})
}

// Refresh refetches the listing for the current query.
func (s *Session) Refresh() {
	s.post("refresh", s.fetchItems)
}

// LoadCategories refetches the category list.
func (s *Session) LoadCategories() {
	s.post("categories", s.fetchCategories)
}

// OnScrollThreshold sets the back-to-top visibility.
func (s *Session) OnScrollThreshold(visible bool) {
	s.post("scroll-threshold", func() {
		if s.state.BackToTopVisible == visible {
			return
		}
		s.state.BackToTopVisible = visible
		s.changed()
	})
}

// OnScroll converts a scroll offset into OnScrollThreshold.
func (s *Session) OnScroll(offsetY float32) {
	s.OnScrollThreshold(offsetY > BackToTopThreshold)
}

// Save adds item to the saved collection.
func (s *Session) Save(item model.MediaItem) {
	s.post("save", func() {
		saved, outcome, err := s.manager.Add(item)
		s.state.Saved = saved
		switch outcome {
		case model.Added:
			s.changed()
			s.notify(notify.Success, MsgAdded)
		case model.AlreadyExists:
			s.notify(notify.Info, MsgAlreadyAdded)
		}
		if err != nil {
			s.notify(notify.Error, MsgCollectionNotSaved)
		}
	})
}

// Remove deletes id from the saved collection.
func (s *Session) Remove(id model.ItemID) {
	s.post("remove", func() {
		saved, err := s.manager.Remove(id)
		s.state.Saved = saved
		s.changed()
		s.notify(notify.Info, MsgRemoved)
		if err != nil {
			s.notify(notify.Error, MsgCollectionNotSaved)
		}
	})
}

// Download saves the item's asset to the download directory.
func (s *Session) Download(item model.MediaItem) {
	s.post("download", func() {
		if s.downloads == nil {
			s.notify(notify.Error, MsgDownloadFailed)
			return
		}
		task, err := s.downloads.AddTask(item)
		if err != nil {
			s.log.WithError(err).WithField("item", item.ID.String()).Warn("Download not started")
			s.notify(notify.Error, MsgDownloadFailed)
			return
		}
		s.upsertDownload(task)
		s.changed()
	})
}

// StopDownload stops a pending or running download.
func (s *Session) StopDownload(taskID string) {
	s.post("download-stop", func() {
		if s.downloads == nil {
			return
		}
		if err := s.downloads.StopTask(taskID); err != nil {
			s.log.WithError(err).WithField("task", taskID).Debug("Stop ignored")
		}
	})
}

// RemoveDownload forgets a download, stopping it first when needed. The
// file on disk is left alone.
func (s *Session) RemoveDownload(taskID string) {
	s.post("download-remove", func() {
		if s.downloads != nil {
			if err := s.downloads.RemoveTask(taskID); err != nil {
				s.log.WithError(err).WithField("task", taskID).Debug("Remove ignored")
			}
		}
		kept := s.state.Downloads[:0]
		for _, task := range s.state.Downloads {
			if task.ID != taskID {
				kept = append(kept, task)
			}
		}
		s.state.Downloads = kept
		s.removed[taskID] = struct{}{}
		s.changed()
	})
}

// Upload validates form and submits it. Validation problems are reported
// through the returned channel and the state; nothing is sent for them.
func (s *Session) Upload(form upload.Form) <-chan error {
	result := make(chan error, 1)
	s.post("upload", func() {
		if err := form.Validate(); err != nil {
			s.state.UploadError = err.Error()
			s.changed()
			result <- err
			return
		}
		s.state.Uploading = true
		s.state.UploadError = ""
		s.changed()

		go func() {
			created, err := upload.Submit(context.Background(), s.catalog, form)
			s.post("upload-done", func() {
				s.state.Uploading = false
				switch {
				case errors.Is(err, upload.ErrValidation):
					s.state.UploadError = err.Error()
				case err != nil:
					s.log.WithError(err).Warn("Upload failed")
					s.state.UploadError = MsgUploadFailed
					s.notify(notify.Error, MsgUploadFailed)
				default:
					s.log.WithField("id", created.ID.String()).Info("Upload finished")
					s.notify(notify.Success, MsgUploadOK)
					s.fetchItems()
				}
				s.changed()
				result <- err
			})
		}()
	})
	return result
}

func (s *Session) fetchItems() {
	query, mediaType := s.state.SearchText, s.state.ContentType
	s.state.Loading = true
	s.changed()

	go func() {
		items, err := s.catalog.MediaItems(context.Background(), catalog.ListFilter{MediaType: mediaType})
		s.post("items-loaded", func() {
			s.state.Loading = false
			if err != nil {
				s.log.WithError(err).Warn("Fetching media items failed")
				s.state.Error = MsgMediaItemsFailed
				s.changed()
				s.notify(notify.Error, MsgMediaItemsFailed)
				return
			}
			s.state.Error = ""
			s.state.Items = collection.FilterSlice(items, query)
			s.state.ItemsQuery = query
			s.state.ItemsType = mediaType
			s.changed()
		})
	}()
}

func (s *Session) fetchCategories() {
	go func() {
		cats, err := s.catalog.Categories(context.Background())
		s.post("categories-loaded", func() {
			if err != nil {
				s.log.WithError(err).Warn("Fetching categories failed")
				s.state.Error = MsgCategoriesFailed
				s.changed()
				s.notify(notify.Error, MsgCategoriesFailed)
				return
			}
			s.state.Categories = cats
			s.changed()
		})
	}()
}

func (s *Session) onDownloadUpdate(task model.DownloadTask) {
	s.post("download-update", func() {
		if _, gone := s.removed[task.ID]; gone {
			return
		}
		s.upsertDownload(task)
		s.changed()
		if task.Status == model.TaskStatusError {
			s.notify(notify.Error, MsgDownloadFailed)
		}
	})
}

func (s *Session) upsertDownload(task model.DownloadTask) {
	for i := range s.state.Downloads {
		if s.state.Downloads[i].ID == task.ID {
			// Updates from the transfer goroutine may arrive out of order.
			if s.state.Downloads[i].Status.IsFinished() && !task.Status.IsFinished() {
				return
			}
			s.state.Downloads[i] = task
			return
		}
	}
	s.state.Downloads = append(s.state.Downloads, task)
}

func (s *Session) notify(level notify.Level, msg string) {
	if s.notifier != nil {
		s.notifier.Publish(level, msg)
	}
}

func (s *Session) changed() {
	snapshot := s.state.clone()
	s.published.set(snapshot)
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

func (s *Session) post(name string, fn func()) {
	if _, err := s.loop.Post(name, fn); err != nil {
		s.log.WithField("event", name).Debug("Dropped event after shutdown")
	}
}
