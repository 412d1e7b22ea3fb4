package ui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotImage is returned when an asset does not sniff as an image.
var ErrNotImage = errors.New("asset is not an image")

// ThumbnailLoader fetches card images in the background and keeps them in
// memory for a while, so scrolling back and re-rendering the grid does not
// hit the network again.
type ThumbnailLoader struct {
	client *http.Client
	cache  *cache.Cache
	slots  chan struct{}
	log    *logrus.Entry
}

// NewThumbnailLoader creates a loader whose entries expire after ttl.
func NewThumbnailLoader(ttl time.Duration) *ThumbnailLoader {
	return &ThumbnailLoader{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache.New(ttl, 2*ttl),
		slots:  make(chan struct{}, ThumbnailWorkers),
		log:    logrus.WithField("component", "thumbnails"),
	}
}

// Load calls done on the UI goroutine with the image at url. done is not
// called when the fetch fails; the card keeps its placeholder.
func (l *ThumbnailLoader) Load(url string, done func(fyne.Resource)) {
	if res, ok := l.cached(url); ok {
		done(res)
		return
	}
	go func() {
		l.slots <- struct{}{}
		defer func() { <-l.slots }()

		res, err := l.Fetch(context.Background(), url)
		if err != nil {
			l.log.WithError(err).WithField("url", url).Debug("Thumbnail not loaded")
			return
		}
		fyne.Do(func() { done(res) })
	}()
}

// Fetch returns the image at url, from the cache when possible.
func (l *ThumbnailLoader) Fetch(ctx context.Context, url string) (fyne.Resource, error) {
	if res, ok := l.cached(url); ok {
		return res, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	res, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, res.Status)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, ThumbnailMaxBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	if mime := mimetype.Detect(data); !strings.HasPrefix(mime.String(), "image/") {
		return nil, errors.Wrapf(ErrNotImage, "%s is %s", url, mime.String())
	}

	resource := fyne.NewStaticResource(path.Base(req.URL.Path), data)
	if l.cache.ItemCount() < ThumbnailCacheSize {
		l.cache.SetDefault(url, resource)
	}
	return resource, nil
}

func (l *ThumbnailLoader) cached(url string) (fyne.Resource, bool) {
	if v, ok := l.cache.Get(url); ok {
		return v.(fyne.Resource), true
	}
	return nil, false
}
