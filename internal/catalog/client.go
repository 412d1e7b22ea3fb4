// Package catalog is the HTTP client of the media catalog service: category
// and media item listings, single item lookup and multipart uploads.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/store"
)

const (
	categoriesPath = "/categories/"
	mediaItemsPath = "/media-items/"

	categoriesCacheKey = "categories"
	maxErrorBodyBytes  = 4 << 10
)

// UserAgent is sent with every request.
var UserAgent = "pixhub/dev"

// Catalog is what the gallery needs from the catalog service.
type Catalog interface {
	Categories(ctx context.Context) ([]model.Category, error)
	MediaItems(ctx context.Context, filter ListFilter) ([]model.MediaItem, error)
	MediaItem(ctx context.Context, id model.ItemID) (model.MediaItem, error)
	Upload(ctx context.Context, req UploadRequest) (model.MediaItem, error)
}

// ListFilter narrows a media item listing. Zero values are omitted from the
// query string.
type ListFilter struct {
	MediaType  model.MediaType
	CategoryID string
}

func (f ListFilter) values() url.Values {
	q := url.Values{}
	if f.MediaType != "" {
		q.Set("media_type", string(f.MediaType))
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	return q
}

// Client talks to the catalog over HTTP. Requests carry a bearer token when
// the token store holds one under store.KeyAuthToken.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     store.Store
	categories *cache.Cache
	log        *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default has no
// timeout: requests run until the server answers or the context ends.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCategoryCache caches the category listing for ttl. Zero disables it.
func WithCategoryCache(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.categories = nil
			return
		}
		c.categories = cache.New(ttl, 2*ttl)
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// http://127.0.0.1:8000/api.
func NewClient(baseURL string, tokens store.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		log:        logrus.WithField("component", "catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	if c.categories != nil {
		if cached, ok := c.categories.Get(categoriesCacheKey); ok {
			return cached.([]model.Category), nil
		}
	}

	var out []model.Category
	if err := c.getJSON(ctx, categoriesPath, nil, &out); err != nil {
		return nil, err
	}
	if c.categories != nil {
		c.categories.Set(categoriesCacheKey, out, cache.DefaultExpiration)
	}
	return out, nil
}

// InvalidateCategories drops the cached category listing.
func (c *Client) InvalidateCategories() {
	if c.categories != nil {
		c.categories.Flush()
	}
}

// MediaItems lists media items matching filter.
func (c *Client) MediaItems(ctx context.Context, filter ListFilter) ([]model.MediaItem, error) {
	var out []model.MediaItem
	if err := c.getJSON(ctx, mediaItemsPath, filter.values(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.MediaItem{}
	}
	return out, nil
}

// MediaItem fetches a single item.
func (c *Client) MediaItem(ctx context.Context, id model.ItemID) (model.MediaItem, error) {
	var out model.MediaItem
	path := mediaItemsPath + url.PathEscape(id.String()) + "/"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return model.MediaItem{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("User-Agent", UserAgent)
	if token, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(logrus.Fields{"method": req.Method, "url": req.URL.String()})
	log.Debug("Calling catalog")

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Catalog request failed")
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		apiErr := &APIError{StatusCode: res.StatusCode, Method: req.Method, Path: req.URL.Path, Body: strings.TrimSpace(string(body))}
		log.WithField("status", res.StatusCode).Warn("Catalog returned an error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", req.Method, req.URL.Path)
	}
	return nil
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	token, ok := c.tokens.Get(store.KeyAuthToken)
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// APIError is a non-2xx answer from the catalog.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNetworkFailure reports whether err came from talking to the catalog:
// transport errors, error statuses and undecodable bodies. Context
// cancellation is not a network failure.
func IsNetworkFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// ParseCategoryID validates a category id typed by a user.
func ParseCategoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("category must be a positive number, got %q", s)
	}
	return id, nil
}

// ResolveURL resolves an asset reference from a media item against the API
// root. Absolute references are returned unchanged; paths such as
// /media/x.jpg resolve against the API host.
func ResolveURL(baseURL, ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", errors.Wrapf(err, "parse asset url %q", ref)
	}
	if r.IsAbs() || baseURL == "" {
		return r.String(), nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse base url %q", baseURL)
	}
	return base.ResolveReference(r).String(), nil
}
