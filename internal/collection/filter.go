package collection

import (
	"iter"
	"strings"

	"github.com/ytget/pixhub/internal/model"
)

// Filter yields the items whose title contains query, ignoring case. An
// empty query yields every item. Nothing is evaluated until the sequence is
// ranged over.
func Filter(items []model.MediaItem, query string) iter.Seq[model.MediaItem] {
	needle := strings.ToLower(query)
	return func(yield func(model.MediaItem) bool) {
		for _, item := range items {
			if needle != "" && !strings.Contains(strings.ToLower(item.Title), needle) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// FilterSlice collects Filter into a slice. The result is never nil.
func FilterSlice(items []model.MediaItem, query string) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(items))
	for item := range Filter(items, query) {
		out = append(out, item)
	}
	return out
}
