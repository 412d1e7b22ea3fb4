package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MediaType is the kind of asset a MediaItem references.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is one the catalog accepts.
func (mt MediaType) Valid() bool {
	return mt == MediaTypeImage || mt == MediaTypeVideo
}

// String returns the wire value of the media type
func (mt MediaType) String() string {
	return string(mt)
}

// ParseMediaType accepts the wire value as well as the plural tab names
// ("images", "videos") used by the gallery.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "images":
		return MediaTypeImage, nil
	case "video", "videos":
		return MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("unknown media type: %q", s)
	}
}

// ItemID identifies a MediaItem. The catalog may send identifiers either as
// JSON numbers or JSON strings; the original form is kept so that a value
// read from storage is written back byte for byte. Two IDs are equal only
// when both the text and the form match, so 1 and "1" are different items.
type ItemID struct {
	text    string
	numeric bool
}

// IntID builds a numeric identifier.
func IntID(n int64) ItemID {
	return ItemID{text: strconv.FormatInt(n, 10), numeric: true}
}

// StringID builds a string identifier.
func StringID(s string) ItemID {
	return ItemID{text: s}
}

// ParseItemID interprets user input: a decimal integer is numeric and is
// stored in canonical form ("007" and "+7" both become 7), anything else is
// a string identifier.
func ParseItemID(s string) ItemID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return StringID(s)
}

// IsZero reports whether the identifier is unset.
func (id ItemID) IsZero() bool {
	return id.text == "" && !id.numeric
}

// IsNumeric reports whether the identifier was a JSON number.
func (id ItemID) IsNumeric() bool {
	return id.numeric
}

// String returns the identifier text without quoting.
func (id ItemID) String() string {
	return id.text
}

// MarshalJSON implements json.Marshaler.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ItemID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %w", err)
	}
	*id = ItemID{text: n.String(), numeric: true}
	return nil
}

// MediaItem is a catalog entry. Beyond the identifier it is opaque to the
// saved collection: whatever JSON object the producer sent is kept in raw and
// written back unchanged.
type MediaItem struct {
	ID          ItemID    `json:"id"`
	Title       string    `json:"title,omitempty"`
	File        string    `json:"file,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	MediaType   MediaType `json:"media_type,omitempty"`
	Category    *int64    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`

	raw json.RawMessage
}

type mediaItemFields MediaItem

// UnmarshalJSON retains the raw object and decodes the known fields. Only
// the id is required to decode; a display field with an unexpected type is
// left at its zero value and still written back unchanged.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var item MediaItem
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &item.ID); err != nil {
			return err
		}
	}
	lenient(fields["title"], &item.Title)
	lenient(fields["file"], &item.File)
	lenient(fields["file_url"], &item.FileURL)
	lenient(fields["media_type"], &item.MediaType)
	var category int64
	if raw := fields["category"]; len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && json.Unmarshal(raw, &category) == nil {
		item.Category = &category
	}
	lenient(fields["description"], &item.Description)

	item.raw = append(json.RawMessage(nil), data...)
	*m = item
	return nil
}

func lenient(raw json.RawMessage, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// MarshalJSON writes the raw object when the item was decoded from JSON,
// otherwise the known fields.
func (m MediaItem) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return json.Marshal(mediaItemFields(m))
}

// AssetURL returns the best URL for fetching the binary asset. The catalog
// serializer emits both a relative file path and an absolute file_url.
func (m MediaItem) AssetURL() string {
	if m.FileURL != "" {
		return m.FileURL
	}
	return m.File
}

// DisplayTitle returns the title, or the identifier when the title is empty.
func (m MediaItem) DisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	return m.ID.String()
}

// IsVideo reports whether the item is a video asset.
func (m MediaItem) IsVideo() bool {
	return m.MediaType == MediaTypeVideo
}

// Category groups media items in the catalog.
type Category struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	MediaItems []MediaItem `json:"media_items,omitempty"`
}
