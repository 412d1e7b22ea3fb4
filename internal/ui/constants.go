package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconClose    = "×"
	IconError    = "❌"
	IconSaved    = "★"
	IconVideo    = "▶"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	CardWidth      float32 = 220
	CardHeight     float32 = 240
	ThumbHeight    float32 = 150
	PreviewWidth   float32 = 640
	PreviewHeight  float32 = 520
	RowMinWidth    float32 = 400
	RowMinHeight   float32 = 64
	StatusWidth    float32 = 96
	UploadFormWide float32 = 520
)

// Toast sizing
const (
	ToastWidth  float32 = 320
	ToastHeight float32 = 56
	ToastMargin float32 = 20
)

// Thumbnail loading
const (
	ThumbnailCacheTTL  = 10 * time.Minute
	ThumbnailWorkers   = 4
	ThumbnailMaxBytes  = 8 << 20
	ThumbnailCacheSize = 512
)
