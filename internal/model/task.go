package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the status of a save-as-file task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the request for the asset is being made
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means bytes are being written to disk
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusStopping means the user asked to stop and the transfer is winding down
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was stopped by user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the file was written successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusDownloading || ts == TaskStatusStopping
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// DownloadTask tracks saving one media item's asset to the local disk.
type DownloadTask struct {
	ID         string
	ItemID     ItemID
	MediaType  MediaType
	Title      string
	SourceURL  string
	OutputPath string // destination file, set when the task is created
	Status     TaskStatus
	BytesDone  int64
	BytesTotal int64 // -1 when the server sent no Content-Length
	Speed      string
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Progress returns the completed fraction in [0, 1], or 0 when the size is unknown.
func (dt *DownloadTask) Progress() float64 {
	if dt.Status == TaskStatusCompleted {
		return 1
	}
	if dt.BytesTotal <= 0 {
		return 0
	}
	p := float64(dt.BytesDone) / float64(dt.BytesTotal)
	if p > 1 {
		return 1
	}
	return p
}

// Percent returns Progress as an integer percentage.
func (dt *DownloadTask) Percent() int {
	return int(dt.Progress() * 100)
}

// GetPercentString returns "NN%" or "—" while the size is unknown
func (dt *DownloadTask) GetPercentString() string {
	if dt.Status != TaskStatusCompleted && dt.BytesTotal <= 0 {
		return "—"
	}
	return fmt.Sprintf("%d%%", dt.Percent())
}

// GetDisplayTitle returns title, filename, or source URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if t := strings.TrimSpace(dt.Title); t != "" {
		return t
	}

	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	return dt.SourceURL
}
