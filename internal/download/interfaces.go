package download

import (
	"github.com/ytget/pixhub/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	AddTask(item model.MediaItem) (model.DownloadTask, error)
	GetTask(id string) (model.DownloadTask, bool)
	GetAllTasks() []model.DownloadTask
	StopTask(id string) error
	RemoveTask(id string) error

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the directory new tasks write to
	SetDownloadDirectory(dir string)
}
