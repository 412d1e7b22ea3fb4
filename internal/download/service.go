package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/platform"
)

var (
	// ErrDuplicate is returned when the item already has an unfinished task.
	ErrDuplicate = errors.New("item is already being downloaded")
	// ErrNoAsset is returned for items without a file URL.
	ErrNoAsset = errors.New("item has no file to download")
	// ErrNotFound is returned for unknown task ids.
	ErrNotFound = errors.New("task not found")
)

const (
	progressInterval = 250 * time.Millisecond
	partialSuffix    = ".part"
)

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	order       []string
	cancels     map[string]context.CancelFunc
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	downloadDir string
	baseURL     string
	httpClient  *http.Client
	onUpdate    func(model.DownloadTask) // callback for UI updates
	log         *logrus.Entry
}

// NewService creates a new download service. Relative asset paths are
// resolved against baseURL.
func NewService(downloadDir string, maxParallel int, baseURL string) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		cancels:     make(map[string]context.CancelFunc),
		maxParallel: maxParallel,
		downloadDir: downloadDir,
		baseURL:     baseURL,
		httpClient:  &http.Client{},
		log:         logrus.WithField("component", "download"),
	}
}

// SetHTTPClient replaces the client used for transfers.
func (s *Service) SetHTTPClient(hc *http.Client) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.httpClient = hc
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives a copy of the task and runs on the transfer goroutine.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	if max < 1 {
		max = 1
	}
	s.tasksMutex.Lock()
	s.maxParallel = max
	s.tasksMutex.Unlock()
	s.startPending()
}

// SetDownloadDirectory sets the directory new tasks write to
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.downloadDir = dir
}

// AddTask queues a save-as-file task for item.
func (s *Service) AddTask(item model.MediaItem) (model.DownloadTask, error) {
	source, err := s.resolve(item.AssetURL())
	if err != nil {
		return model.DownloadTask{}, err
	}

	s.tasksMutex.Lock()

	for _, task := range s.tasks {
		if task.ItemID == item.ID && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return model.DownloadTask{}, fmt.Errorf("%w: %s", ErrDuplicate, item.ID)
		}
	}

	task := &model.DownloadTask{
		ID:         uuid.New().String(),
		ItemID:     item.ID,
		MediaType:  item.MediaType,
		Title:      item.Title,
		SourceURL:  source,
		OutputPath: s.reservePath(platform.MediaFileName(item)),
		Status:     model.TaskStatusPending,
		BytesTotal: -1,
		StartedAt:  time.Now(),
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	snapshot := *task
	s.tasksMutex.Unlock()

	s.log.WithFields(logrus.Fields{"task": task.ID, "item": item.ID.String(), "path": task.OutputPath}).Info("Download queued")
	s.notifyUpdate(snapshot)
	s.startPending()
	return snapshot, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	return *task, true
}

// GetAllTasks returns all tasks in the order they were added
func (s *Service) GetAllTasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, *s.tasks[id])
	}
	return tasks
}

// StopTask stops a pending or running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
	case task.Status.IsActive():
		task.Status = model.TaskStatusStopping
		if cancel, ok := s.cancels[id]; ok {
			cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return nil
}

// RemoveTask forgets a task, stopping it first when it is still running.
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if cancel, ok := s.cancels[id]; ok {
		cancel()
	}
	delete(s.tasks, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Service) resolve(asset string) (string, error) {
	if asset == "" {
		return "", ErrNoAsset
	}
	return catalog.ResolveURL(s.baseURL, asset)
}

// reservePath picks a destination that neither exists on disk nor belongs to
// another unfinished task. Callers hold tasksMutex.
func (s *Service) reservePath(name string) string {
	reserved := make(map[string]struct{})
	for _, task := range s.tasks {
		if !task.Status.IsFinished() {
			reserved[task.OutputPath] = struct{}{}
		}
	}
	return platform.UniquePathExcept(filepath.Join(s.downloadDir, name), reserved)
}

// startPending starts queued tasks while there is capacity
func (s *Service) startPending() {
	type start struct {
		ctx  context.Context
		task *model.DownloadTask
	}

	s.tasksMutex.Lock()
	var starts []start
	var snapshots []model.DownloadTask
	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			break
		}
		task := s.tasks[id]
		if task.Status != model.TaskStatusPending {
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancels[id] = cancel
		s.activeCount++
		task.Status = model.TaskStatusStarting
		starts = append(starts, start{ctx, task})
		snapshots = append(snapshots, *task)
	}
	s.tasksMutex.Unlock()

	for i, st := range starts {
		s.notifyUpdate(snapshots[i])
		go s.runTask(st.ctx, st.task)
	}
}

// runTask performs one transfer and records its outcome
func (s *Service) runTask(ctx context.Context, task *model.DownloadTask) {
	log := s.log.WithField("task", task.ID)

	s.tasksMutex.RLock()
	source, output, client := task.SourceURL, task.OutputPath, s.httpClient
	s.tasksMutex.RUnlock()

	err := s.transfer(ctx, client, task, source, output)

	stopped := ctx.Err() != nil

	s.tasksMutex.Lock()
	if cancel, ok := s.cancels[task.ID]; ok {
		cancel()
		delete(s.cancels, task.ID)
	}
	s.activeCount--
	switch {
	case err == nil:
		task.Status = model.TaskStatusCompleted
		if task.BytesTotal < 0 {
			task.BytesTotal = task.BytesDone
		}
		log.WithField("size", humanize.Bytes(uint64(task.BytesDone))).Info("Download completed")
	case stopped:
		task.Status = model.TaskStatusStopped
		log.Info("Download stopped")
	default:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		log.WithError(err).Warn("Download failed")
	}
	task.Speed = ""
	task.FinishedAt = time.Now()
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	s.startPending()
}

func (s *Service) transfer(ctx context.Context, client *http.Client, task *model.DownloadTask, source, output string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "build request")
	}
	res, err := client.Do(req)
	if err != nil {
		return pkgerrors.Wrapf(err, "GET %s", source)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("GET %s: %s", source, res.Status)
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(output)); err != nil {
		return pkgerrors.Wrap(err, "create download directory")
	}

	s.tasksMutex.Lock()
	task.BytesTotal = res.ContentLength
	if task.Status == model.TaskStatusStarting {
		task.Status = model.TaskStatusDownloading
	}
	snapshot := *task
	s.tasksMutex.Unlock()
	s.notifyUpdate(snapshot)

	partial := output + partialSuffix
	f, err := os.Create(partial)
	if err != nil {
		return pkgerrors.Wrap(err, "create file")
	}

	pw := &progressWriter{service: s, task: task, started: time.Now()}
	_, copyErr := io.Copy(io.MultiWriter(f, pw), res.Body)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(partial)
		return pkgerrors.Wrap(copyErr, "write file")
	}
	if err := os.Rename(partial, output); err != nil {
		_ = os.Remove(partial)
		return pkgerrors.Wrap(err, "finalize file")
	}
	return nil
}

// progressWriter counts bytes and publishes throttled progress updates
type progressWriter struct {
	service  *Service
	task     *model.DownloadTask
	started  time.Time
	lastSent time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	s := p.service

	s.tasksMutex.Lock()
	p.task.BytesDone += int64(len(b))
	now := time.Now()
	if now.Sub(p.lastSent) < progressInterval {
		s.tasksMutex.Unlock()
		return len(b), nil
	}
	p.lastSent = now
	if elapsed := now.Sub(p.started).Seconds(); elapsed > 0 {
		p.task.Speed = humanize.Bytes(uint64(float64(p.task.BytesDone)/elapsed)) + "/s"
	}
	snapshot := *p.task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return len(b), nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()
	if callback != nil {
		callback(task)
	}
}
