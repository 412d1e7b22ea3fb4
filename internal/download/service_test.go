package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/pixhub/internal/model"
)

func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/media/cat.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("cat-bytes"))
	})
	mux.HandleFunc("/media/missing.jpg", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/media/slow.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		_, _ = w.Write([]byte("x"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func waitFinished(t *testing.T, service *Service, id string) model.DownloadTask {
	t.Helper()
	for attempt := 0; attempt < 200; attempt++ {
		task, ok := service.GetTask(id)
		if ok && task.Status.IsFinished() {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	task, _ := service.GetTask(id)
	t.Fatalf("Task %s did not finish, status %s", id, task.Status)
	return task
}

func TestNewService(t *testing.T) {
	service := NewService("/tmp", 0, "http://127.0.0.1:8000/api")

	if service.downloadDir != "/tmp" {
		t.Errorf("Expected downloadDir to be '/tmp', got '%s'", service.downloadDir)
	}

	if service.maxParallel != 1 {
		t.Errorf("Expected maxParallel to be clamped to 1, got %d", service.maxParallel)
	}

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
}

func TestAddTask_DownloadsRelativeAsset(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	service := NewService(dir, 2, srv.URL+"/api")

	item := model.MediaItem{ID: model.IntID(1), Title: "Cat", File: "/media/cat.jpg", MediaType: model.MediaTypeImage}
	task, err := service.AddTask(item)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.SourceURL != srv.URL+"/media/cat.jpg" {
		t.Errorf("Expected source resolved against the API host, got %s", task.SourceURL)
	}
	if filepath.Base(task.OutputPath) != "image-Cat.jpg" {
		t.Errorf("Expected file name image-Cat.jpg, got %s", filepath.Base(task.OutputPath))
	}

	done := waitFinished(t, service, task.ID)
	if done.Status != model.TaskStatusCompleted {
		t.Fatalf("Expected Completed, got %s (%s)", done.Status, done.LastError)
	}
	if done.Percent() != 100 {
		t.Errorf("Expected 100%%, got %d", done.Percent())
	}

	data, err := os.ReadFile(done.OutputPath)
	if err != nil {
		t.Fatalf("Expected file on disk: %v", err)
	}
	if string(data) != "cat-bytes" {
		t.Errorf("Unexpected file content %q", data)
	}
	if _, err := os.Stat(done.OutputPath + partialSuffix); !os.IsNotExist(err) {
		t.Error("Partial file should be gone")
	}
}

func TestAddTask_DuplicateActiveItem(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 1, srv.URL)

	item := model.MediaItem{ID: model.IntID(5), File: srv.URL + "/media/slow.mp4", MediaType: model.MediaTypeVideo}
	task, err := service.AddTask(item)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := service.AddTask(item); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	// Same numeric text as a string id is a different item
	other := item
	other.ID = model.StringID("5")
	otherTask, err := service.AddTask(other)
	if err != nil {
		t.Fatalf("Expected no error for string id, got %v", err)
	}
	if otherTask.OutputPath == task.OutputPath {
		t.Error("Concurrent tasks must not share an output path")
	}

	for _, id := range []string{task.ID, otherTask.ID} {
		if err := service.StopTask(id); err != nil {
			t.Fatalf("StopTask: %v", err)
		}
		if got := waitFinished(t, service, id); got.Status != model.TaskStatusStopped {
			t.Errorf("Expected Stopped, got %s", got.Status)
		}
	}

	// Finished tasks no longer block a new one
	again, err := service.AddTask(item)
	if err != nil {
		t.Fatalf("Expected re-download to be allowed, got %v", err)
	}
	_ = service.StopTask(again.ID)
	waitFinished(t, service, again.ID)
}

func TestAddTask_NoAsset(t *testing.T) {
	service := NewService(t.TempDir(), 1, "")

	_, err := service.AddTask(model.MediaItem{ID: model.IntID(1)})
	if !errors.Is(err, ErrNoAsset) {
		t.Errorf("Expected ErrNoAsset, got %v", err)
	}
}

func TestAddTask_HTTPError(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 1, srv.URL)

	task, err := service.AddTask(model.MediaItem{ID: model.IntID(2), File: "/media/missing.jpg"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	done := waitFinished(t, service, task.ID)
	if done.Status != model.TaskStatusError {
		t.Fatalf("Expected Error, got %s", done.Status)
	}
	if !strings.Contains(done.LastError, "404") {
		t.Errorf("Expected 404 in error, got %q", done.LastError)
	}
	if _, err := os.Stat(done.OutputPath); !os.IsNotExist(err) {
		t.Error("Failed download must not leave a file")
	}
}

func TestParallelLimit(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 1, srv.URL)

	first, _ := service.AddTask(model.MediaItem{ID: model.IntID(1), File: "/media/slow.mp4", MediaType: model.MediaTypeVideo})
	second, _ := service.AddTask(model.MediaItem{ID: model.IntID(2), File: "/media/cat.jpg"})

	time.Sleep(50 * time.Millisecond)
	if got, _ := service.GetTask(second.ID); got.Status != model.TaskStatusPending {
		t.Errorf("Expected second task to wait, got %s", got.Status)
	}

	if err := service.StopTask(first.ID); err != nil {
		t.Fatalf("StopTask: %v", err)
	}
	if got := waitFinished(t, service, second.ID); got.Status != model.TaskStatusCompleted {
		t.Errorf("Expected second task to complete, got %s", got.Status)
	}
}

func TestGetAllTasksAndRemove(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 2, srv.URL)

	if len(service.GetAllTasks()) != 0 {
		t.Fatal("Expected no tasks")
	}

	a, _ := service.AddTask(model.MediaItem{ID: model.IntID(1), Title: "a", File: "/media/cat.jpg"})
	b, _ := service.AddTask(model.MediaItem{ID: model.IntID(2), Title: "b", File: "/media/cat.jpg"})

	tasks := service.GetAllTasks()
	if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("Expected tasks in insertion order, got %v", tasks)
	}

	waitFinished(t, service, a.ID)
	if err := service.RemoveTask(a.ID); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if _, ok := service.GetTask(a.ID); ok {
		t.Error("Removed task should be gone")
	}
	if err := service.RemoveTask(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := service.StopTask("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCallback(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 1, srv.URL)

	var mu sync.Mutex
	var statuses []model.TaskStatus
	service.SetUpdateCallback(func(task model.DownloadTask) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, task.Status)
	})

	task, _ := service.AddTask(model.MediaItem{ID: model.IntID(1), File: "/media/cat.jpg"})
	waitFinished(t, service, task.ID)

	// The final update is sent right after the status is stored
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(statuses) == 0 || statuses[0] != model.TaskStatusPending {
		t.Fatalf("Expected first update to be Pending, got %v", statuses)
	}
	if statuses[len(statuses)-1] != model.TaskStatusCompleted {
		t.Errorf("Expected last update to be Completed, got %v", statuses)
	}
}

type contextRecorder struct {
	mu   sync.Mutex
	ctxs []context.Context
}

func (r *contextRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	r.ctxs = append(r.ctxs, req.Context())
	r.mu.Unlock()
	return http.DefaultTransport.RoundTrip(req)
}

func TestRunTask_ReleasesContext(t *testing.T) {
	srv := assetServer(t)
	service := NewService(t.TempDir(), 1, srv.URL)
	recorder := &contextRecorder{}
	service.SetHTTPClient(&http.Client{Transport: recorder})

	task, err := service.AddTask(model.MediaItem{ID: model.IntID(1), File: "/media/cat.jpg"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := waitFinished(t, service, task.ID); got.Status != model.TaskStatusCompleted {
		t.Fatalf("Expected Completed, got %s (%s)", got.Status, got.LastError)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.ctxs) != 1 {
		t.Fatalf("Expected one request, got %d", len(recorder.ctxs))
	}
	if recorder.ctxs[0].Err() == nil {
		t.Error("Expected the task context to be cancelled once the task finished")
	}

	service.tasksMutex.RLock()
	defer service.tasksMutex.RUnlock()
	if len(service.cancels) != 0 {
		t.Errorf("Expected no leftover cancel funcs, got %d", len(service.cancels))
	}
}
