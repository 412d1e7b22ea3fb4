package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/pixhub/internal/model"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if downloadsDir == "" {
		t.Fatal("Downloads directory is empty")
	}
}

func TestMediaFileName(t *testing.T) {
	tests := []struct {
		item     model.MediaItem
		expected string
	}{
		{model.MediaItem{ID: model.IntID(7), MediaType: model.MediaTypeImage}, "image-7.jpg"},
		{model.MediaItem{ID: model.IntID(7), MediaType: model.MediaTypeVideo}, "video-7.mp4"},
		{model.MediaItem{ID: model.IntID(7), Title: "Sunset", MediaType: model.MediaTypeImage}, "image-Sunset.jpg"},
		{model.MediaItem{ID: model.IntID(7), Title: "a/b: c?", MediaType: model.MediaTypeVideo}, "video-a_b_ c_.mp4"},
		{model.MediaItem{ID: model.StringID(""), Title: "  "}, "image-untitled.jpg"},
	}

	for _, test := range tests {
		if got := MediaFileName(test.item); got != test.expected {
			t.Errorf("MediaFileName(%q, %s) = %q, expected %q",
				test.item.Title, test.item.MediaType, got, test.expected)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"plain", "plain"},
		{"  many   spaces  ", "many spaces"},
		{"tab\tand\nnewline", "tab_and_newline"},
		{"..hidden..", "hidden"},
		{`C:\path\name`, "C__path_name"},
	}

	for _, test := range tests {
		if got := SanitizeFileName(test.in); got != test.expected {
			t.Errorf("SanitizeFileName(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}

	long := strings.Repeat("x", MaxFileNameLength+50)
	if got := SanitizeFileName(long); len(got) != MaxFileNameLength {
		t.Errorf("Expected length %d, got %d", MaxFileNameLength, len(got))
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image-7.jpg")

	if got := UniquePath(path); got != path {
		t.Errorf("Expected free path unchanged, got %s", got)
	}

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	expected := filepath.Join(dir, "image-7 (1).jpg")
	if got := UniquePath(path); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestOpenFileWithDefaultApp_NonExistentFile(t *testing.T) {
	err := OpenFileWithDefaultApp(filepath.Join(t.TempDir(), "nonexistent.jpg"))
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestUniquePathExcept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video-7.mp4")
	reserved := map[string]struct{}{
		path:                                 {},
		filepath.Join(dir, "video-7 (1).mp4"): {},
	}

	expected := filepath.Join(dir, "video-7 (2).mp4")
	if got := UniquePathExcept(path, reserved); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
