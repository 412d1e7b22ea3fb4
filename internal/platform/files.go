package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/ytget/pixhub/internal/model"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand    = "open"
	XDGOpenCommand = "xdg-open"
	CmdCommand     = "cmd"
	StartCommand   = "start"
	WindowsCmdFlag = "/c"
)

// Saved asset naming
const (
	ImageFilePrefix    = "image-"
	VideoFilePrefix    = "video-"
	ImageFileExtension = ".jpg"
	VideoFileExtension = ".mp4"
	MaxFileNameLength  = 120
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	isAndroid := runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != ""

	if isAndroid {
		return "/sdcard/Download", nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// FallbackDownloadsDir is used when the home directory cannot be resolved
func FallbackDownloadsDir() string {
	return filepath.Join(os.TempDir(), "pixhub-downloads")
}

// MediaFileName returns the file name an asset is saved under:
// image-<title or id>.jpg for images, video-<title or id>.mp4 for videos.
func MediaFileName(item model.MediaItem) string {
	prefix, ext := ImageFilePrefix, ImageFileExtension
	if item.IsVideo() {
		prefix, ext = VideoFilePrefix, VideoFileExtension
	}

	base := SanitizeFileName(item.Title)
	if base == "" {
		base = SanitizeFileName(item.ID.String())
	}
	if base == "" {
		base = "untitled"
	}
	return prefix + base + ext
}

// SanitizeFileName replaces path separators, control characters and
// characters reserved on Windows, collapses whitespace and caps the length.
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r) || unicode.IsControl(r):
			b.WriteRune('_')
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	out := strings.Trim(b.String(), " .")
	if runes := []rune(out); len(runes) > MaxFileNameLength {
		out = strings.TrimSpace(string(runes[:MaxFileNameLength]))
	}
	return out
}

// UniquePath returns path, or path with " (n)" before the extension when a
// file already exists there.
func UniquePath(path string) string {
	return UniquePathExcept(path, nil)
}

// UniquePathExcept is UniquePath that also skips paths in reserved, e.g.
// destinations of transfers that have not created their file yet.
func UniquePathExcept(path string, reserved map[string]struct{}) string {
	free := func(p string) bool {
		if _, ok := reserved[p]; ok {
			return false
		}
		_, err := os.Stat(p)
		return os.IsNotExist(err)
	}
	if free(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if free(candidate) {
			return candidate
		}
	}
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case OSDarwin:
		cmd = exec.Command(OpenCommand, absPath)
	case OSWindows:
		cmd = exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath)
	case OSLinux:
		cmd = exec.Command(XDGOpenCommand, absPath)
	case OSAndroid:
		cmd = exec.Command("am", "start", "-a", "android.intent.action.VIEW", "-d", "file://"+absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// RevealDirectory opens the directory containing filePath in the file manager
func RevealDirectory(filePath string) error {
	return OpenFileWithDefaultApp(filepath.Dir(filePath))
}
