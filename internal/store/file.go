package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// File is a Store persisted as a single JSON object on disk. Every Set
// rewrites the file atomically through a temp file and rename.
type File struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// OpenFile loads the store at path. A missing file yields an empty store; an
// unreadable or malformed file is logged and also yields an empty store, the
// file is only replaced on the next Set.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create state directory")
	}

	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrap(err, "read state file")
	}

	if err := json.Unmarshal(data, &f.values); err != nil {
		logrus.WithField("path", path).WithError(err).Warn("State file is malformed, starting empty")
		f.values = make(map[string]string)
	}
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Set implements Store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.saveAtomic(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *File) saveAtomic() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "write temp file")
	}

	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}
