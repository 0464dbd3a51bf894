package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileKV keeps all keys in a single JSON object on disk. Every write
// replaces the file atomically.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileKV loads path. A file that is not a JSON object is moved to
// <path>.corrupt and the store starts empty.
func OpenFileKV(path string, logger *zap.Logger) (*FileKV, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kv := &FileKV{path: path, data: map[string]string{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(b, &kv.data); err != nil {
		kv.data = map[string]string{}
		aside := path + ".corrupt"
		logger.Warn("storage file is malformed, starting empty", zap.String("path", path), zap.String("moved_to", aside), zap.Error(err))
		if rerr := os.Rename(path, aside); rerr != nil {
			logger.Warn("unable to move malformed storage file aside", zap.String("path", path), zap.Error(rerr))
		}
	}
	return kv, nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flush(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func (f *FileKV) flush() error {
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
