package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the whole view state in a single file, rewritten
// atomically on every mutation. It is the default backend and plays the
// role of the browser's local storage
type FileStore struct {
	path       string
	serializer SnapshotSerializer
	mutex      sync.Mutex
}

func NewFileStore(path string, serializer SnapshotSerializer) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create the state directory: %w", err)
	}

	return &FileStore{
		path:       path,
		serializer: serializer,
	}, nil
}

func (f *FileStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.read()
}

func (f *FileStore) SetCurrentSkin(ctx context.Context, source string, playerName string) error {
	return f.update(func(snapshot *Snapshot) {
		snapshot.CurrentSkin = source
		snapshot.CurrentPlayerName = playerName
	})
}

func (f *FileStore) ClearCurrentSkin(ctx context.Context) error {
	return f.update(func(snapshot *Snapshot) {
		snapshot.CurrentSkin = ""
		snapshot.CurrentPlayerName = ""
	})
}

func (f *FileStore) SetAnimationEnabled(ctx context.Context, enabled bool) error {
	return f.update(func(snapshot *Snapshot) {
		snapshot.AnimationEnabled = formatBool(enabled)
	})
}

func (f *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(f.path))
	return err
}

func (f *FileStore) update(mutate func(snapshot *Snapshot)) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	snapshot, err := f.read()
	if err != nil {
		return err
	}

	if snapshot == nil {
		snapshot = &Snapshot{}
	}

	mutate(snapshot)

	return f.write(snapshot)
}

func (f *FileStore) read() (*Snapshot, error) {
	value, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return f.serializer.Deserialize(value)
}

func (f *FileStore) write(snapshot *Snapshot) error {
	value, err := f.serializer.Serialize(snapshot)
	if err != nil {
		return err
	}

	// Write-then-rename keeps a concurrently restarted process from ever
	// observing a half written state file
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, f.path)
}
