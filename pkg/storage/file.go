package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// FileStore keeps each artifact as <dir>/<id>.<format> with its metadata
// in <dir>/<id>.meta. Files are written to a temporary name and renamed
// into place, so a reader sees either the old artifact or the new one.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, gserrors.New(gserrors.ErrCodeInvalidConfig, "storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "create storage dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) metaPath(id string) string {
	return filepath.Join(s.dir, id+".meta")
}

// DataPath returns the file that holds the artifact bytes.
func (s *FileStore) DataPath(id, format string) string {
	return filepath.Join(s.dir, id+"."+format)
}

func (s *FileStore) Put(ctx context.Context, a *Artifact) error {
	if err := check(a); err != nil {
		return err
	}
	meta, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Data first: metadata is what makes the artifact visible to Get.
	if err := writeAtomic(s.DataPath(a.ID, a.Format), a.Data); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeStorage, err, "write artifact %s", a.ID)
	}
	if err := writeAtomic(s.metaPath(a.ID), meta); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeStorage, err, "write artifact %s metadata", a.ID)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Artifact, error) {
	if err := gserrors.ValidateArtifactID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := os.ReadFile(s.metaPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "read artifact %s metadata", id)
	}

	var a Artifact
	if err := json.Unmarshal(meta, &a); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "parse artifact %s metadata", id)
	}
	a.Data, err = os.ReadFile(s.DataPath(id, a.Format))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "read artifact %s", id)
	}
	return &a, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the storage directory.
func (s *FileStore) Path() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
