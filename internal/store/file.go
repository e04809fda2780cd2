package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
)

const fileExt = ".xml"

// FileStore keeps one XML file per scene in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory scenes are kept in.
func (s *FileStore) Dir() string { return s.dir }

// path resolves a scene name to a file inside the store. Names are plain
// file names; the ".xml" suffix is optional.
func (s *FileStore) path(name string) (string, error) {
	key, err := sceneKey(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

func (s *FileStore) Load(ctx context.Context, name string) (*document.SceneDoc, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	return document.Decode(f)
}

// Save writes to a temporary file first so a failed write never truncates
// an existing scene.
func (s *FileStore) Save(ctx context.Context, name string, doc *document.SceneDoc) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".scene-*"+fileExt)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := document.Encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace scene file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read save dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, fileExt))
	}
	sort.Strings(names)
	return names, nil
}
