// Package store persists scene documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
)

var (
	ErrNotFound    = errors.New("scene not found")
	ErrInvalidName = errors.New("invalid scene name")
)

// Store loads and saves scenes by name.
type Store interface {
	Load(ctx context.Context, name string) (*document.SceneDoc, error)
	Save(ctx context.Context, name string, doc *document.SceneDoc) error
	List(ctx context.Context) ([]string, error)
}

// sceneKey normalizes a scene name: a plain file name, with the ".xml"
// suffix optional.
func sceneKey(name string) (string, error) {
	key := strings.TrimSuffix(name, fileExt)
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return key, nil
}
