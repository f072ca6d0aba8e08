// Package importer loads 3D assets from disk into a read-only scene graph.
//
// glTF 2.0 files (.gltf, .glb) are parsed with github.com/qmuntal/gltf and
// converted with a real-time preset: every primitive becomes one mesh, strips
// and fans are triangulated, and all faces of a mesh share the same arity.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
)

var (
	// ErrFileUnreadable is returned when the asset path cannot be opened for reading.
	ErrFileUnreadable = errors.New("file unreadable")
	// ErrImportFailed is returned when the importer rejects the file content.
	ErrImportFailed = errors.New("import failed")
	// ErrUnsupportedFormat is returned for file extensions no importer handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Load checks that path is readable and imports it.
func Load(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	f.Close()

	logger.Info("loading 3D file", zap.String("path", path))

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	s, err := Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	logger.Info("3D file loaded",
		zap.String("path", path),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
	)
	return s, nil
}
