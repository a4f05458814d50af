// Package export implements the filesystem export store: the per-record unit
// directories under the export root and the flat equipment-sheet collection.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/store"
)

type FileStore struct {
	root      string
	sheetsDir string
}

var _ store.ExportStore = (*FileStore)(nil)

func New(root, sheetsDir string) *FileStore {
	return &FileStore{root: root, sheetsDir: sheetsDir}
}

func (s *FileStore) Open() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("create export root: %w", err)
	}
	if s.sheetsDir != "" {
		if err := os.MkdirAll(s.sheetsDir, 0755); err != nil {
			return fmt.Errorf("create sheet collection folder: %w", err)
		}
	}
	return nil
}

func (s *FileStore) EnsureUnit(unit model.ExportUnit) error {
	if err := os.MkdirAll(filepath.Join(s.root, unit.Dir), 0755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	return nil
}

func (s *FileStore) UnitPath(unit model.ExportUnit, filename string) string {
	return filepath.Join(s.root, unit.Dir, filename)
}

func (s *FileStore) HasSidecar(unit model.ExportUnit) bool {
	info, err := os.Stat(s.UnitPath(unit, model.SidecarFilename))
	return err == nil && info.Mode().IsRegular()
}

// WriteSidecar writes the sidecar to a temp file in the unit directory and
// renames it into place, so a crash mid-write never leaves a partial sidecar
// behind for the resume check to trust.
func (s *FileStore) WriteSidecar(unit model.ExportUnit, sidecar *model.Sidecar) error {
	data, err := json.MarshalIndent(sidecar, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}

	target := s.UnitPath(unit, model.SidecarFilename)
	tmp, err := os.CreateTemp(filepath.Dir(target), model.SidecarFilename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create sidecar temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close sidecar temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename sidecar into place: %w", err)
	}
	return nil
}

func (s *FileStore) ReadSidecar(unit model.ExportUnit) (*model.Sidecar, error) {
	data, err := os.ReadFile(s.UnitPath(unit, model.SidecarFilename))
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var sidecar model.Sidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return nil, fmt.Errorf("decode sidecar: %w", err)
	}
	return &sidecar, nil
}

func (s *FileStore) WriteAttachment(unit model.ExportUnit, filename string, content io.Reader) (string, error) {
	path := s.UnitPath(unit, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, content); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return path, nil
}

func (s *FileStore) WriteDocument(unit model.ExportUnit, filename string, content []byte) (string, error) {
	path := s.UnitPath(unit, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return path, nil
}

func (s *FileStore) CollectSheet(unit model.ExportUnit, sheetFilename string) error {
	src, err := os.Open(s.UnitPath(unit, sheetFilename))
	if err != nil {
		return fmt.Errorf("open sheet for collection: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(s.sheetsDir, sheetFilename))
	if err != nil {
		return fmt.Errorf("create collected sheet: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy sheet: %w", err)
	}
	return nil
}
