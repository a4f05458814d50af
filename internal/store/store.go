package store

import (
	"io"

	"github.com/catourne/equipment-exporter/internal/model"
)

// ExportStore persists the export tree for a run: one directory per equipment
// record plus the flat collection folder of equipment sheets.
type ExportStore interface {
	// Open creates the export root and the sheet collection folder.
	Open() error

	// EnsureUnit creates the unit directory.
	EnsureUnit(unit model.ExportUnit) error
	// UnitPath resolves a filename inside the unit directory to an absolute path.
	UnitPath(unit model.ExportUnit, filename string) string
	// HasSidecar reports whether the unit was already exported. A present
	// sidecar is always complete (writes are atomic), so this is the whole
	// resume check.
	HasSidecar(unit model.ExportUnit) bool
	// WriteSidecar persists the sidecar JSON via write-then-atomic-rename.
	WriteSidecar(unit model.ExportUnit, sidecar *model.Sidecar) error
	// ReadSidecar loads a previously written sidecar.
	ReadSidecar(unit model.ExportUnit) (*model.Sidecar, error)

	// WriteAttachment streams a downloaded asset into the unit directory and
	// returns the absolute path written.
	WriteAttachment(unit model.ExportUnit, filename string, content io.Reader) (string, error)
	// WriteDocument writes a rendered artifact (markdown, HTML, PDF, QR image).
	WriteDocument(unit model.ExportUnit, filename string, content []byte) (string, error)

	// CollectSheet copies a qualifying equipment-sheet PDF into the flat
	// collection folder.
	CollectSheet(unit model.ExportUnit, sheetFilename string) error
}
