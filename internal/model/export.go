package model

// ExportUnit is the on-disk destination for one equipment record. Dir is a
// pure function of the record's identifying fields, so re-running the export
// for the same record always resolves to the same directory.
type ExportUnit struct {
	Record *EquipmentRecord
	// Name is the unit's base name, "<code>_<qrcodes>_<sanitized name>".
	Name string
	// Dir is the unit directory relative to the export root, including the
	// category path and the "_archived" prefix for archived records.
	Dir string
}

// FileEntry pairs a downloaded attachment with its origin. It must be
// JSON-serializable as part of the sidecar.
type FileEntry struct {
	Filename    string    `json:"filename"`
	LocalPath   string    `json:"local_path"`
	OriginalURL string    `json:"original_url"`
	Data        FileAsset `json:"data"`
}

// Sidecar is the per-record metadata document written as data.json next to
// the downloaded assets. Its existence is what the resume check detects.
type Sidecar struct {
	EquipmentData *EquipmentRecord `json:"equipment_data"`
	Files         []FileEntry      `json:"files"`
}

const (
	// SidecarFilename is the fixed sidecar name inside a unit directory.
	SidecarFilename = "data.json"
	// MarkdownFilename is the fixed markdown document name inside a unit directory.
	MarkdownFilename = "data.md"
	// ArchivedDirName is the subtree collecting archived records.
	ArchivedDirName = "_archived"
)
