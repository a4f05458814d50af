package model

import (
	"path"
	"strconv"
	"strings"
)

// EquipmentRecord is one inventory item as delivered by the API. Quantity
// fields are only present after a detail call; FolderPath is derived locally
// from the category map and is not part of the remote schema.
type EquipmentRecord struct {
	ID                     int64          `json:"id"`
	Name                   string         `json:"name"`
	Displayname            string         `json:"displayname"`
	Code                   string         `json:"code"`
	Qrcodes                string         `json:"qrcodes"`
	QrcodesOfSerialNumbers string         `json:"qrcodes_of_serial_numbers,omitempty"`
	Folder                 string         `json:"folder"` // reference, e.g. "/folders/55"
	InArchive              bool           `json:"in_archive"`
	Image                  string         `json:"image"` // poster file reference, e.g. "/files/1204"
	Length                 float64        `json:"length"`
	Width                  float64        `json:"width"`
	Height                 float64        `json:"height"`
	Custom                 map[string]any `json:"custom,omitempty"`

	CurrentQuantity          *int64 `json:"current_quantity,omitempty"`
	CurrentQuantityExclCases *int64 `json:"current_quantity_excl_cases,omitempty"`
	QuantityInCases          *int64 `json:"quantity_in_cases,omitempty"`

	FolderPath string `json:"folder_path,omitempty"`
}

// Title prefers the display name over the raw name.
func (r *EquipmentRecord) Title() string {
	if r.Displayname != "" {
		return r.Displayname
	}
	return r.Name
}

// SerialNumbers splits the serial-number field on commas and trims whitespace.
// The dedicated qrcodes_of_serial_numbers field wins when present; qrcodes is
// the fallback.
func (r *EquipmentRecord) SerialNumbers() []string {
	raw := r.QrcodesOfSerialNumbers
	if raw == "" {
		raw = r.Qrcodes
	}
	var serials []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			serials = append(serials, s)
		}
	}
	return serials
}

// FolderID resolves the category reference ("/folders/55") to its numeric id.
func (r *EquipmentRecord) FolderID() (int64, bool) {
	return refID(r.Folder)
}

// PosterFileID resolves the poster-image reference ("/files/1204") to its
// numeric file id.
func (r *EquipmentRecord) PosterFileID() (int64, bool) {
	return refID(r.Image)
}

func refID(ref string) (int64, bool) {
	if ref == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(path.Base(ref), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// MergeDetail copies the fields only the per-record detail call delivers.
func (r *EquipmentRecord) MergeDetail(detail *EquipmentRecord) {
	r.CurrentQuantity = detail.CurrentQuantity
	r.CurrentQuantityExclCases = detail.CurrentQuantityExclCases
	r.QuantityInCases = detail.QuantityInCases
}

// Category is a folder node of the remote category tree. Immutable for the
// run; used only to resolve an equipment record's folder reference.
type Category struct {
	ID          int64  `json:"id"`
	Displayname string `json:"displayname"`
	Parent      string `json:"parent"`
	Path        string `json:"path"` // slash-delimited ancestry, e.g. "MÖBEL & GROSSREQUISITEN/Sideboards"
}

// FileAsset is one downloadable attachment of a record.
type FileAsset struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
	Type string `json:"type"` // MIME type
}
