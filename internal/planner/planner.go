// Package planner selects which equipment records a run processes and
// computes each record's deterministic destination inside the export tree.
package planner

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/util"
)

// Selection holds the three mutually exclusive selection modes. A non-empty
// code set takes precedence; otherwise a positive Num applies the first-N
// window at Start; otherwise every record is processed in API-listing order.
type Selection struct {
	Codes []string
	Start int
	Num   int
}

// SelectRecords returns the ordered subsequence of records the selection
// describes.
func SelectRecords(all []model.EquipmentRecord, sel Selection) []model.EquipmentRecord {
	if len(sel.Codes) > 0 {
		wanted := make(map[string]struct{}, len(sel.Codes))
		for _, code := range sel.Codes {
			wanted[code] = struct{}{}
		}
		var selected []model.EquipmentRecord
		for _, rec := range all {
			if _, ok := wanted[rec.Code]; ok {
				selected = append(selected, rec)
			}
		}
		return selected
	}

	if sel.Num > 0 {
		start := sel.Start
		if start > len(all) {
			start = len(all)
		}
		end := start + sel.Num
		if end > len(all) {
			end = len(all)
		}
		return all[start:end]
	}

	return all
}

// PlanUnits resolves each selected record's folder reference against the
// category map and computes its export unit. The record's FolderPath field is
// filled in as a side effect, matching what the sidecar persists.
func PlanUnits(records []model.EquipmentRecord, categories map[int64]model.Category, log *slog.Logger) []model.ExportUnit {
	units := make([]model.ExportUnit, 0, len(records))
	for i := range records {
		rec := &records[i]
		rec.FolderPath = resolveFolderPath(rec, categories, log)
		units = append(units, model.ExportUnit{
			Record: rec,
			Name:   UnitName(rec),
			Dir:    unitDir(rec),
		})
	}
	return units
}

// UnitName builds the unit's base name from the record's identifying fields.
func UnitName(rec *model.EquipmentRecord) string {
	return fmt.Sprintf("%s_%s_%s", rec.Code, rec.Qrcodes, util.SanitizeName(rec.Name))
}

func resolveFolderPath(rec *model.EquipmentRecord, categories map[int64]model.Category, log *slog.Logger) string {
	id, ok := rec.FolderID()
	if !ok {
		return "."
	}
	category, ok := categories[id]
	if !ok {
		log.Warn("equipment_exporter.planner.unknown_category",
			slog.Int64("equipment_id", rec.ID),
			slog.Int64("category_id", id),
		)
		return "."
	}
	return category.Path
}

func unitDir(rec *model.EquipmentRecord) string {
	dir := filepath.Join(rec.FolderPath, UnitName(rec))
	if rec.InArchive {
		dir = filepath.Join(model.ArchivedDirName, dir)
	}
	return dir
}
