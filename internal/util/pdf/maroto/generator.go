// Package maroto renders the per-record PDF documents: the data document and
// the illustrated equipment sheet with embedded QR codes.
package maroto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/catourne/equipment-exporter/internal/model"
)

// RecordParams feeds the data-document PDF.
type RecordParams struct {
	Record *model.EquipmentRecord
	Files  []model.FileEntry
	// ImagePaths are absolute paths of the downloaded image attachments.
	ImagePaths []string
	// LabelFor translates custom-field keys to human labels.
	LabelFor func(string) string
	Now      time.Time
}

// GenerateRecordPDF renders the record's field list plus an image grid, the
// PDF counterpart of the markdown document.
func GenerateRecordPDF(p RecordParams) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetBorder(false)

	rec := p.Record
	title := rec.Title()
	if rec.InArchive {
		title += " (Archiviert)"
	}

	m.Row(14, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{Size: 20, Style: consts.Bold})
		})
	})
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text("Kategorie: "+rec.FolderPath, props.Text{Size: 10, Color: grey()})
		})
	})
	m.Line(2)

	for _, kv := range recordFields(rec, p.LabelFor) {
		m.Row(6, func() {
			m.Col(4, func() {
				m.Text(kv[0], props.Text{Size: 9, Style: consts.Bold})
			})
			m.Col(8, func() {
				m.Text(kv[1], props.Text{Size: 9})
			})
		})
	}

	if len(p.Files) > 0 {
		m.Line(2)
		m.Row(7, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Files (%d)", len(p.Files)), props.Text{Size: 11, Style: consts.Bold})
			})
		})
		for _, file := range p.Files {
			name := file.Filename
			m.Row(5, func() {
				m.Col(12, func() {
					m.Text(name, props.Text{Size: 8})
				})
			})
		}
	}

	if len(p.ImagePaths) > 0 {
		m.Line(2)
		addImageGrid(m, p.ImagePaths)
	}

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Export Date: "+p.Now.Format("02.01.2006 - 15:04"),
				props.Text{Size: 8, Top: 4, Color: grey()})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("generate record pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetParams feeds the illustrated equipment sheet.
type SheetParams struct {
	Name       string
	Categories string
	Code       string
	Length     float64
	Width      float64
	Height     float64
	// PosterPath is the absolute path of the (already resized) poster image;
	// empty when the record has none.
	PosterPath string
	Serials    []string
}

// GenerateSheetPDF renders the equipment sheet: name, poster image, category
// breadcrumb, code and dimensions, and one QR code per serial number.
func GenerateSheetPDF(p SheetParams) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetBorder(false)

	m.Row(16, func() {
		m.Col(12, func() {
			m.Text(p.Name, props.Text{Size: 24, Style: consts.Bold})
		})
	})
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text(p.Categories, props.Text{Size: 10, Color: grey()})
		})
	})

	if p.PosterPath != "" {
		m.Row(100, func() {
			m.Col(12, func() {
				tryAddImage(m, p.PosterPath)
			})
		})
	}

	m.Row(8, func() {
		m.Col(3, func() {
			m.Text("Code: "+p.Code, props.Text{Size: 10, Style: consts.Bold})
		})
		m.Col(3, func() {
			m.Text("Anzahl: "+strconv.Itoa(len(p.Serials)), props.Text{Size: 10})
		})
		m.Col(6, func() {
			m.Text(fmt.Sprintf("L %s × B %s × H %s",
				formatDim(p.Length), formatDim(p.Width), formatDim(p.Height)),
				props.Text{Size: 10})
		})
	})
	m.Line(2)

	// Four QR codes per row, serial label underneath each.
	for start := 0; start < len(p.Serials); start += 4 {
		end := start + 4
		if end > len(p.Serials) {
			end = len(p.Serials)
		}
		row := p.Serials[start:end]

		m.Row(42, func() {
			for _, serial := range row {
				code := serial
				m.Col(3, func() {
					m.QrCode(code, props.Rect{Center: true, Percent: 85})
				})
			}
		})
		m.Row(6, func() {
			for _, serial := range row {
				label := serial
				m.Col(3, func() {
					m.Text(label, props.Text{Size: 8, Align: consts.Center})
				})
			}
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("generate sheet pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func recordFields(rec *model.EquipmentRecord, labelFor func(string) string) [][2]string {
	fields := [][2]string{
		{"id", strconv.FormatInt(rec.ID, 10)},
		{"code", rec.Code},
		{"name", rec.Name},
		{"qrcodes", rec.Qrcodes},
		{"length", formatDim(rec.Length)},
		{"width", formatDim(rec.Width)},
		{"height", formatDim(rec.Height)},
	}
	if rec.CurrentQuantity != nil {
		fields = append(fields, [2]string{"current_quantity", strconv.FormatInt(*rec.CurrentQuantity, 10)})
	}
	if rec.CurrentQuantityExclCases != nil {
		fields = append(fields, [2]string{"current_quantity_excl_cases", strconv.FormatInt(*rec.CurrentQuantityExclCases, 10)})
	}
	if rec.QuantityInCases != nil {
		fields = append(fields, [2]string{"quantity_in_cases", strconv.FormatInt(*rec.QuantityInCases, 10)})
	}
	if labelFor != nil {
		for key, value := range rec.Custom {
			fields = append(fields, [2]string{labelFor(key), fmt.Sprint(value)})
		}
	}
	return fields
}

// addImageGrid lays the downloaded images out two per row, like the export
// documents the PDF replaces.
func addImageGrid(m pdf.Maroto, paths []string) {
	const imageHeight = 60.0
	for i := 0; i < len(paths); i += 2 {
		first, second := i, i+1
		m.Row(imageHeight, func() {
			m.Col(6, func() { tryAddImage(m, paths[first]) })
			if second < len(paths) {
				m.Col(6, func() { tryAddImage(m, paths[second]) })
			}
		})
	}
}

// tryAddImage attempts to place an image into the PDF; a broken image file is
// skipped, not fatal.
func tryAddImage(m pdf.Maroto, path string) {
	if path == "" {
		return
	}
	if err := m.FileImage(path); err != nil {
		fmt.Printf("Error adding image: %v, path: %s\n", err, path)
	}
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func grey() color.Color {
	return color.Color{Red: 110, Green: 110, Blue: 110}
}
