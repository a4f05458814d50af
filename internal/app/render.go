package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/render"
	"github.com/catourne/equipment-exporter/internal/util"
	"github.com/catourne/equipment-exporter/internal/util/pdf/maroto"
)

const sheetCompressionQuality = "screen"

// renderDocuments produces the derived artifacts of one exported unit:
// markdown, record PDF, per-serial QR images, the sheet HTML/PDF pair and the
// flat-folder copy. Every failure here is a ConversionFailure: logged, the
// artifact skipped, the record never aborted.
func (app *App) renderDocuments(ctx context.Context, unit model.ExportUnit, entries []model.FileEntry, now time.Time) {
	rec := unit.Record

	md := render.BuildMarkdown(render.MarkdownParams{
		Record: rec,
		Files:  entries,
		Labels: app.labels,
		Now:    now,
		ReadFile: func(localPath string) (string, error) {
			data, err := os.ReadFile(app.store.UnitPath(unit, localPath))
			return string(data), err
		},
	})
	if _, err := app.store.WriteDocument(unit, model.MarkdownFilename, []byte(md)); err != nil {
		app.logRenderError(ctx, unit, "markdown", err)
	} else {
		app.verbose("   Created .MD file:   %s", app.store.UnitPath(unit, model.MarkdownFilename))
	}

	app.renderRecordPDF(ctx, unit, entries, now)

	serials := rec.SerialNumbers()
	qrRefs := app.renderQRCodes(ctx, unit, serials)

	imageCount := countImages(entries)
	posterLocal, posterAbs := app.findPoster(unit, entries)
	app.renderSheet(ctx, unit, posterLocal, posterAbs, serials, qrRefs)

	// A qualifying sheet gets a copy in the flat collection folder: not
	// archived, and at least one image or serial number.
	if !rec.InArchive && (imageCount > 0 || len(serials) > 0) {
		if err := app.store.CollectSheet(unit, unit.Name+"-sheet.pdf"); err != nil {
			app.log.WarnContext(ctx, "equipment_exporter.render.collect_sheet_failed",
				slog.Int64("equipment_id", rec.ID),
				slog.String("error", err.Error()),
			)
		} else {
			app.verbose("   - Copied sheet .PDF to collection folder")
		}
	}
}

func (app *App) renderRecordPDF(ctx context.Context, unit model.ExportUnit, entries []model.FileEntry, now time.Time) {
	var imagePaths []string
	for _, entry := range entries {
		if util.IsImageMime(entry.Data.Type) {
			imagePaths = append(imagePaths, app.store.UnitPath(unit, entry.LocalPath))
		}
	}

	out, err := maroto.GenerateRecordPDF(maroto.RecordParams{
		Record:     unit.Record,
		Files:      entries,
		ImagePaths: imagePaths,
		LabelFor:   app.labels.For,
		Now:        now,
	})
	if err != nil {
		app.logRenderError(ctx, unit, "record_pdf", err)
		return
	}
	if _, err := app.store.WriteDocument(unit, unit.Name+".pdf", out); err != nil {
		app.logRenderError(ctx, unit, "record_pdf", err)
		return
	}
	app.verbose("   Created .PDF file:  %s", app.store.UnitPath(unit, unit.Name+".pdf"))
}

func (app *App) renderQRCodes(ctx context.Context, unit model.ExportUnit, serials []string) []render.QRRef {
	refs := make([]render.QRRef, 0, len(serials))
	for _, serial := range serials {
		filename := render.QRFilename(unit.Name, serial)
		if err := render.WriteQRCode(app.store.UnitPath(unit, filename), serial); err != nil {
			app.logRenderError(ctx, unit, "qr_code", err)
			continue
		}
		app.verbose("   Created QR code:  %s", serial)
		refs = append(refs, render.QRRef{Serial: serial, Filename: filename})
	}
	return refs
}

func (app *App) renderSheet(ctx context.Context, unit model.ExportUnit, posterLocal, posterAbs string, serials []string, qrRefs []render.QRRef) {
	rec := unit.Record

	html, err := render.BuildSheetHTML(render.SheetData{
		Name:       rec.Title(),
		Categories: rec.FolderPath,
		Code:       rec.Code,
		Length:     rec.Length,
		Width:      rec.Width,
		Height:     rec.Height,
		PosterPath: posterLocal,
		QRFiles:    qrRefs,
	})
	if err != nil {
		app.logRenderError(ctx, unit, "sheet_html", err)
	} else if _, err := app.store.WriteDocument(unit, unit.Name+"-sheet.html", []byte(html)); err != nil {
		app.logRenderError(ctx, unit, "sheet_html", err)
	} else {
		app.verbose("   Created .HTML equipment sheet file:  %s", app.store.UnitPath(unit, unit.Name+"-sheet.html"))
	}

	poster := posterAbs
	if poster != "" {
		poster = preparePoster(poster)
	}
	out, err := maroto.GenerateSheetPDF(maroto.SheetParams{
		Name:       rec.Title(),
		Categories: rec.FolderPath,
		Code:       rec.Code,
		Length:     rec.Length,
		Width:      rec.Width,
		Height:     rec.Height,
		PosterPath: poster,
		Serials:    serials,
	})
	if err != nil {
		app.logRenderError(ctx, unit, "sheet_pdf", err)
		return
	}

	sheetPath := app.store.UnitPath(unit, unit.Name+"-sheet.pdf")
	if _, err := app.store.WriteDocument(unit, unit.Name+"-sheet.pdf", out); err != nil {
		app.logRenderError(ctx, unit, "sheet_pdf", err)
		return
	}
	app.verbose("   Created .PDF equipment sheet:  %s", sheetPath)

	// Compression failure keeps the uncompressed PDF.
	if err := render.CompressPDF(sheetPath, sheetCompressionQuality); err != nil {
		app.log.WarnContext(ctx, "equipment_exporter.render.compress_failed",
			slog.Int64("equipment_id", rec.ID),
			slog.String("error", err.Error()),
		)
	} else {
		app.verbose("   - Resized .PDF")
	}
}

func (app *App) logRenderError(ctx context.Context, unit model.ExportUnit, artifact string, err error) {
	app.log.WarnContext(ctx, "equipment_exporter.render.conversion_failed",
		slog.Int64("equipment_id", unit.Record.ID),
		slog.String("artifact", artifact),
		slog.String("error", err.Error()),
	)
}

func countImages(entries []model.FileEntry) int {
	n := 0
	for _, entry := range entries {
		if util.IsImageMime(entry.Data.Type) {
			n++
		}
	}
	return n
}
