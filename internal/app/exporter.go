package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/catourne/equipment-exporter/internal/client"
	"github.com/catourne/equipment-exporter/internal/errors"
	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/planner"
)

// Run executes the whole pipeline: plan, materialize, render. Failures local
// to one record are reported and skipped; only global preconditions (token,
// category tree, equipment listing) are fatal.
func (app *App) Run(ctx context.Context) error {
	if app.Config.Export.CheckAuth {
		return app.runAuthCheck(ctx)
	}

	exp := app.Config.Export
	switch {
	case len(exp.Codes) > 0:
		fmt.Printf("Fetch %d object(s) with code(s) %s\n\n", len(exp.Codes), strings.Join(exp.Codes, ","))
	case exp.Num > 0:
		fmt.Printf("Limit export to %d equipment item(s) starting at %d.\n\n", exp.Num, exp.Start)
	default:
		fmt.Printf("Reading database, export everything.\n\n")
	}

	categories, err := app.client.ListFolders(ctx)
	if err != nil {
		app.log.ErrorContext(ctx, "equipment_exporter.run.list_categories_error", slog.String("error", err.Error()))
		return err
	}

	records, err := app.client.ListEquipment(ctx)
	if err != nil {
		app.log.ErrorContext(ctx, "equipment_exporter.run.list_equipment_error", slog.String("error", err.Error()))
		return err
	}
	fmt.Printf("Found %d articles in DB.\n-------------------------------\n", len(records))

	selected := planner.SelectRecords(records, planner.Selection{
		Codes: exp.Codes,
		Start: exp.Start,
		Num:   exp.Num,
	})
	units := planner.PlanUnits(selected, categories, app.log)

	fmt.Println("Collecting equipment data and creating files…")
	bar := newProgress(len(units), exp.Verbose)
	exported := 0

	for i, unit := range units {
		skipped, fileCount, err := app.processUnit(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			app.log.ErrorContext(ctx, "equipment_exporter.run.record_failed",
				slog.Int64("equipment_id", unit.Record.ID),
				slog.String("code", unit.Record.Code),
				slog.Int("http_status", failureStatusCode(err)),
				slog.String("error", err.Error()),
			)
			bar.update(i+1, 0, unit.Record.Name)
			continue
		}
		if !skipped {
			exported++
		}
		bar.update(i+1, fileCount, unit.Record.Name)
	}
	bar.finish()

	app.printSummary(len(units), exported)
	return nil
}

func (app *App) runAuthCheck(ctx context.Context) error {
	if err := app.client.CheckAuth(ctx); err != nil {
		fmt.Println("API call failed.")
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("API call successful, yeah!")
	return nil
}

func (app *App) printSummary(total, exported int) {
	exp := app.Config.Export
	if len(exp.Codes) > 0 {
		codes := strings.Join(exp.Codes, ",")
		if exported > 0 {
			fmt.Printf("Fetched %d object(s) with code(s) %s 🥳\n", exported, codes)
		} else {
			fmt.Printf("Object(s) with code(s) %s does not exist.\n", codes)
		}
		return
	}
	fmt.Printf("\nData collection of %d equipment pieces complete 🥳\n", total)
}

// processUnit materializes one export unit. The returned error aborts only
// this record; per-file download failures and render failures never surface
// here, they are logged and degrade.
func (app *App) processUnit(ctx context.Context, unit model.ExportUnit) (skipped bool, fileCount int, err error) {
	if err := app.store.EnsureUnit(unit); err != nil {
		return false, 0, err
	}

	// Resume check: an existing sidecar means the record was fully exported
	// (writes are atomic), so the record costs zero API calls.
	if app.store.HasSidecar(unit) && !app.Config.Export.Overwrite {
		app.verbose("   Data already fetched - skipped")
		return true, 0, nil
	}

	rec := unit.Record
	app.verbose("   Collecting '%d - %s'", rec.ID, rec.Name)

	detail, err := app.client.GetEquipment(ctx, rec.ID)
	if err != nil {
		return false, 0, fmt.Errorf("detail call: %w", err)
	}
	rec.MergeDetail(detail)
	app.verbose("   Joined additional data from /equipment/{id} call")

	sidecar := &model.Sidecar{EquipmentData: rec, Files: []model.FileEntry{}}
	if err := app.store.WriteSidecar(unit, sidecar); err != nil {
		return false, 0, err
	}

	assets, err := app.client.GetEquipmentFiles(ctx, rec.ID)
	if err != nil {
		return false, 0, fmt.Errorf("file listing: %w", err)
	}

	entries := make([]model.FileEntry, 0, len(assets))
	for _, asset := range assets {
		if client.IsTempStorage(asset.URL) {
			continue
		}
		entry, err := app.downloadAsset(ctx, unit, asset)
		if err != nil {
			// A failed download is logged and the asset is omitted; it does
			// not abort the record.
			app.log.WarnContext(ctx, "equipment_exporter.run.download_failed",
				slog.Int64("equipment_id", rec.ID),
				slog.String("url", asset.URL),
				slog.String("error", err.Error()),
			)
			continue
		}
		app.verbose("   Got file: %s", asset.URL)
		entries = append(entries, entry)
	}

	sidecar.Files = entries
	if err := app.store.WriteSidecar(unit, sidecar); err != nil {
		return false, 0, err
	}
	app.verbose("   Created .JSON file: %s", app.store.UnitPath(unit, model.SidecarFilename))

	app.renderDocuments(ctx, unit, entries, time.Now())
	return false, len(entries), nil
}

// failureStatusCode extracts the HTTP status behind a record failure, zero
// when the error carries none.
func failureStatusCode(err error) int {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.GetStatusCode()
	}
	if apiErr, ok := errors.AsApiError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

func (app *App) verbose(format string, args ...any) {
	if app.Config.Export.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}
