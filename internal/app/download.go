package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/util"
)

// attachmentFilename derives the local filename of an asset: the sanitized
// URL basename, with an extension inferred from the MIME type when the URL
// path carries none.
func attachmentFilename(asset model.FileAsset) string {
	filename := util.SafeFilename(asset.URL)
	if filepath.Ext(filename) == "" {
		filename += util.FileExtByMime(asset.Type)
	}
	return filename
}

// downloadAsset fetches one attachment and streams it into the unit
// directory under a filesystem-safe filename derived from the asset URL.
func (app *App) downloadAsset(ctx context.Context, unit model.ExportUnit, asset model.FileAsset) (model.FileEntry, error) {
	filename := attachmentFilename(asset)

	body, err := app.client.Download(ctx, asset.URL)
	if err != nil {
		return model.FileEntry{}, err
	}
	defer func() { _ = body.Close() }()

	if _, err := app.store.WriteAttachment(unit, filename, body); err != nil {
		return model.FileEntry{}, err
	}

	return model.FileEntry{
		Filename:    filename,
		LocalPath:   filename,
		OriginalURL: asset.URL,
		Data:        asset,
	}, nil
}

// preparePoster resizes the poster image to width=400px into a temp copy for
// PDF embedding, leaving the downloaded original untouched. A file that does
// not decode as an image is used as-is; the PDF generator skips what it
// cannot place.
func preparePoster(path string) string {
	img, err := imaging.Open(path)
	if err != nil {
		return path
	}
	resized := imaging.Resize(img, 400, 0, imaging.Lanczos)
	tmpPath := filepath.Join(os.TempDir(), "poster_"+filepath.Base(path))
	if err := imaging.Save(resized, tmpPath); err != nil {
		return path
	}
	return tmpPath
}

// findPoster matches the record's designated poster-image id against the
// downloaded file list and returns the image's path inside the unit.
func (app *App) findPoster(unit model.ExportUnit, entries []model.FileEntry) (local, abs string) {
	posterID, ok := unit.Record.PosterFileID()
	if !ok {
		return "", ""
	}
	for _, entry := range entries {
		if entry.Data.ID == posterID && util.IsImageMime(entry.Data.Type) {
			return entry.LocalPath, app.store.UnitPath(unit, entry.LocalPath)
		}
	}
	return "", ""
}
