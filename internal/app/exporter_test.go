package app

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conf "github.com/catourne/equipment-exporter/config"
	"github.com/catourne/equipment-exporter/internal/model"
)

type fakeAPI struct {
	srv         *httptest.Server
	detailCalls atomic.Int64
	filesCalls  atomic.Int64
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newFakeAPI serves one equipment record with three regular assets (a poster
// image, a text note and a missing PDF) plus one temp-storage asset.
func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()

	record := model.EquipmentRecord{
		ID:      42,
		Name:    "Lounge Chair",
		Code:    "A1",
		Qrcodes: "S100,S101",
		Folder:  "/folders/5",
		Image:   "/files/10",
		Length:  80,
		Width:   65,
		Height:  90,
		Custom:  map[string]any{"custom_7": "1987"},
	}

	mux.HandleFunc("/folders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":5,"displayname":"Chairs","path":"Furniture/Chairs"}]}`))
	})
	mux.HandleFunc("/equipment", func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		if offset != "" && offset != "0" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []model.EquipmentRecord{record}})
	})
	mux.HandleFunc("/equipment/42", func(w http.ResponseWriter, r *http.Request) {
		api.detailCalls.Add(1)
		qty, excl, cases := int64(4), int64(3), int64(1)
		detail := record
		detail.CurrentQuantity = &qty
		detail.CurrentQuantityExclCases = &excl
		detail.QuantityInCases = &cases
		_ = json.NewEncoder(w).Encode(map[string]any{"data": detail})
	})
	mux.HandleFunc("/equipment/42/files", func(w http.ResponseWriter, r *http.Request) {
		api.filesCalls.Add(1)
		base := api.srv.URL
		files := []model.FileAsset{
			{ID: 10, URL: base + "/media/poster.png", Type: "image/png"},
			{ID: 11, URL: base + "/media/notes.txt", Type: "text/plain"},
			{ID: 12, URL: base + "/media/missing.pdf", Type: "application/pdf"},
			{ID: 13, URL: "https://rentman-tempstorage.example.com/labels.pdf", Type: "application/pdf"},
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": files})
	})
	mux.HandleFunc("/media/poster.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes(t))
	})
	mux.HandleFunc("/media/notes.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("handle with care\n"))
	})
	mux.HandleFunc("/media/missing.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	api.srv = httptest.NewServer(mux)
	t.Cleanup(api.srv.Close)
	return api
}

func newTestApp(t *testing.T, api *fakeAPI) (*App, string, string) {
	t.Helper()
	base := t.TempDir()
	tokenFile := filepath.Join(base, "JWT_TOKEN")
	require.NoError(t, os.WriteFile(tokenFile, []byte("test-token"), 0644))

	outputDir := filepath.Join(base, "equipmentDump")
	sheetsDir := filepath.Join(base, "equipmentSheets")

	config := &conf.AppConfig{
		API: &conf.APIConfig{
			BaseURL:     api.srv.URL,
			TokenFile:   tokenFile,
			PageSize:    100,
			HTTPTimeout: 5 * time.Second,
		},
		Export: &conf.ExportConfig{
			OutputDir: outputDir,
			SheetsDir: sheetsDir,
		},
	}

	application, err := New(config)
	require.NoError(t, err)
	return application, outputDir, sheetsDir
}

func TestRunExportsRecord(t *testing.T) {
	api := newFakeAPI(t)
	application, outputDir, sheetsDir := newTestApp(t, api)

	require.NoError(t, application.Run(context.Background()))

	unitDir := filepath.Join(outputDir, "Furniture/Chairs", "A1_S100,S101_Lounge_Chair")
	require.DirExists(t, unitDir)

	// Sidecar holds the enriched record and exactly the retrievable files:
	// the temp-storage asset is excluded, the failed download omitted.
	data, err := os.ReadFile(filepath.Join(unitDir, "data.json"))
	require.NoError(t, err)
	var sidecar model.Sidecar
	require.NoError(t, json.Unmarshal(data, &sidecar))
	require.NotNil(t, sidecar.EquipmentData.CurrentQuantity)
	assert.Equal(t, int64(4), *sidecar.EquipmentData.CurrentQuantity)
	assert.Equal(t, "Furniture/Chairs", sidecar.EquipmentData.FolderPath)
	require.Len(t, sidecar.Files, 2)
	assert.Equal(t, "poster.png", sidecar.Files[0].Filename)
	assert.Equal(t, "notes.txt", sidecar.Files[1].Filename)

	// Downloaded attachments.
	assert.FileExists(t, filepath.Join(unitDir, "poster.png"))
	assert.FileExists(t, filepath.Join(unitDir, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(unitDir, "missing.pdf"))
	assert.NoFileExists(t, filepath.Join(unitDir, "labels.pdf"))

	// Derived documents.
	assert.FileExists(t, filepath.Join(unitDir, "data.md"))
	assert.FileExists(t, filepath.Join(unitDir, "A1_S100,S101_Lounge_Chair.pdf"))
	assert.FileExists(t, filepath.Join(unitDir, "A1_S100,S101_Lounge_Chair-sheet.html"))
	assert.FileExists(t, filepath.Join(unitDir, "A1_S100,S101_Lounge_Chair-sheet.pdf"))
	assert.FileExists(t, filepath.Join(unitDir, "A1_S100,S101_Lounge_Chair-S100-qr.png"))
	assert.FileExists(t, filepath.Join(unitDir, "A1_S100,S101_Lounge_Chair-S101-qr.png"))

	// The markdown inlines the text attachment.
	md, err := os.ReadFile(filepath.Join(unitDir, "data.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "> handle with care")

	// Qualifying sheet (not archived, has image and serials) is collected.
	assert.FileExists(t, filepath.Join(sheetsDir, "A1_S100,S101_Lounge_Chair-sheet.pdf"))
}

func TestRunIsIdempotent(t *testing.T) {
	api := newFakeAPI(t)
	application, outputDir, _ := newTestApp(t, api)

	require.NoError(t, application.Run(context.Background()))
	assert.Equal(t, int64(1), api.detailCalls.Load())
	assert.Equal(t, int64(1), api.filesCalls.Load())

	sidecarPath := filepath.Join(outputDir, "Furniture/Chairs", "A1_S100,S101_Lounge_Chair", "data.json")
	before, err := os.ReadFile(sidecarPath)
	require.NoError(t, err)

	// Second run without overwrite: the resume check skips the record before
	// any per-record API call, and the tree is unchanged.
	require.NoError(t, application.Run(context.Background()))
	assert.Equal(t, int64(1), api.detailCalls.Load())
	assert.Equal(t, int64(1), api.filesCalls.Load())

	after, err := os.ReadFile(sidecarPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunOverwriteRefetches(t *testing.T) {
	api := newFakeAPI(t)
	application, _, _ := newTestApp(t, api)

	require.NoError(t, application.Run(context.Background()))
	application.Config.Export.Overwrite = true
	require.NoError(t, application.Run(context.Background()))
	assert.Equal(t, int64(2), api.detailCalls.Load())
}

func TestRunCodeSelectionNoMatch(t *testing.T) {
	api := newFakeAPI(t)
	application, outputDir, _ := newTestApp(t, api)
	application.Config.Export.Codes = []string{"99"}

	// Nothing matched is still a normal completion.
	require.NoError(t, application.Run(context.Background()))
	assert.Equal(t, int64(0), api.detailCalls.Load())

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRecordFailureDoesNotHaltBatch(t *testing.T) {
	mux := http.NewServeMux()
	records := []model.EquipmentRecord{
		{ID: 1, Name: "Bad Item", Code: "B1", Qrcodes: "S1"},
		{ID: 2, Name: "Good Item", Code: "G2", Qrcodes: "S2"},
	}
	mux.HandleFunc("/folders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/equipment", func(w http.ResponseWriter, r *http.Request) {
		if offset := r.URL.Query().Get("offset"); offset != "" && offset != "0" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": records})
	})
	mux.HandleFunc("/equipment/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorMessage":"boom"}`))
	})
	mux.HandleFunc("/equipment/2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": records[1]})
	})
	mux.HandleFunc("/equipment/2/files", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := &fakeAPI{srv: srv}
	application, outputDir, _ := newTestApp(t, api)

	require.NoError(t, application.Run(context.Background()))

	// The bad record aborted alone; the good one was fully exported.
	assert.NoFileExists(t, filepath.Join(outputDir, "B1_S1_Bad_Item", "data.json"))
	assert.FileExists(t, filepath.Join(outputDir, "G2_S2_Good_Item", "data.json"))
}

func TestAuthCheckMode(t *testing.T) {
	var probed atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		probed.Store(true)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := &fakeAPI{srv: srv}
	application, _, _ := newTestApp(t, api)
	application.Config.Export.CheckAuth = true

	require.NoError(t, application.Run(context.Background()))
	assert.True(t, probed.Load())
}

func TestMissingTokenIsFatal(t *testing.T) {
	api := newFakeAPI(t)
	base := t.TempDir()
	config := &conf.AppConfig{
		API: &conf.APIConfig{
			BaseURL:   api.srv.URL,
			TokenFile: filepath.Join(base, "nope"),
			PageSize:  100,
		},
		Export: &conf.ExportConfig{
			OutputDir: filepath.Join(base, "out"),
			SheetsDir: filepath.Join(base, "sheets"),
		},
	}
	_, err := New(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.token_missing")
}

func TestUnitTreeMatchesScenario(t *testing.T) {
	// The category map {5: Furniture/Chairs} and the record's identifying
	// fields resolve to a deterministic destination.
	api := newFakeAPI(t)
	application, outputDir, _ := newTestApp(t, api)

	require.NoError(t, application.Run(context.Background()))

	want := filepath.Join(outputDir, "Furniture", "Chairs", "A1_S100,S101_Lounge_Chair")
	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
