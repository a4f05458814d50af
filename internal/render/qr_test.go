package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQRCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	require.NoError(t, WriteQRCode(path, "S100"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestQRFilename(t *testing.T) {
	assert.Equal(t, "A1_S100_Chair-S100-qr.png", QRFilename("A1_S100_Chair", "S100"))
	// Serials get sanitized before they become part of a filename.
	assert.Equal(t, "U_X-S_1_2-qr.png", QRFilename("U_X", "S 1/2"))
}
