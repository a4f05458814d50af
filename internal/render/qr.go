package render

import (
	"fmt"
	"image/png"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/catourne/equipment-exporter/internal/util"
)

const qrSizePx = 256

// WriteQRCode renders the serial number as a QR code PNG at path. High error
// correction, matching what warehouse scanners expect on printed sheets.
func WriteQRCode(path, serial string) error {
	code, err := qr.Encode(serial, qr.H, qr.Auto)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	scaled, err := barcode.Scale(code, qrSizePx, qrSizePx)
	if err != nil {
		return fmt.Errorf("scale qr code: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create qr file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := png.Encode(out, scaled); err != nil {
		return fmt.Errorf("encode qr png: %w", err)
	}
	return nil
}

// QRFilename names the QR image of one serial number inside a unit directory.
func QRFilename(unitName, serial string) string {
	return fmt.Sprintf("%s-%s-qr.png", unitName, util.SanitizeName(serial))
}
