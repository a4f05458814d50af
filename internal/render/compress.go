package render

import (
	"fmt"
	"os"
	"os/exec"
)

// CompressPDF reduces the file size of a PDF in place via ghostscript.
// quality is one of the gs presets: screen, ebook, printer, prepress, default.
// On any failure the original file is left untouched so the caller can keep
// the uncompressed PDF.
func CompressPDF(path, quality string) error {
	output := path + ".tmp.pdf"
	cmd := exec.Command(
		"gs",
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/"+quality,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile="+output,
		path,
	)

	if err := cmd.Run(); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("ghostscript: %w", err)
	}
	if err := os.Remove(path); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("replace original pdf: %w", err)
	}
	if err := os.Rename(output, path); err != nil {
		return fmt.Errorf("rename compressed pdf: %w", err)
	}
	return nil
}
