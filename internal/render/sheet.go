package render

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The illustrated equipment sheet is filled from an HTML template with
// %%token%% placeholders. The substitution map is validated for completeness
// before any replacement happens, so a template edit that introduces a new
// placeholder fails loudly instead of leaking tokens into the output.
//
//go:embed templates/equipment-sheet.html
var sheetTemplate string

var placeholderPattern = regexp.MustCompile(`%%([a-z_]+)%%`)

// SheetData is everything the equipment sheet shows.
type SheetData struct {
	Name       string
	Categories string
	Code       string
	Length     float64
	Width      float64
	Height     float64
	// PosterPath is the local filename of the designated poster image; empty
	// when the record has none.
	PosterPath string
	// QRFiles pairs each serial number with its QR image filename.
	QRFiles []QRRef
}

// QRRef points the sheet at one generated QR image.
type QRRef struct {
	Serial   string
	Filename string
}

// BuildSheetHTML fills the sheet template from data.
func BuildSheetHTML(data SheetData) (string, error) {
	values := map[string]string{
		"name":       data.Name,
		"img":        data.PosterPath,
		"categories": breadcrumb(data.Categories),
		"amount":     strconv.Itoa(len(data.QRFiles)),
		"code":       data.Code,
		"length":     formatFloat(data.Length),
		"width":      formatFloat(data.Width),
		"height":     formatFloat(data.Height),
		"qr_codes":   qrBlock(data.QRFiles),
	}

	var pairs []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(sheetTemplate, -1) {
		value, ok := values[match[1]]
		if !ok {
			return "", fmt.Errorf("sheet template placeholder %q has no substitution", match[0])
		}
		pairs = append(pairs, match[0], value)
	}
	return strings.NewReplacer(pairs...).Replace(sheetTemplate), nil
}

func qrBlock(refs []QRRef) string {
	var b strings.Builder
	for _, ref := range refs {
		fmt.Fprintf(&b, "<div class=\"qr\"><img src=\"%s\" alt=\"\"> %s</div>\n        ", ref.Filename, ref.Serial)
	}
	return b.String()
}
