package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/catourne/equipment-exporter/internal/model"
	"github.com/catourne/equipment-exporter/internal/util"
)

const headerLink = "[Ça Tourne Requisit](https://www.catourne.ch)"

// MarkdownParams carries everything the markdown document needs. ReadFile
// loads a downloaded text attachment back from disk so its content can be
// inlined; it may be nil, in which case text files are listed as plain links.
type MarkdownParams struct {
	Record   *model.EquipmentRecord
	Files    []model.FileEntry
	Labels   Labels
	Now      time.Time
	ReadFile func(localPath string) (string, error)
}

// BuildMarkdown renders the human-readable document for one record: title,
// category breadcrumb, itemized field list, files section and a trailing
// export timestamp.
func BuildMarkdown(p MarkdownParams) string {
	rec := p.Record
	var b strings.Builder

	b.WriteString(headerLink + "\n\n")
	b.WriteString("# " + rec.Title())
	if rec.InArchive {
		b.WriteString(" *(Archiviert)*")
	}
	b.WriteString("\n\nKategorie: › ")
	b.WriteString(breadcrumb(rec.FolderPath) + "\n\n\n\n")

	b.WriteString("## Details\n")
	writeDetails(&b, rec, p.Labels)

	fmt.Fprintf(&b, "\n## Files (%d)\n", len(p.Files))
	for _, file := range p.Files {
		writeFileEntry(&b, file, p.ReadFile)
	}
	if len(p.Files) == 0 {
		b.WriteString("\n#### *No files for this document.*\n\n")
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "<br><br><sub><sup>Export Date: %s</sub></sup>\n", p.Now.Format("02.01.2006 - 15:04"))
	return b.String()
}

func breadcrumb(folderPath string) string {
	return strings.ReplaceAll(folderPath, "/", " › ")
}

func writeDetails(b *strings.Builder, rec *model.EquipmentRecord, labels Labels) {
	field(b, "id", strconv.FormatInt(rec.ID, 10))
	field(b, "code", rec.Code)
	field(b, "name", rec.Name)
	field(b, "displayname", rec.Displayname)
	field(b, "qrcodes", rec.Qrcodes)
	field(b, "folder_path", rec.FolderPath)
	field(b, "in_archive", strconv.FormatBool(rec.InArchive))
	if rec.CurrentQuantity != nil {
		field(b, "current_quantity", strconv.FormatInt(*rec.CurrentQuantity, 10))
	}
	if rec.CurrentQuantityExclCases != nil {
		field(b, "current_quantity_excl_cases", strconv.FormatInt(*rec.CurrentQuantityExclCases, 10))
	}
	if rec.QuantityInCases != nil {
		field(b, "quantity_in_cases", strconv.FormatInt(*rec.QuantityInCases, 10))
	}
	field(b, "length", formatFloat(rec.Length))
	field(b, "width", formatFloat(rec.Width))
	field(b, "height", formatFloat(rec.Height))

	if len(rec.Custom) > 0 {
		b.WriteString("- **Extra Input Fields ('custom')**:\n")
		keys := make([]string, 0, len(rec.Custom))
		for key := range rec.Custom {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(b, "  - *%s*: %v\n", labels.For(key), rec.Custom[key])
		}
	}
}

func field(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "- **%s**: %s\n", key, value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFileEntry(b *strings.Builder, file model.FileEntry, readFile func(string) (string, error)) {
	switch {
	case util.IsImageMime(file.Data.Type):
		fmt.Fprintf(b, "![File](<./%s>)\nLocal Image: [%s](<./%s>) | <sub><sup>[*Original URL*](%s)</sup></sub><br><br>\n\n\n",
			file.LocalPath, file.Filename, file.LocalPath, file.OriginalURL)
	case isTextFile(file.Filename) && readFile != nil:
		content, err := readFile(file.LocalPath)
		if err != nil {
			content = ""
		}
		fmt.Fprintf(b, "Local File: [%s](<./%s>) - Content:\n\n> %s\n\n<sub><sup>[*Original URL*](%s)</sup></sub><br><br>\n\n\n",
			file.Filename, file.LocalPath, strings.TrimSpace(content), file.OriginalURL)
	default:
		fmt.Fprintf(b, "Local File: [%s](<./%s>) | <sub><sup>[*Original URL*](%s)</sup></sub><br><br>\n\n\n",
			file.Filename, file.LocalPath, file.OriginalURL)
	}
}

func isTextFile(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".rtf")
}
