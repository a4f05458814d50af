package app

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const progressBarLength = 40

// progress is the running console indicator. It writes to stdout and stays
// quiet in verbose mode, where the per-step diagnostics replace it.
type progress struct {
	total   int
	enabled bool
	out     io.Writer
}

func newProgress(total int, verbose bool) *progress {
	return &progress{total: total, enabled: !verbose && total > 0, out: os.Stdout}
}

func (p *progress) update(current, fileCount int, name string) {
	if !p.enabled {
		return
	}
	filled := progressBarLength * current / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("▒", progressBarLength-filled)
	percent := float64(current) / float64(p.total) * 100

	noun := "files"
	if fileCount == 1 {
		noun = "file"
	}
	fmt.Fprintf(p.out, "\r%d/%d %s %.1f%% - Gathering %d %s and data of '%s'\033[K",
		current, p.total, bar, percent, fileCount, noun, name)
}

func (p *progress) finish() {
	if !p.enabled {
		return
	}
	fmt.Fprintln(p.out)
}
