package render

import (
	_ "embed"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/i18n"
)

// The API does not make custom fields queryable, so their opaque keys get
// human labels from a static translation table shipped with the binary.
//
//go:embed labels/de-de.all.json
var labelFile []byte

var loadLabelsOnce sync.Once

// Labels maps opaque custom-field keys to human-readable labels. Unknown keys
// fall back to the raw key.
type Labels struct {
	t goi18n.TranslateFunc
}

func LoadLabels() Labels {
	loadLabelsOnce.Do(func() {
		_ = goi18n.ParseTranslationFileBytes("de-de.all.json", labelFile)
	})
	t, err := goi18n.Tfunc("de-DE")
	if err != nil {
		return Labels{}
	}
	return Labels{t: t}
}

func (l Labels) For(key string) string {
	if l.t == nil {
		return key
	}
	if label := l.t(key); label != "" && label != key {
		return label
	}
	return key
}
