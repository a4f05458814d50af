package util

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// SanitizeName makes a string safe to use as a file or directory name on any
// platform. Spaces, slashes and backslashes become underscores; any remaining
// rune outside letters, digits and the "_-." allow-list becomes an underscore
// as well. Sanitizing an already-sanitized name is a no-op.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ' || r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// SafeFilename derives a filesystem-safe filename from a download URL: the
// basename of the URL path, sanitized. Collisions across platforms are avoided
// by never emitting characters outside the allow-list.
func SafeFilename(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = u.Path
	}
	return SanitizeName(path.Base(name))
}

// FileExtByMime maps common attachment MIME types to a file extension.
func FileExtByMime(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		if i := strings.LastIndex(mime, "/"); i != -1 && i < len(mime)-1 {
			return "." + mime[i+1:]
		}
		return ""
	}
}

// IsImageMime reports whether the MIME type is an embeddable image.
func IsImageMime(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}
