package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Stuhl_rot_v2", SanitizeName("Stuhl rot/v2"))
	assert.Equal(t, "Bühnen-Möbel_1.2", SanitizeName("Bühnen-Möbel 1.2"))
	assert.Equal(t, "a_b_c", SanitizeName(`a\b"c`))
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"Stuhl rot/v2",
		"Bühnen-Möbel (groß)",
		"already_safe-name.txt",
		`weird*?"<>|chars`,
	}
	for _, in := range inputs {
		once := SanitizeName(in)
		assert.Equal(t, once, SanitizeName(once), "re-sanitizing %q must be a no-op", in)
	}
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "photo_1.jpg",
		SafeFilename("https://storage.example.com/media/items/photo%201.jpg?sig=abc"))
	assert.Equal(t, "Anleitung_für_Tisch.pdf",
		SafeFilename("https://storage.example.com/docs/Anleitung für Tisch.pdf"))
}

func TestSafeFilenameIdempotent(t *testing.T) {
	name := SafeFilename("https://cdn.example.com/x/Teller Set (6).png")
	assert.Equal(t, name, SafeFilename(name))
}

func TestFileExtByMime(t *testing.T) {
	assert.Equal(t, ".jpg", FileExtByMime("image/jpeg"))
	assert.Equal(t, ".pdf", FileExtByMime("application/pdf"))
	assert.Equal(t, ".svg+xml", FileExtByMime("image/svg+xml"))
	assert.Equal(t, "", FileExtByMime("garbage"))
}
