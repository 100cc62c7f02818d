// Package assets resolves the sound, image and jingle files served by the
// game and exposes the sound directories as a sound.Catalog.
package assets

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrInvalidName = errors.New("invalid asset name")
)

var audioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a"}

// imageExtensions are tried in this order when looking up a player picture.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsAudioFile reports whether name has one of the supported audio extensions.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range audioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func AudioContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(name, ".ogg"):
		return "audio/ogg"
	case strings.HasSuffix(name, ".m4a"):
		return "audio/mp4"
	default:
		return "audio/mpeg"
	}
}

func ImageContentType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// validName rejects anything that could escape the asset directory.
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}
