package assets

import (
	"errors"
	"fmt"

	"geeksounds/internal/game/sound"
)

// Dirs groups the directories the Library serves from.
type Dirs struct {
	Sounds      string
	BonusSounds string
	Images      string
	WinJingles  string
	LoseJingles string
}

// File is a resolved asset ready to be served.
type File struct {
	Path        string
	Name        string
	ContentType string
}

// Library resolves files requested by the front-end.
type Library struct {
	dirs Dirs
	rng  sound.RandomSource
}

func NewLibrary(dirs Dirs, rng sound.RandomSource) *Library {
	return &Library{dirs: dirs, rng: rng}
}

// SoundFile looks filename up in the bonus directory during a bonus round and
// in the standard directory otherwise.
func (l *Library) SoundFile(bonus bool, filename string) (File, error) {
	dir := l.dirs.Sounds
	if bonus {
		dir = l.dirs.BonusSounds
	}
	path, err := resolve(dir, filename)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Name: filename, ContentType: AudioContentType(filename)}, nil
}

// PlayerImage finds the first picture named after the player, trying each
// supported extension in turn.
func (l *Library) PlayerImage(playerName string) (File, error) {
	if err := validName(playerName); err != nil {
		return File{}, err
	}
	for _, ext := range imageExtensions {
		name := playerName + ext
		path, err := resolve(l.dirs.Images, name)
		if err == nil {
			return File{Path: path, Name: name, ContentType: ImageContentType(ext)}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return File{}, err
		}
	}
	return File{}, ErrNotFound
}

// RandomJingle picks one audio file from the win directory for kind "win"
// and from the lose directory for anything else.
func (l *Library) RandomJingle(kind string) (File, error) {
	dir := l.dirs.LoseJingles
	if kind == "win" {
		dir = l.dirs.WinJingles
	}

	jingles, err := listAudioFiles(dir)
	if err != nil {
		return File{}, fmt.Errorf("list %s jingles: %w", kind, err)
	}
	if len(jingles) == 0 {
		return File{}, ErrNotFound
	}

	name := jingles[l.rng.UniformIndex(len(jingles))]
	path, err := resolve(dir, name)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Name: name, ContentType: AudioContentType(name)}, nil
}
