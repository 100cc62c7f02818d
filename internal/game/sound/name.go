package sound

import (
	"regexp"
	"strings"
)

var audioExtension = regexp.MustCompile(`\.(mp3|wav|ogg|m4a)$`)

// DisplayName turns a sound file name such as "star_wars-theme.mp3" into the
// label shown after a guess ("Star Wars Theme").
func DisplayName(filename string) string {
	if filename == "" {
		return ""
	}

	base := audioExtension.ReplaceAllString(filename, "")
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
