package generator

import (
	"errors"
	"strings"
)

// ErrInvalidTitle reports a title that yields an empty slug. The caller
// must treat this as a fatal synthesis error; retrying with the same
// input cannot succeed.
var ErrInvalidTitle = errors.New("title yields an empty slug")

// Slugify lowercases each whitespace-separated word, strips every
// character outside [a-z-], drops words that strip to nothing, and joins
// the survivors with hyphens.
func Slugify(title string) (string, error) {
	var words []string
	for _, word := range strings.Fields(title) {
		var b strings.Builder
		for _, r := range strings.ToLower(word) {
			if (r >= 'a' && r <= 'z') || r == '-' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			words = append(words, b.String())
		}
	}
	if len(words) == 0 {
		return "", ErrInvalidTitle
	}
	return strings.Join(words, "-"), nil
}
