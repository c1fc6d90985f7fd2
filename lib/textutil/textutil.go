package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// SlugTitle turns a dashed record id into a display title, dropping the
// trailing numeric suffix: "box-of-chocolate-candy-3" -> "Box Of Chocolate Candy".
func SlugTitle(slug string) string {
	base := slug
	if idx := strings.LastIndexByte(slug, '-'); idx > 0 {
		base = slug[:idx]
	}
	words := strings.Split(base, "-")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

var termRegex = regexp.MustCompile(`[a-z0-9']+`)

// Tokenize lower-cases text and splits it into word-cloud terms.
func Tokenize(text string) []string {
	return termRegex.FindAllString(strings.ToLower(text), -1)
}
