package model

import "strings"

const (
	aliasMinLength = 3
	aliasMaxLength = 3
)

// GenerateAlias derives a short lowercase code from a name. The initials of
// the words (split on '_' or, failing that, on spaces) come first; if that is
// shorter than three characters, letters following each initial are appended
// word by word. The result is cut to three characters.
func GenerateAlias(name string) string {
	name = strings.ToLower(name)

	var words []string
	switch {
	case strings.Contains(name, "_"):
		words = strings.Split(name, "_")
	case strings.Contains(name, " "):
		words = strings.Split(name, " ")
	default:
		words = []string{name}
	}

	var alias []rune
	for _, word := range words {
		if word == "" {
			continue
		}
		alias = append(alias, []rune(word)[0])
	}

	if len(alias) < aliasMinLength {
		for _, word := range words {
			letters := []rune(word)
			for i := 1; len(alias) < aliasMinLength && i < len(letters); i++ {
				alias = append(alias, letters[i])
			}
		}
	}

	if len(alias) > aliasMaxLength {
		alias = alias[:aliasMaxLength]
	}
	return string(alias)
}
