package common

import (
	"strings"
	"unicode"
)

// cityPunctuation lists the non-letter characters allowed in a city name.
const cityPunctuation = "-',."

// ValidCityName reports whether s is a non-blank city name made only of letters,
// spaces and the punctuation in cityPunctuation.
func ValidCityName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsSpace(r) || strings.ContainsRune(cityPunctuation, r) {
			continue
		}
		return false
	}
	return true
}
