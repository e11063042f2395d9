package game

import (
	"strings"
	"unicode"
)

// Slugify converts free-form text into a lowercase URL-friendly slug.
// Runs of non-alphanumeric characters collapse into single hyphens.
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
