package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reSeparators = regexp.MustCompile(`[\s_]+`)
	reInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
	reDashes     = regexp.MustCompile(`-{2,}`)
)

const minLength = 3

// Make lowercases s and reduces it to [a-z0-9-] with single dashes between words.
func Make(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = reSeparators.ReplaceAllString(out, "-")
	out = reInvalid.ReplaceAllString(out, "")
	out = reDashes.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// ForEntity builds the base slug for an entity, widening it with the description
// when the name alone slugifies to something too short to be useful.
func ForEntity(name, description string) string {
	base := Make(name)
	if len(base) < minLength && strings.TrimSpace(description) != "" {
		base = Make(name + " " + description)
	}
	if len(base) < minLength {
		base = strings.Trim("entity-"+base, "-")
	}
	return base
}

// DimensionName inverts Make for dimension slugs: "gore-violence" -> "Gore Violence".
func DimensionName(s string) string {
	words := strings.Split(strings.Trim(s, "-"), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
