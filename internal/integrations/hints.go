package integrations

import "regexp"

var (
	reYear    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	reAuthors = []*regexp.Regexp{
		regexp.MustCompile(`by ([A-Z][a-z]+ [A-Z][a-z]+)`),
		regexp.MustCompile(`author ([A-Z][a-z]+ [A-Z][a-z]+)`),
		regexp.MustCompile(`written by ([A-Z][a-z]+ [A-Z][a-z]+)`),
	}
	reArtists = []*regexp.Regexp{
		regexp.MustCompile(`by ([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`artist ([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`band ([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`performed by ([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	}
)

func ExtractYear(text string) string {
	return reYear.FindString(text)
}

func ExtractAuthor(text string) string {
	return firstGroup(reAuthors, text)
}

func ExtractArtist(text string) string {
	return firstGroup(reArtists, text)
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// Supplement fills year, author and artist from free text where the hints are silent.
func Supplement(h Hints, text string) Hints {
	if h.Year == "" {
		h.Year = ExtractYear(text)
	}
	if h.Author == "" {
		h.Author = ExtractAuthor(text)
	}
	if h.Artist == "" {
		h.Artist = ExtractArtist(text)
	}
	return h
}
