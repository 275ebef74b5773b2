package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// MatchesKeywords reports whether any single keyword term appears in text.
func MatchesKeywords(text, keywords string) bool {
	terms := strings.Fields(strings.ToLower(keywords))
	if len(terms) == 0 {
		return true
	}
	lt := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lt, t) {
			return true
		}
	}
	return false
}
