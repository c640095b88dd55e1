package romnames

import (
	"regexp"
	"strings"
)

var hexTerm = regexp.MustCompile(`(?i)^[0-9a-f]{1,8}$`)

// ParseTerms splits a comma separated query into trimmed, non-empty terms
func ParseTerms(query string) []string {
	var terms []string
	for _, t := range strings.Split(query, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Match reports whether any term matches the entry. Terms that look like hex
// (1 to 8 hex digits) only match the signature; others match the title or
// the signature, ignoring case. A region tag split off by
// SplitTitleAndRegion is not searched.
func Match(e Entry, terms []string) bool {
	id := e.ID()
	title := strings.ToLower(e.Title)

	for _, term := range terms {
		upper := strings.ToUpper(term)
		if hexTerm.MatchString(term) {
			if strings.Contains(id, upper) {
				return true
			}
			continue
		}
		if strings.Contains(title, strings.ToLower(term)) || strings.Contains(id, upper) {
			return true
		}
	}
	return false
}

// Filter returns the entries matching any term. No terms match everything.
func Filter(entries []Entry, terms []string) []Entry {
	if len(terms) == 0 {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if Match(e, terms) {
			out = append(out, e)
		}
	}
	return out
}

// Highlight passes every case-insensitive occurrence of a term in text
// through mark
func Highlight(text string, terms []string, mark func(string) string) string {
	if len(terms) == 0 || mark == nil {
		return text
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re := regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
	return re.ReplaceAllStringFunc(text, mark)
}
