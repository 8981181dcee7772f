package convert

import (
	"regexp"
	"sort"
	"strings"
)

// urlPattern runs greedily up to the next ASCII or Unicode space, BOM included.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{FEFF}]+`)

// ExtractURLs returns every URL in text in order of appearance, duplicates kept.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// Dedupe drops repeats and keeps first-occurrence order.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Substitute replaces every occurrence of each original with its replacement
// in one pass. Longer originals are tried first at each position and
// replaced output is never rescanned.
func Substitute(text string, conversions []Conversion) string {
	if len(conversions) == 0 {
		return text
	}

	sorted := make([]Conversion, len(conversions))
	copy(sorted, conversions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Original) > len(sorted[j].Original)
	})

	pairs := make([]string, 0, 2*len(sorted))
	for _, c := range sorted {
		pairs = append(pairs, c.Original, c.Replacement())
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
