package scrape

import "strings"

// Dedupe returns urls without repeats, keeping first occurrences in order.
// URLs differing only by surrounding whitespace or fragment are repeats.
// Blank entries are dropped.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		key := normalizeURL(u)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if i := strings.IndexByte(u, '#'); i != -1 {
		u = u[:i]
	}
	return u
}
