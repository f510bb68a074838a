package xlsx

import (
	"strconv"
	"strings"
)

// MaxSheetName is the longest sheet name a workbook accepts.
const MaxSheetName = 31

// sheetNames hands out valid, unique sheet names.
type sheetNames struct {
	used map[string]bool
}

func newSheetNames() *sheetNames {
	return &sheetNames{used: make(map[string]bool)}
}

// next returns name made valid: forbidden characters replaced by
// underscores, truncated to MaxSheetName runes and suffixed with a counter
// when an earlier sheet already took it. Names compare case-insensitively.
func (n *sheetNames) next(name string) string {
	name = SheetName(name)
	if name == "" {
		name = "Sheet"
	}
	candidate := name
	for i := 2; n.used[strings.ToLower(candidate)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncate(name, MaxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

// SheetName replaces the characters a sheet name cannot hold and truncates
// it to MaxSheetName runes.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(truncate(strings.TrimSpace(name), MaxSheetName))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
