package chat

import (
	"strings"
)

const (
	titleNameRunes = 5
	titleRunes     = 20
)

// Title builds a short window title from the frames' display names.
//
// Blank names are skipped. Each name is cut to 5 runes and the joined result to 20, with ".." marking a cut.
func Title(frames []*Frame) string {
	var names []string
	for _, f := range frames {
		name := strings.TrimSpace(f.Entry.DisplayName())
		if name == "" {
			continue
		}
		names = append(names, ellipsis(name, titleNameRunes))
	}
	return ellipsis(strings.Join(names, ","), titleRunes)
}

func ellipsis(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + ".."
}
