package caption

import (
	"regexp"
	"strings"
)

var (
	// inline word timings such as <00:00:01.500>
	timestampTag = regexp.MustCompile(`<\d\d:\d\d:\d\d\.\d+>`)
	// emphasis spans: <c>, </c> and styled variants like <c.colorE5E5E5>
	spanTag = regexp.MustCompile(`</?c(\.[\w.]+)?>`)
	// cue sequence numbers
	sequenceLine = regexp.MustCompile(`^\d+$`)

	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Normalize turns raw WebVTT caption markup into one line of plain text.
// Besides plain <c> and </c>, styled spans such as <c.colorE5E5E5> are stripped too.
// Overlapping cues repeat lines, so each distinct line is kept once, first occurrence first.
func Normalize(raw string) string {
	text := timestampTag.ReplaceAllString(raw, "")
	text = spanTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, ">>", "")
	text = lineEndings.Replace(text)

	seen := make(map[string]struct{})
	var lines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "-->") || sequenceLine.MatchString(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}

	return strings.Join(lines, " ")
}
