package normalize

import "strings"

// mojibake pairs seen in double-encoded UTF-8 job descriptions.
var mojibakeReplacer = strings.NewReplacer(
	"â€¢", "•",
	"â€“", "–",
	"â€”", "—",
	"â€™", "'",
	"â€œ", "\"",
	"â€", "\"",
	"Â·", "·",
	" ", " ",
)

// Text repairs common encoding artifacts and collapses runs of
// whitespace, preserving line boundaries so bullet lists stay readable.
func Text(s string) string {
	s = mojibakeReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			// keep at most one blank line between blocks
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, ln)
	}
	// drop a trailing blank
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// Collapse flattens all whitespace to single spaces. Used for one-line
// fields such as titles and locations.
func Collapse(s string) string {
	s = mojibakeReplacer.Replace(s)
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
