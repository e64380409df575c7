package pairs

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangedLines counts the lines deleted from before plus the lines inserted
// into after, using a line-level diff
func ChangedLines(before, after string) int {
	dmp := diffmatchpatch.New()
	charsB, charsA, lineArray := dmp.DiffLinesToChars(withNewline(before), withNewline(after))
	diffs := dmp.DiffMain(charsB, charsA, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	changed := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		changed += strings.Count(d.Text, "\n")
	}
	return changed
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
