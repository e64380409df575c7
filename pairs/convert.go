// Package pairs turns unified diffs into (buggy, fixed) code pairs and
// filters them into training records.
package pairs

import (
	"strings"
)

// Pair is the pre-image and post-image of a diff
type Pair struct {
	Buggy string
	Fixed string
}

// FilePair is the Pair of a single file in a multi-file diff
type FilePair struct {
	Path string
	Pair
}

const fileHeader = "diff --git"

// metadataPrefixes mark diff lines that belong to neither image
var metadataPrefixes = []string{
	fileHeader,
	"index",
	"---",
	"+++",
	"@@",
	"new file mode",
	"deleted file mode",
	"old mode",
	"new mode",
	"similarity index",
	"dissimilarity index",
	"rename from",
	"rename to",
	"copy from",
	"copy to",
	"Binary files",
	`\ No newline at end of file`,
}

func isMetadata(line string) bool {
	for _, p := range metadataPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// images accumulates the two sides of a diff
type images struct {
	buggy []string
	fixed []string
}

func (im *images) add(line string) {
	switch {
	case isMetadata(line):
	case strings.HasPrefix(line, "-"):
		im.buggy = append(im.buggy, line[1:])
	case strings.HasPrefix(line, "+"):
		im.fixed = append(im.fixed, line[1:])
	default:
		line = strings.TrimPrefix(line, " ")
		im.buggy = append(im.buggy, line)
		im.fixed = append(im.fixed, line)
	}
}

func (im *images) pair() Pair {
	return Pair{
		Buggy: strings.TrimSpace(strings.Join(im.buggy, "\n")),
		Fixed: strings.TrimSpace(strings.Join(im.fixed, "\n")),
	}
}

// Extract converts the unified diff of one commit into a single pair. All
// files of the commit are concatenated in diff order.
func Extract(diff string) Pair {
	var im images
	for _, line := range strings.Split(diff, "\n") {
		im.add(line)
	}
	return im.pair()
}

// ExtractFiles converts a unified diff into one pair per file. Text before
// the first file header is treated as a file of its own with an empty path.
func ExtractFiles(diff string) []FilePair {
	var out []FilePair
	var im images
	var header, oldPath, newPath string
	started := false

	flush := func() {
		if !started {
			return
		}
		out = append(out, FilePair{Path: filePath(header, oldPath, newPath), Pair: im.pair()})
	}

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, fileHeader) {
			flush()
			im = images{}
			header, oldPath, newPath = line, "", ""
			started = true
			continue
		}
		if !started {
			if line == "" {
				continue
			}
			started = true
		}
		switch {
		case strings.HasPrefix(line, "--- ") && oldPath == "" && newPath == "":
			oldPath = strings.TrimSpace(strings.TrimPrefix(line, "--- "))
		case strings.HasPrefix(line, "+++ ") && newPath == "":
			newPath = strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
		}
		im.add(line)
	}
	flush()
	return out
}

// filePath picks the post-image path, falling back to the pre-image path for
// deletions and to the header for patches without --- / +++ lines.
func filePath(header, oldPath, newPath string) string {
	if newPath != "" && newPath != "/dev/null" {
		return strings.TrimPrefix(newPath, "b/")
	}
	if oldPath != "" && oldPath != "/dev/null" {
		return strings.TrimPrefix(oldPath, "a/")
	}
	if i := strings.LastIndex(header, " b/"); i >= 0 {
		return header[i+len(" b/"):]
	}
	return ""
}
