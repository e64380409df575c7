// Package snippets mines source files that contain debugging constructs and
// curates them into debugging examples.
package snippets

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/harvest"
)

// IsDebugLine reports whether the lower-cased line contains any keyword
func IsDebugLine(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// SplitLines splits code into lines without terminators. A trailing newline
// does not start an extra line.
func SplitLines(code string) []string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.TrimSuffix(code, "\n")
	if code == "" {
		return nil
	}
	return strings.Split(code, "\n")
}

// DebugLines returns the lines of code that contain a keyword
func DebugLines(code string, keywords []string) []string {
	var out []string
	for _, line := range SplitLines(code) {
		if IsDebugLine(line, keywords) {
			out = append(out, line)
		}
	}
	return out
}

// Scan walks repoDir and emits every file matching include that has at
// least one debug line. File paths are relative to repoDir.
func Scan(ctx context.Context, repoDir, repo string, include, keywords []string, emit func(dataset.DebugSnippet) error) error {
	return filepath.WalkDir(repoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return ctx.Err()
		}
		if !d.Type().IsRegular() || !harvest.Matches(path, include) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		code := string(data)
		if len(DebugLines(code, keywords)) == 0 {
			return nil
		}
		rel, err := filepath.Rel(repoDir, path)
		if err != nil {
			rel = path
		}
		return emit(dataset.DebugSnippet{Repo: repo, File: filepath.ToSlash(rel), Code: code})
	})
}

// Curate turns a snippet into a debugging example: the debug lines are the
// input and the whole file is the output. ok is false when the snippet has
// no debug lines.
func Curate(s dataset.DebugSnippet, keywords []string, language string) (ex dataset.DebugExample, ok bool) {
	lines := DebugLines(s.Code, keywords)
	if len(lines) == 0 {
		return dataset.DebugExample{}, false
	}
	return dataset.DebugExample{
		Task:   dataset.TaskDebugging,
		Input:  strings.Join(lines, "\n"),
		Output: s.Code,
		Metadata: dataset.DebugMetadata{
			Language:  language,
			LineCount: len(SplitLines(s.Code)),
		},
	}, true
}
