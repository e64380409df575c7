package harvest

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Subject returns the first line of a commit message
func Subject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}

// IsBugFix reports whether the lower-cased subject contains any keyword
func IsBugFix(subject string, keywords []string) bool {
	lower := strings.ToLower(subject)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// FilterCommits walks the log from HEAD, newest first, and returns the
// commits whose subject looks like a bug fix. max > 0 caps the result.
func FilterCommits(repo *git.Repository, keywords []string, max int) ([]dataset.CommitCandidate, error) {
	iter, err := repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read log")
	}
	defer iter.Close()

	var out []dataset.CommitCandidate
	err = iter.ForEach(func(c *object.Commit) error {
		subject := Subject(c.Message)
		if !IsBugFix(subject, keywords) {
			return nil
		}
		out = append(out, dataset.CommitCandidate{Hash: c.Hash.String(), Message: subject})
		if max > 0 && len(out) >= max {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk log")
	}
	return out, nil
}
