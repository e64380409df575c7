package harvest

import (
	"bytes"
	"context"
	"path"

	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// filteredPatch is a patch restricted to the files that matched
type filteredPatch struct {
	files   []fdiff.FilePatch
	message string
}

func (p filteredPatch) FilePatches() []fdiff.FilePatch { return p.files }
func (p filteredPatch) Message() string                { return p.message }

// Matches reports whether the base name of p matches any glob
func Matches(p string, globs []string) bool {
	base := path.Base(p)
	for _, g := range globs {
		if ok, _ := path.Match(g, base); ok {
			return true
		}
	}
	return false
}

// patchPath is the post-image path, or the pre-image path for deletions
func patchPath(fp fdiff.FilePatch) string {
	from, to := fp.Files()
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

// CommitDiff renders the unified diff between commit's first parent and
// commit, restricted to text files matching include. A non-empty reason
// means there is nothing to emit.
func CommitDiff(ctx context.Context, commit *object.Commit, include []string) (string, dataset.Reason, error) {
	if commit.NumParents() == 0 {
		return "", dataset.ReasonRootCommit, nil
	}
	parent, err := commit.Parent(0)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// shallow clone boundary
		return "", dataset.ReasonRootCommit, nil
	}
	if err != nil {
		return "", "", errors.Wrapf(err, "parent of %s", commit.Hash)
	}

	patch, err := parent.PatchContext(ctx, commit)
	if err != nil {
		return "", "", errors.Wrapf(err, "diff %s", commit.Hash)
	}

	var kept []fdiff.FilePatch
	for _, fp := range patch.FilePatches() {
		if fp.IsBinary() || !Matches(patchPath(fp), include) {
			continue
		}
		kept = append(kept, fp)
	}
	if len(kept) == 0 {
		return "", dataset.ReasonNoSourceChanges, nil
	}

	var buf bytes.Buffer
	enc := fdiff.NewUnifiedEncoder(&buf, fdiff.DefaultContextLines)
	if err := enc.Encode(filteredPatch{files: kept}); err != nil {
		return "", "", errors.Wrapf(err, "render diff %s", commit.Hash)
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return "", dataset.ReasonNoSourceChanges, nil
	}
	return buf.String(), "", nil
}
