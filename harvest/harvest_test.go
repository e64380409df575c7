package harvest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/pairs"
)

var defaultKeywords = []string{"fix", "bug", "error", "exception", "issue", "debug"}

// testRepo builds a repository commit by commit
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// commit writes files (nil content deletes) and commits them
func (r *testRepo) commit(message string, files map[string][]byte) plumbing.Hash {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	for name, content := range files {
		path := filepath.Join(r.dir, name)
		if content == nil {
			_, err := wt.Remove(name)
			require.NoError(r.t, err)
			continue
		}
		require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(r.t, os.WriteFile(path, content, 0o644))
		_, err := wt.Add(name)
		require.NoError(r.t, err)
	}
	r.when = r.when.Add(time.Minute)
	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.when}
	h, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return h
}

// bugfixRepo has a root "fix" commit, a real fix, an unrelated commit and
// a fix that touches no Python file
func bugfixRepo(t *testing.T) (*testRepo, map[string]plumbing.Hash) {
	r := newTestRepo(t)
	h := map[string]plumbing.Hash{}
	h["root"] = r.commit("fix: initial import", map[string][]byte{
		"app/greet.py": []byte("def greet():\n    print('helo')\n"),
		"README.md":    []byte("# demo\n"),
	})
	h["fix"] = r.commit("Fix typo in greeting\n\nLonger body mentioning nothing.", map[string][]byte{
		"app/greet.py": []byte("def greet():\n    print('hello')\n"),
		"README.md":    []byte("# demo app\n"),
	})
	h["docs"] = r.commit("Add usage docs", map[string][]byte{
		"docs/usage.md": []byte("run it\n"),
	})
	h["readme"] = r.commit("Fix README bug", map[string][]byte{
		"README.md": []byte("# demo application\n"),
	})
	return r, h
}

func TestSubjectAndIsBugFix(t *testing.T) {
	assert.Equal(t, "Fix crash", Subject("Fix crash\n\nbody with bug"))
	assert.True(t, IsBugFix("Handle KeyError in parser", defaultKeywords))
	assert.True(t, IsBugFix("DEBUG logging", defaultKeywords))
	assert.False(t, IsBugFix("Add feature", defaultKeywords))
	assert.False(t, IsBugFix("anything", nil))
}

func TestFilterCommits(t *testing.T) {
	r, h := bugfixRepo(t)

	got, err := FilterCommits(r.repo, defaultKeywords, 0)
	require.NoError(t, err)
	assert.Equal(t, []dataset.CommitCandidate{
		{Hash: h["readme"].String(), Message: "Fix README bug"},
		{Hash: h["fix"].String(), Message: "Fix typo in greeting"},
		{Hash: h["root"].String(), Message: "fix: initial import"},
	}, got)

	capped, err := FilterCommits(r.repo, defaultKeywords, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestCommitDiff(t *testing.T) {
	r, h := bugfixRepo(t)
	ctx := context.Background()
	load := func(name string) *object.Commit {
		c, err := r.repo.CommitObject(h[name])
		require.NoError(t, err)
		return c
	}

	diff, reason, err := CommitDiff(ctx, load("fix"), []string{"*.py"})
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Contains(t, diff, "diff --git a/app/greet.py b/app/greet.py")
	assert.Contains(t, diff, "-    print('helo')")
	assert.Contains(t, diff, "+    print('hello')")
	assert.NotContains(t, diff, "README")

	p := pairs.Extract(diff)
	assert.Equal(t, "def greet():\n    print('helo')", p.Buggy)
	assert.Equal(t, "def greet():\n    print('hello')", p.Fixed)

	_, reason, err = CommitDiff(ctx, load("readme"), []string{"*.py"})
	require.NoError(t, err)
	assert.Equal(t, dataset.ReasonNoSourceChanges, reason)

	_, reason, err = CommitDiff(ctx, load("root"), []string{"*.py"})
	require.NoError(t, err)
	assert.Equal(t, dataset.ReasonRootCommit, reason)

	diff, reason, err = CommitDiff(ctx, load("readme"), []string{"*.md"})
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Contains(t, diff, "README.md")
}

func TestCommitDiff_Deletion(t *testing.T) {
	r := newTestRepo(t)
	r.commit("init", map[string][]byte{"a.py": []byte("x = 1\n"), "keep.txt": []byte("k\n")})
	h := r.commit("fix: remove broken module", map[string][]byte{"a.py": nil})
	c, err := r.repo.CommitObject(h)
	require.NoError(t, err)

	diff, reason, err := CommitDiff(context.Background(), c, []string{"*.py"})
	require.NoError(t, err)
	assert.Empty(t, reason)
	files := pairs.ExtractFiles(diff)
	require.Len(t, files, 1)
	assert.Equal(t, "a.py", files[0].Path)
	assert.Equal(t, "x = 1", files[0].Buggy)
	assert.Empty(t, files[0].Fixed)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("pkg/deep/mod.py", []string{"*.py"}))
	assert.True(t, Matches("setup.py", []string{"*.go", "*.py"}))
	assert.False(t, Matches("mod.pyc", []string{"*.py"}))
	assert.False(t, Matches("README.md", nil))
}

func TestResolve_Local(t *testing.T) {
	r, _ := bugfixRepo(t)
	f := NewFetcher(FetchOptions{}, zaptest.NewLogger(t).Sugar())

	src, err := f.Resolve(context.Background(), r.dir)
	require.NoError(t, err)
	defer src.Cleanup()
	assert.False(t, src.IsCloned)
	assert.Equal(t, r.dir, src.LocalPath)
	assert.Empty(t, src.TempDir)

	src.Cleanup()
	src.Cleanup()
	assert.DirExists(t, r.dir, "cleanup must never touch a local repository")
}

func TestResolve_NotRepository(t *testing.T) {
	f := NewFetcher(FetchOptions{}, nil)
	_, err := f.Resolve(context.Background(), t.TempDir())
	assert.True(t, errors.IsNotRepository(err))
}

func TestResolve_FailedCloneLeavesNoTempDir(t *testing.T) {
	root := t.TempDir()
	f := NewFetcher(FetchOptions{TempRoot: root, CloneDepth: 1}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := f.Resolve(ctx, "https://127.0.0.1:1/octo/missing.git")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCloneFailed))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available for local clones")
	}
}

func TestCloneAndDownload(t *testing.T) {
	requireGit(t)
	r, h := bugfixRepo(t)
	f := NewFetcher(FetchOptions{}, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, f.Clone(ctx, r.dir, dest))
	cloned, err := git.PlainOpen(dest)
	require.NoError(t, err)
	head, err := cloned.Head()
	require.NoError(t, err)
	assert.Equal(t, h["readme"], head.Hash())

	raw := t.TempDir()
	path, fresh, err := f.Download(ctx, r.dir, raw)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, filepath.Join(raw, filepath.Base(r.dir)), path)
	assert.True(t, IsGitRepository(path))

	again, fresh, err := f.Download(ctx, r.dir, raw)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, path, again)
}

func TestDownloadAll(t *testing.T) {
	requireGit(t)
	r, _ := bugfixRepo(t)
	raw := t.TempDir()
	f := NewFetcher(FetchOptions{CloneDepth: 1}, zaptest.NewLogger(t).Sugar())
	repos := []dataset.RepositoryRecord{
		{Name: "octo/demo", URL: r.dir},
		{Name: "octo/broken", URL: "https://127.0.0.1:1/octo/broken.git"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tally, err := f.DownloadAll(ctx, repos, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Parsed)
	assert.Equal(t, 1, tally.Failed)
	assert.NoDirExists(t, filepath.Join(raw, "broken"))

	tally, err = f.DownloadAll(ctx, repos[:1], raw)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Count(dataset.ReasonAlreadyPresent))
}

func TestExtractor_Run(t *testing.T) {
	r, h := bugfixRepo(t)
	fetcher := NewFetcher(FetchOptions{}, nil)
	ex := NewExtractor(fetcher, ExtractOptions{Keywords: defaultKeywords, Include: []string{"*.py"}}, zaptest.NewLogger(t).Sugar())

	repos := []dataset.RepositoryRecord{
		{Name: "octo/missing", URL: filepath.Join(t.TempDir(), "nope")},
		{Name: "octo/demo", URL: r.dir},
	}
	var got []dataset.DiffRecord
	tally, err := ex.Run(context.Background(), repos, func(d dataset.DiffRecord) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "octo/demo", got[0].Repo)
	assert.Equal(t, h["fix"].String(), got[0].Commit)
	assert.NotEmpty(t, got[0].Diff)

	assert.Equal(t, 1, tally.Parsed)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 1, tally.Count(dataset.ReasonRootCommit))
	assert.Equal(t, 1, tally.Count(dataset.ReasonNoSourceChanges))
	assert.Equal(t, "octo/missing", tally.Problems[0].Ref)
}

func TestExtractor_RunFile(t *testing.T) {
	r, _ := bugfixRepo(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "repos.jsonl")
	out := filepath.Join(dir, "curated", "bugfix_pairs.jsonl")
	require.NoError(t, dataset.WriteAll(in, []dataset.RepositoryRecord{{Name: "octo/demo", URL: r.dir}}))

	ex := NewExtractor(NewFetcher(FetchOptions{}, nil), ExtractOptions{Keywords: defaultKeywords, Include: []string{"*.py"}, MaxCommits: 2}, nil)
	tally, err := ex.RunFile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Parsed)

	records, _, err := dataset.ReadAll[dataset.DiffRecord](out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "octo/demo", records[0].Repo)
}

func TestExtractor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ex := NewExtractor(NewFetcher(FetchOptions{}, nil), ExtractOptions{}, nil)
	_, err := ex.Run(ctx, []dataset.RepositoryRecord{{Name: "x", URL: "/x"}}, func(dataset.DiffRecord) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepoName(t *testing.T) {
	tests := map[string]string{
		"https://github.com/octo/repo.git": "repo",
		"https://github.com/octo/repo/":    "repo",
		"git@github.com:octo/tool.git":     "tool",
		"/tmp/work/local":                  "local",
		"":                                 "repo",
		"weird name@x":                     "weird-name-x",
	}
	for in, want := range tests {
		assert.Equal(t, want, RepoName(in), in)
	}
}
