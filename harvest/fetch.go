// Package harvest clones repositories and turns their bug-fix commits into
// unified diffs.
package harvest

// Repository inputs are classified with hashicorp/go-getter's detectors:
//   - Local paths: /path/to/repo, ./relative/path, ~/home/path
//   - Git URLs: https://github.com/user/repo, git@github.com:user/repo.git
//   - GitHub shorthand: github.com/user/repo
// Local repositories are read in place; everything else is cloned with
// go-git into a temporary directory.

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// RepoSource is a repository available on local disk
type RepoSource struct {
	// LocalPath is the path to the local repository (either original or cloned)
	LocalPath string
	// OriginalInput is the original input (URL or path)
	OriginalInput string
	// IsCloned indicates if the repo was fetched from a remote source
	IsCloned bool
	// TempDir is the temporary directory holding the clone (empty if local)
	TempDir string
	cleanup func()
}

// Cleanup removes any temporary resources created for this repo source.
// Safe to call multiple times.
func (r *RepoSource) Cleanup() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}

// FetchOptions configure a Fetcher
type FetchOptions struct {
	// CloneDepth limits history; 0 clones everything
	CloneDepth int
	// Token authenticates https clones when set
	Token string
	// TempRoot is where temporary clones go; empty means os.TempDir()
	TempRoot string
}

// Fetcher resolves repository inputs to local working copies
type Fetcher struct {
	opts FetchOptions
	log  *zap.SugaredLogger
}

// NewFetcher returns a Fetcher
func NewFetcher(opts FetchOptions, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{opts: opts, log: logger.OrNop(log)}
}

// Resolve returns a local repository for input. Remote inputs are cloned
// into a fresh temporary directory that the returned RepoSource's Cleanup
// removes; callers defer it.
func (f *Fetcher) Resolve(ctx context.Context, input string) (*RepoSource, error) {
	remote, source, err := classify(input)
	if err != nil {
		return nil, err
	}

	if !remote {
		if !IsGitRepository(source) {
			return nil, errors.Wrapf(errors.ErrNotRepository, "%s", source)
		}
		return &RepoSource{LocalPath: source, OriginalInput: input}, nil
	}

	tempDir, err := os.MkdirTemp(f.opts.TempRoot, "curate-"+RepoName(input)+"-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	if err := f.Clone(ctx, source, tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	log := f.log
	return &RepoSource{
		LocalPath:     tempDir,
		OriginalInput: input,
		IsCloned:      true,
		TempDir:       tempDir,
		cleanup: func() {
			log.Debugw("Removing clone", logger.FieldPath, tempDir)
			os.RemoveAll(tempDir)
		},
	}, nil
}

// Clone clones source into dir, which must be empty or absent
func (f *Fetcher) Clone(ctx context.Context, source, dir string) error {
	f.log.Infow("Cloning repository", logger.FieldURL, source, logger.FieldPath, dir)
	opts := &git.CloneOptions{
		URL:   source,
		Depth: f.opts.CloneDepth,
		Tags:  git.NoTags,
	}
	if f.opts.Token != "" && strings.HasPrefix(source, "https://") {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: f.opts.Token}
	}
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return errors.Wrapf(errors.Mark(err, errors.ErrCloneFailed), "clone %s", source)
	}
	return nil
}

// Download clones input into destDir/<name> for later inspection. An
// existing destination is left alone and reported with cloned == false.
func (f *Fetcher) Download(ctx context.Context, input, destDir string) (dest string, cloned bool, err error) {
	dest = filepath.Join(destDir, RepoName(input))
	if _, err := os.Stat(dest); err == nil {
		f.log.Debugw("Repository already downloaded", logger.FieldPath, dest)
		return dest, false, nil
	}
	_, source, err := classify(input)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", false, errors.Wrapf(err, "create %s", destDir)
	}
	if err := f.Clone(ctx, source, dest); err != nil {
		os.RemoveAll(dest)
		return "", false, err
	}
	return dest, true, nil
}

// DownloadAll downloads every repository into destDir. Failures are
// recorded and the batch continues; only cancellation stops it.
func (f *Fetcher) DownloadAll(ctx context.Context, repos []dataset.RepositoryRecord, destDir string) (dataset.Tally, error) {
	var tally dataset.Tally
	for _, rec := range repos {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		input := rec.URL
		if input == "" {
			input = rec.Name
		}
		dest, cloned, err := f.Download(ctx, input, destDir)
		switch {
		case err != nil && ctx.Err() != nil:
			return tally, ctx.Err()
		case err != nil:
			f.log.Warnw("Download failed", logger.FieldRepo, rec.Name, logger.FieldError, err)
			tally.Add(dataset.FailedAt(0, err).WithRef(rec.Name))
		case !cloned:
			tally.Add(dataset.SkippedAt(0, dataset.ReasonAlreadyPresent).WithRef(rec.Name))
		default:
			f.log.Infow("Downloaded", logger.FieldRepo, rec.Name, logger.FieldPath, dest)
			tally.Add(dataset.ParsedAt(0).WithRef(rec.Name))
		}
	}
	return tally, nil
}

// classify reports whether input names a remote repository and returns the
// location to open or clone
func classify(input string) (remote bool, source string, err error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	if strings.HasPrefix(input, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return false, "", errors.Wrap(err, "failed to expand home directory")
		}
		input = filepath.Join(home, input[2:])
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return false, "", errors.Wrapf(err, "failed to detect source type of %q", input)
	}
	detected, _ = getter.SourceDirSubdir(detected)
	if i := strings.Index(detected, "::"); i >= 0 {
		detected = detected[i+2:]
	}

	u, err := url.Parse(detected)
	if err != nil {
		return false, "", errors.Wrapf(err, "failed to parse detected URL %q", detected)
	}
	if u.Scheme == "" || u.Scheme == "file" {
		local := input
		if u.Scheme == "file" {
			local = u.Path
		}
		if !filepath.IsAbs(local) {
			local = filepath.Join(pwd, local)
		}
		return false, local, nil
	}
	return true, detected, nil
}

// IsGitRepository reports whether path opens as a git repository
func IsGitRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// RepoName extracts a directory-safe repository name from a URL or path
func RepoName(input string) string {
	input = strings.TrimSuffix(input, "/")
	input = strings.TrimSuffix(input, ".git")
	if i := strings.LastIndexAny(input, "/:"); i >= 0 {
		input = input[i+1:]
	}
	return sanitizeRepoName(input)
}

// sanitizeRepoName removes or replaces characters not safe for directory names.
func sanitizeRepoName(name string) string {
	replacer := strings.NewReplacer(
		":", "-",
		"@", "-",
		" ", "-",
		"\\", "-",
	)
	name = replacer.Replace(name)
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" || name == "." || name == ".." {
		name = "repo"
	}
	return name
}
