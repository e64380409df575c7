package config

import (
	"path/filepath"
	"strings"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// maxPerPage is the largest page the GitHub search API returns
const maxPerPage = 100

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	gh := c.Sources.GitHub
	if gh.MaxRepos <= 0 || gh.MaxRepos > maxPerPage {
		return invalidf("sources.github.max_repos must be in 1..%d, got %d", maxPerPage, gh.MaxRepos)
	}
	if gh.RequestsPerMinute <= 0 {
		return invalidf("sources.github.requests_per_minute must be > 0, got %d", gh.RequestsPerMinute)
	}
	if strings.TrimSpace(gh.Query) == "" && len(gh.Keywords) == 0 {
		return invalidf("sources.github.query and sources.github.keywords cannot both be empty")
	}

	if c.Extract.MaxCommits < 0 {
		return invalidf("extract.max_commits must be >= 0, got %d", c.Extract.MaxCommits)
	}
	if c.Extract.CloneDepth < 0 {
		return invalidf("extract.clone_depth must be >= 0, got %d", c.Extract.CloneDepth)
	}
	if err := checkGlobs("extract.include", c.Extract.Include); err != nil {
		return err
	}
	if err := checkGlobs("snippets.include", c.Snippets.Include); err != nil {
		return err
	}

	if c.Clean.MaxChangedLines < 0 {
		return invalidf("clean.max_changed_lines must be >= 0, got %d", c.Clean.MaxChangedLines)
	}
	return nil
}

// RequireToken returns ErrMissingToken unless a GitHub token is configured.
// Commands that talk to GitHub call it before making any request.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Sources.GitHub.Token) == "" {
		return errors.WithHint(errors.ErrMissingToken,
			"set GITHUB_TOKEN in the environment or in a .env file")
	}
	return nil
}

func checkGlobs(key string, globs []string) error {
	if len(globs) == 0 {
		return invalidf("%s cannot be empty", key)
	}
	for _, g := range globs {
		if _, err := filepath.Match(g, ""); err != nil {
			return invalidf("%s: bad pattern %q", key, g)
		}
	}
	return nil
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
}
