package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultQuery, cfg.Sources.GitHub.Query)
	assert.Equal(t, DefaultKeywords, cfg.Sources.GitHub.Keywords)
	assert.Equal(t, 10, cfg.Sources.GitHub.MaxRepos)
	assert.Equal(t, []string{"MIT", "BSD", "Apache-2.0"}, cfg.Compliance.LicenseAllow)
	assert.Equal(t, []string{"*.py"}, cfg.Extract.Include)
	assert.True(t, cfg.Clean.SplitFiles)
	assert.True(t, cfg.Clean.Dedupe)
	assert.Equal(t, "data/curated/debugging_clean.jsonl", cfg.Paths.Pairs)
	assert.Empty(t, cfg.Paths.SeenDB)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.yaml", `
sources:
  github:
    query: "language:Go stars:>10"
    max_repos: 3
    keywords: [panic]
compliance:
  license_allow: [MIT]
clean:
  split_files: false
  max_changed_lines: 40
`)

	cfg, err := Load(Options{Path: path, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "language:Go stars:>10", cfg.Sources.GitHub.Query)
	assert.Equal(t, 3, cfg.Sources.GitHub.MaxRepos)
	assert.Equal(t, []string{"panic"}, cfg.Sources.GitHub.Keywords)
	assert.Equal(t, []string{"MIT"}, cfg.Compliance.LicenseAllow)
	assert.False(t, cfg.Clean.SplitFiles)
	assert.Equal(t, 40, cfg.Clean.MaxChangedLines)
	// untouched keys keep their defaults
	assert.Equal(t, 30, cfg.Sources.GitHub.RequestsPerMinute)
	assert.Equal(t, DefaultCommitKeywords, cfg.Extract.Keywords)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(Options{Path: filepath.Join(dir, "nope.yaml"), EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "sources:\n  github:\n    max_repos: 0\n")

	_, err := Load(Options{Path: path, EnvFile: filepath.Join(dir, "missing.env")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")
	dir := t.TempDir()

	cfg, err := Load(Options{Path: writeFile(t, dir, "c.yaml", "{}\n"), EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", cfg.Sources.GitHub.Token)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoad_TokenFromDotEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	require.NoError(t, os.Unsetenv("GITHUB_TOKEN"))
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "GITHUB_TOKEN=ghp_from_dotenv\n")

	cfg, err := Load(Options{Path: writeFile(t, dir, "c.yaml", "{}\n"), EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_dotenv", cfg.Sources.GitHub.Token)
}

func TestRequireToken(t *testing.T) {
	cfg := Defaults()

	err := cfg.RequireToken()
	require.Error(t, err)
	assert.True(t, errors.IsMissingToken(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	cfg.Sources.GitHub.Token = "   "
	assert.True(t, errors.IsMissingToken(cfg.RequireToken()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"max_repos zero", func(c *Config) { c.Sources.GitHub.MaxRepos = 0 }, true},
		{"max_repos above page size", func(c *Config) { c.Sources.GitHub.MaxRepos = 101 }, true},
		{"rate zero", func(c *Config) { c.Sources.GitHub.RequestsPerMinute = 0 }, true},
		{"no query and no keywords", func(c *Config) {
			c.Sources.GitHub.Query = ""
			c.Sources.GitHub.Keywords = nil
		}, true},
		{"query only", func(c *Config) { c.Sources.GitHub.Keywords = nil }, false},
		{"negative max_commits", func(c *Config) { c.Extract.MaxCommits = -1 }, true},
		{"negative clone_depth", func(c *Config) { c.Extract.CloneDepth = -2 }, true},
		{"empty include", func(c *Config) { c.Extract.Include = nil }, true},
		{"bad glob", func(c *Config) { c.Snippets.Include = []string{"[a-"} }, true},
		{"negative max_changed_lines", func(c *Config) { c.Clean.MaxChangedLines = -1 }, true},
		{"empty allow list", func(c *Config) { c.Compliance.LicenseAllow = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRender_RedactsToken(t *testing.T) {
	cfg := Defaults()
	cfg.Sources.GitHub.Token = "ghp_secret"

	out, err := cfg.Render()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ghp_secret")
	assert.Contains(t, string(out), "max_repos: 10")
	assert.Contains(t, string(out), "license_allow:")
	// the caller's copy is untouched
	assert.Equal(t, "ghp_secret", cfg.Sources.GitHub.Token)
}

func TestRenderAs_TOMLLoadsBack(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	cfg := Defaults()

	out, err := cfg.RenderAs(FormatTOML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[sources.github]")

	path := writeFile(t, t.TempDir(), "curate.toml", string(out))
	loaded, err := Load(Options{Path: path, EnvFile: filepath.Join(t.TempDir(), "none.env")})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = cfg.RenderAs("ini")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
