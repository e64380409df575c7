package config

import "github.com/spf13/viper"

// DefaultPath is the configuration file read when --config is not given
const DefaultPath = "configs/tiny.yaml"

// Default search settings
var (
	DefaultQuery    = "language:Python stars:>50"
	DefaultKeywords = []string{
		"debug",
		"traceback",
		"logging",
		"exception handling",
		"error handling",
		"try except",
		"fix bug",
		"assert",
	}
	DefaultCommitKeywords = []string{"fix", "bug", "error", "exception", "issue", "debug"}
	DefaultDebugKeywords  = []string{
		"debug", "traceback", "logger", "logging", "exception", "try:",
		"except", "assert", "raise", "print(", "error", "warning",
	}
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Repository search
	v.SetDefault("sources.github.query", DefaultQuery)
	v.SetDefault("sources.github.keywords", DefaultKeywords)
	v.SetDefault("sources.github.max_repos", 10)
	v.SetDefault("sources.github.requests_per_minute", 30) // authenticated search limit
	v.SetDefault("sources.github.api_url", "")

	// License gate
	v.SetDefault("compliance.license_allow", []string{"MIT", "BSD", "Apache-2.0"})

	// Stage files
	v.SetDefault("paths.repos", "data/raw/collected_repos/python_debug_repos.jsonl")
	v.SetDefault("paths.diffs", "data/curated/bugfix_pairs.jsonl")
	v.SetDefault("paths.pairs", "data/curated/debugging_clean.jsonl")
	v.SetDefault("paths.annotated", "data/curated/debugging_with_instructions.jsonl")
	v.SetDefault("paths.raw_dir", "data/raw")
	v.SetDefault("paths.quarantine_dir", "data/quarantine")
	v.SetDefault("paths.license_report", "reports/quarantine.csv")
	v.SetDefault("paths.snippets", "data/curated/debug_code.jsonl")
	v.SetDefault("paths.debug_examples", "data/curated/debugging_dataset.jsonl")
	v.SetDefault("paths.seen_db", "")

	// Commit selection
	v.SetDefault("extract.keywords", DefaultCommitKeywords)
	v.SetDefault("extract.include", []string{"*.py"})
	v.SetDefault("extract.max_commits", 0)
	v.SetDefault("extract.clone_depth", 0)

	// Pair cleaning
	v.SetDefault("clean.split_files", true)
	v.SetDefault("clean.dedupe", true)
	v.SetDefault("clean.max_changed_lines", 0)
	v.SetDefault("clean.language", "python")

	v.SetDefault("annotate.seed", 0)

	v.SetDefault("snippets.include", []string{"*.py"})
	v.SetDefault("snippets.keywords", DefaultDebugKeywords)
}

// BindSensitiveEnvVars binds secrets to their conventional environment names
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("sources.github.token", "GITHUB_TOKEN")
}
