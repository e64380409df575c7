package config

// Config is the pipeline configuration. It is built once by the CLI root
// command and passed explicitly to each stage.
type Config struct {
	Sources    SourcesConfig    `mapstructure:"sources" yaml:"sources"`
	Compliance ComplianceConfig `mapstructure:"compliance" yaml:"compliance"`
	Paths      PathsConfig      `mapstructure:"paths" yaml:"paths"`
	Extract    ExtractConfig    `mapstructure:"extract" yaml:"extract"`
	Clean      CleanConfig      `mapstructure:"clean" yaml:"clean"`
	Annotate   AnnotateConfig   `mapstructure:"annotate" yaml:"annotate"`
	Snippets   SnippetsConfig   `mapstructure:"snippets" yaml:"snippets"`
}

// SourcesConfig lists where repositories are discovered
type SourcesConfig struct {
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
}

// GitHubConfig configures the repository search
type GitHubConfig struct {
	Token             string   `mapstructure:"token" yaml:"token"`                             // from GITHUB_TOKEN or .env
	Query             string   `mapstructure:"query" yaml:"query"`                             // appended to every keyword
	Keywords          []string `mapstructure:"keywords" yaml:"keywords"`                       // one search per keyword
	MaxRepos          int      `mapstructure:"max_repos" yaml:"max_repos"`                     // results kept per search
	RequestsPerMinute int      `mapstructure:"requests_per_minute" yaml:"requests_per_minute"` // search API budget
	APIURL            string   `mapstructure:"api_url" yaml:"api_url"`                         // empty = api.github.com
}

// ComplianceConfig configures the license gate
type ComplianceConfig struct {
	LicenseAllow []string `mapstructure:"license_allow" yaml:"license_allow"`
}

// PathsConfig holds every file and directory the stages read or write
type PathsConfig struct {
	Repos         string `mapstructure:"repos" yaml:"repos"`
	Diffs         string `mapstructure:"diffs" yaml:"diffs"`
	Pairs         string `mapstructure:"pairs" yaml:"pairs"`
	Annotated     string `mapstructure:"annotated" yaml:"annotated"`
	RawDir        string `mapstructure:"raw_dir" yaml:"raw_dir"`
	QuarantineDir string `mapstructure:"quarantine_dir" yaml:"quarantine_dir"`
	LicenseReport string `mapstructure:"license_report" yaml:"license_report"`
	Snippets      string `mapstructure:"snippets" yaml:"snippets"`
	DebugExamples string `mapstructure:"debug_examples" yaml:"debug_examples"`
	SeenDB        string `mapstructure:"seen_db" yaml:"seen_db"`               // empty = in-memory dedupe only
}

// ExtractConfig configures commit selection and diff rendering
type ExtractConfig struct {
	Keywords   []string `mapstructure:"keywords" yaml:"keywords"`       // matched against the lower-cased subject
	Include    []string `mapstructure:"include" yaml:"include"`         // globs matched against the file base name
	MaxCommits int      `mapstructure:"max_commits" yaml:"max_commits"` // 0 = no cap
	CloneDepth int      `mapstructure:"clone_depth" yaml:"clone_depth"` // 0 = full history
}

// CleanConfig configures the pair filter
type CleanConfig struct {
	SplitFiles      bool   `mapstructure:"split_files" yaml:"split_files"`
	Dedupe          bool   `mapstructure:"dedupe" yaml:"dedupe"`
	MaxChangedLines int    `mapstructure:"max_changed_lines" yaml:"max_changed_lines"` // 0 = no limit
	Language        string `mapstructure:"language" yaml:"language"`
}

// AnnotateConfig configures the instruction annotator
type AnnotateConfig struct {
	Seed uint64 `mapstructure:"seed" yaml:"seed"` // 0 = seeded from the clock
}

// SnippetsConfig configures debug-snippet mining
type SnippetsConfig struct {
	Include  []string `mapstructure:"include" yaml:"include"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}
