// Package dataset holds the JSON Lines record types exchanged between
// pipeline stages, together with the streaming reader and atomic writer
// every stage uses.
package dataset

// Task labels written into curated records
const (
	TaskCodeDebugging = "code_debugging"
	TaskDebugging     = "debugging"
)

// RepositoryRecord is one discovered repository
type RepositoryRecord struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	Keyword     string `json:"keyword"`
}

// CommitCandidate is a commit whose subject looks like a bug fix
type CommitCandidate struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// DiffRecord is the unified diff of one bug-fix commit. Diff is never empty.
type DiffRecord struct {
	Repo   string `json:"repo"`
	Commit string `json:"commit"`
	Diff   string `json:"diff"`
}

// BugfixPair is a cleaned (buggy, fixed) training pair. Input and Output are
// non-empty and differ.
type BugfixPair struct {
	Repo     string `json:"repo"`
	Task     string `json:"task"`
	Language string `json:"language"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Commit   string `json:"commit,omitempty"`
	File     string `json:"file,omitempty"`
}

// LicenseDecision is one row of the license report
type LicenseDecision struct {
	Repo     string `csv:"repo" json:"repo"`
	License  string `csv:"license" json:"license"`
	Decision string `csv:"decision" json:"decision"`
}

// License gate decisions
const (
	DecisionKeep       = "keep"
	DecisionQuarantine = "quarantine"
)

// DebugSnippet is a source file that contains debugging constructs
type DebugSnippet struct {
	Repo string `json:"repo"`
	File string `json:"file"`
	Code string `json:"code"`
}

// DebugExample is a curated debugging record built from a DebugSnippet
type DebugExample struct {
	Task     string        `json:"task"`
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Metadata DebugMetadata `json:"metadata"`
}

// DebugMetadata describes the code in a DebugExample
type DebugMetadata struct {
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
}
