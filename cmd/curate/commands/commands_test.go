package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/validate"
)

func newTestRoot(sub ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:           "curate",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Prepare(cmd)
		},
	}
	AddPersistentFlags(root)
	root.AddCommand(sub...)
	return root
}

// writeConfig points every stage file into dir
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "curate.yaml")
	body := fmt.Sprintf(`sources:
  github:
    query: "language:Python"
    keywords: [debug]
paths:
  repos: %[1]s/repos.jsonl
  diffs: %[1]s/diffs.jsonl
  pairs: %[1]s/pairs.jsonl
  annotated: %[1]s/annotated.jsonl
  seen_db: %[1]s/state/seen.db
clean:
  split_files: true
annotate:
  seed: 7
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStageRange(t *testing.T) {
	all, err := StageRange("", "")
	require.NoError(t, err)
	assert.Equal(t, Pipeline, all)

	mid, err := StageRange("clean", "annotate")
	require.NoError(t, err)
	assert.Equal(t, []string{StageClean, StageAnnotate}, mid)

	_, err = StageRange("annotate", "extract")
	assert.Error(t, err)

	_, err = StageRange("bogus", "")
	assert.Error(t, err)
}

func TestRun_CleanThroughValidate(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	diff := "diff --git a/x.py b/x.py\n@@ -1,2 +1,2 @@\n def f():\n-    print('helo')\n+    print('hello')\n"
	require.NoError(t, dataset.WriteAll(filepath.Join(dir, "diffs.jsonl"), []dataset.DiffRecord{
		{Repo: "octo/r", Commit: "abc", Diff: diff},
		{Repo: "octo/r", Commit: "def", Diff: diff},
		{Repo: "octo/r", Commit: "0", Diff: ""},
	}))

	root := newTestRoot(RunCmd)
	root.SetArgs([]string{"run", "--config", cfg, "--from", "clean"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	got, _, err := dataset.ReadAll[dataset.BugfixPair](filepath.Join(dir, "pairs.jsonl"))
	require.NoError(t, err)
	require.Len(t, got, 1, "the second commit is a duplicate")
	assert.Equal(t, "def f():\n    print('helo')", got[0].Input)
	assert.Equal(t, "x.py", got[0].File)
	assert.FileExists(t, filepath.Join(dir, "state", "seen.db"))

	rep, err := validate.CheckFile(filepath.Join(dir, "annotated.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Total)
	assert.True(t, rep.Clean())
	assert.Contains(t, string(rep.Example), `"instruction"`)
}

func TestValidate_Strict(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	data := filepath.Join(dir, "data.jsonl")
	require.NoError(t, os.WriteFile(data, []byte("{\"input\":\"a\",\"output\":\"b\"}\nnot json\n"), 0o644))

	root := newTestRoot(ValidateCmd)
	root.SetArgs([]string{"validate", "--config", cfg, "--strict", data})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid lines")
	require.NoError(t, ValidateCmd.Flags().Set("strict", "false"))
}

func TestConfigShow_RedactsToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_secretvalue")
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	var out bytes.Buffer
	root := newTestRoot(ConfigCmd)
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show", "--config", cfg})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Python")
	assert.Contains(t, out.String(), "repos: "+dir+"/repos.jsonl")
	assert.NotContains(t, out.String(), "ghp_secretvalue")
}

func TestCollect_RequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	root := newTestRoot(CollectCmd)
	root.SetArgs([]string{"collect", "--config", cfg})
	err := root.Execute()
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "repos.jsonl"))
}

func TestVersion_SkipsConfig(t *testing.T) {
	var out bytes.Buffer
	root := newTestRoot(VersionCmd)
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--config", "/does/not/exist.yaml"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "curate ")
}
