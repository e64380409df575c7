package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
)

func fixed(t *testing.T, instruction string) *Annotator {
	return NewWithSource(rand.NewPCG(1, 2), []string{instruction}, zaptest.NewLogger(t).Sugar())
}

func encode(t *testing.T, rec *Record) string {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(rec))
	return strings.TrimSuffix(buf.String(), "\n")
}

func TestCatalog(t *testing.T) {
	assert.Len(t, Instructions, 20)
	seen := map[string]bool{}
	for _, s := range Instructions {
		assert.False(t, seen[s], "duplicate instruction %q", s)
		seen[s] = true
	}
}

func TestAnnotate_InsertsFirstKey(t *testing.T) {
	a := fixed(t, "Fix the bugs in the following code.")
	line := `{"repo":"octo/a","task":"code_debugging","language":"python","input":"x = 1","output":"x = 2"}`

	rec, reason := a.Annotate([]byte(line))
	require.Empty(t, reason)
	assert.Equal(t,
		`{"instruction":"Fix the bugs in the following code.","repo":"octo/a","task":"code_debugging","language":"python","input":"x = 1","output":"x = 2"}`,
		encode(t, rec))
}

func TestAnnotate_PreservesValues(t *testing.T) {
	a := fixed(t, "Debug it.")
	line := `{"z":1.50,"nested":{"b":1,"a":[true,null]},"a":"<tag> & é"}`

	rec, reason := a.Annotate([]byte(line))
	require.Empty(t, reason)

	keys := []string{}
	for p := rec.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"instruction", "z", "nested", "a"}, keys)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(encode(t, rec)), &got))
	assert.Equal(t, "<tag> & é", got["a"])
	assert.Equal(t, 1.5, got["z"])
	assert.Equal(t, map[string]any{"b": float64(1), "a": []any{true, nil}}, got["nested"])
}

func TestAnnotate_KeepsExistingInstruction(t *testing.T) {
	a := fixed(t, "New.")
	rec, reason := a.Annotate([]byte(`{"input":"a","instruction":"Old.","output":"b"}`))
	require.Empty(t, reason)
	assert.Equal(t, `{"instruction":"Old.","input":"a","output":"b"}`, encode(t, rec))
}

func TestAnnotate_Rejects(t *testing.T) {
	a := fixed(t, "x")
	tests := []struct {
		line string
		want dataset.Reason
	}{
		{"", dataset.ReasonBlankLine},
		{"   ", dataset.ReasonBlankLine},
		{"{not json", dataset.ReasonMalformedJSON},
		{`{"a":1}{"b":2}`, dataset.ReasonMalformedJSON},
		{`[1,2]`, dataset.ReasonNotObject},
		{`"text"`, dataset.ReasonNotObject},
		{`null`, dataset.ReasonNotObject},
	}
	for _, tt := range tests {
		_, reason := a.Annotate([]byte(tt.line))
		assert.Equal(t, tt.want, reason, "line %q", tt.line)
	}
}

func TestSeededChoicesAreReproducible(t *testing.T) {
	a, b := New(42, nil), New(42, nil)
	varied := map[string]bool{}
	for i := 0; i < 200; i++ {
		pa := a.Pick()
		assert.Equal(t, pa, b.Pick())
		assert.Contains(t, Instructions, pa)
		varied[pa] = true
	}
	assert.Greater(t, len(varied), 1)
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		`{"input":"a","output":"b"}`,
		`broken`,
		`[]`,
		``,
		`{"input":"c","output":"d"}`,
	}, "\n")

	a := fixed(t, "Fix.")
	var out []string
	tally, err := a.Run(context.Background(), strings.NewReader(input), func(rec *Record) error {
		out = append(out, encode(t, rec))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"instruction":"Fix.","input":"a","output":"b"}`,
		`{"instruction":"Fix.","input":"c","output":"d"}`,
	}, out)
	assert.Equal(t, 2, tally.Parsed)
	assert.Equal(t, 1, tally.Count(dataset.ReasonMalformedJSON))
	assert.Equal(t, 1, tally.Count(dataset.ReasonNotObject))
	assert.Equal(t, 1, tally.Count(dataset.ReasonBlankLine))
	assert.Equal(t, 2, tally.Problems[0].Line)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clean.jsonl")
	out := filepath.Join(dir, "curated", "annotated.jsonl")
	require.NoError(t, os.WriteFile(in, []byte(`{"input":"a","output":"b"}`+"\n"), 0o644))

	tally, err := fixed(t, "Fix.").RunFile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Parsed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"instruction":"Fix.","input":"a","output":"b"}`+"\n", string(data))
}
