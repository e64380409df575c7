// Package display renders command results for humans (pterm) or machines
// (JSON on stdout).
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// ShouldOutputJSON reports whether the command was asked for JSON output,
// either by its own --json flag or the root's persistent one
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}
	v, _ := cmd.Root().PersistentFlags().GetBool("json")
	return v
}

// OutputJSON prints v as indented JSON on stdout
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}

// WriteJSON writes v as indented JSON followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
