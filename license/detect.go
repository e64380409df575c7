// Package license classifies downloaded repositories by license and moves
// the ones that are not allowed out of the raw data directory.
package license

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// License names reported by Detect
const (
	MIT     = "MIT"
	BSD     = "BSD"
	Apache  = "Apache-2.0"
	CCBY    = "CC-BY"
	Unknown = "Unknown"
)

// Files are the license file names tried, in order
var Files = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING"}

// rules are tried in order against the lower-cased license text; the first
// match wins. Whole words only, so "submitted" is not MIT.
var rules = []struct {
	name string
	re   *regexp.Regexp
}{
	{MIT, regexp.MustCompile(`\bmit\b`)},
	{BSD, regexp.MustCompile(`\bbsd\b`)},
	{Apache, regexp.MustCompile(`\bapache\b`)},
	{CCBY, regexp.MustCompile(`\bcreative commons\b|\bcc by\b`)},
}

// Classify maps license text to a license name
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.re.MatchString(lower) {
			return r.name
		}
	}
	return Unknown
}

// Detect reads the first license file found in repoDir and classifies it.
// A repository without a license file yields "".
func Detect(repoDir string) (string, error) {
	for _, name := range Files {
		data, err := os.ReadFile(filepath.Join(repoDir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "read %s", name)
		}
		return Classify(string(data)), nil
	}
	return "", nil
}
