package config

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

const redacted = "********"

// Render formats accepted by RenderAs
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Redacted returns a copy of c that is safe to print
func (c *Config) Redacted() Config {
	out := *c
	if out.Sources.GitHub.Token != "" {
		out.Sources.GitHub.Token = redacted
	}
	return out
}

// Render returns the effective configuration as YAML with secrets redacted
func (c *Config) Render() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, errors.Wrap(err, "failed to render config")
	}
	return out, nil
}

// RenderAs renders the redacted configuration as YAML or TOML. TOML keys
// follow the YAML names, so the output can be saved and loaded back.
func (c *Config) RenderAs(format string) ([]byte, error) {
	switch format {
	case "", FormatYAML:
		return c.Render()
	case FormatTOML:
		data, err := c.Render()
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Wrap(err, "failed to re-read rendered config")
		}
		out, err := toml.Marshal(tree)
		if err != nil {
			return nil, errors.Wrap(err, "failed to render config as toml")
		}
		return out, nil
	default:
		return nil, errors.WithHint(
			errors.Mark(errors.Newf("unknown format %q", format), errors.ErrInvalidConfig),
			"use yaml or toml")
	}
}
