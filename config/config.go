// Package config reads the optional apidiff configuration file.
//
//	baseURL: https://lua-api.factorio.com
//	stage: runtime
//	descriptions: true
//	format: text
//	color: false
//
// Command line flags override any value set here.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = ".apidiff.yaml"

var ErrBadConfig = errors.New("bad config")

type Config struct {
	BaseURL      string `yaml:"baseURL,omitempty"`
	StageName    string `yaml:"stage,omitempty"`
	Descriptions bool   `yaml:"descriptions,omitempty"`
	Examples     bool   `yaml:"examples,omitempty"`
	Full         bool   `yaml:"full,omitempty"`
	FormatName   string `yaml:"format,omitempty"`
	Color        *bool  `yaml:"color,omitempty"`
	Where        string `yaml:"where,omitempty"`

	stage  *format.Stage
	format *report.Format
}

// Load reads the config at path.  With an empty path the default file is
// read if it exists.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if c.StageName != "" {
		s, err := format.ParseStage(c.StageName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
		}
		c.stage = &s
	}
	if c.FormatName != "" {
		f, err := report.ParseFormat(c.FormatName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
		}
		c.format = &f
	}
	if c.Where != "" {
		if _, err := report.NewFilter(c.Where); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
		}
	}
	return c, nil
}

// Stage returns the configured stage, if any.  Without one it is the
// prototype stage.
func (c *Config) Stage() (format.Stage, bool) {
	if c.stage == nil {
		return format.PrototypeStage, false
	}
	return *c.stage, true
}

// Format returns the configured output format, if any.
func (c *Config) Format() (report.Format, bool) {
	if c.format == nil {
		return report.TextFormat, false
	}
	return *c.format, true
}

func (c *Config) Policy() policy.Policy {
	return policy.Policy{
		Descriptions: c.Descriptions,
		Examples:     c.Examples,
		Full:         c.Full,
	}
}
