package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/signadot/apidiff/config"
	"github.com/signadot/apidiff/fetch"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Verbose    bool   `cli:"name=v desc='log debug messages'"`
	Gops       bool   `cli:"name=gops desc='start a gops diagnostics agent'"`
	ConfigFile string `cli:"name=config desc='config file (default .apidiff.yaml)'"`
	Color      bool   `cli:"name=color desc='encode text with color'"`

	Out      string
	CloseOut func() error

	// File holds the settings of the config file, loaded before any
	// command runs.
	File *config.Config

	ctx    context.Context
	loader *fetch.Loader

	Main *cli.Command
}

func (cfg *MainConfig) stage(flag string) (format.Stage, error) {
	if flag != "" {
		s, err := format.ParseStage(flag)
		if err != nil {
			return s, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		return s, nil
	}
	s, _ := cfg.File.Stage()
	return s, nil
}

func (cfg *MainConfig) resolve(base string, stage format.Stage, ref string) string {
	if base == "" {
		base = cfg.File.BaseURL
	}
	u := fetch.Resolve(base, stage, ref)
	theLog.Debug("resolved", "ref", ref, "url", u)
	return u
}

// policy merges the policy flags d, e and f into the config file policy.
func (cfg *MainConfig) policy(d, e, f bool) policy.Policy {
	p := cfg.File.Policy()
	p.Descriptions = p.Descriptions || d
	p.Examples = p.Examples || e
	p.Full = p.Full || f
	return p
}

func (cfg *MainConfig) format(flag string) (report.Format, error) {
	if flag != "" {
		f, err := report.ParseFormat(flag)
		if err != nil {
			return f, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		return f, nil
	}
	f, _ := cfg.File.Format()
	return f, nil
}

func (cfg *MainConfig) encOpts(w io.Writer, f report.Format) []report.EncodeOption {
	res := []report.EncodeOption{
		report.EncodeFormat(f),
	}
	if c := cfg.colors(w); c != nil {
		res = append(res, report.EncodeColors(c))
	}
	return res
}

// colors returns the colors for output to w, or nil for plain output.
func (cfg *MainConfig) colors(w io.Writer) *report.Colors {
	if cfg.Color {
		return report.NewColors()
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return nil
	}
	if cfg.File.Color != nil {
		if *cfg.File.Color {
			return report.NewColors()
		}
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return report.NewColors()
	}
	return nil
}

type DiffConfig struct {
	*MainConfig
	Stage        string `cli:"name=stage desc='documentation stage: prototype/p, runtime/r'"`
	Base         string `cli:"name=base desc='base url of published snapshots'"`
	Source       string `cli:"name=s desc='source snapshot: version, path or url'"`
	Target       string `cli:"name=t desc='target snapshot: version, path or url (default latest)'"`
	Descriptions bool   `cli:"name=d desc='include descriptions and notes'"`
	Examples     bool   `cli:"name=e desc='include examples'"`
	Full         bool   `cli:"name=f desc='include every field'"`
	Format       string `cli:"name=format desc='output format: text/t, json/j, yaml/y'"`
	Where        string `cli:"name=where desc='keep changes matching an expression over section, name and fields'"`
	ExitCode     bool   `cli:"name=exit-code desc='exit 1 when the snapshots differ'"`

	Diff *cli.Command
}

type InfoConfig struct {
	*MainConfig
	Stage string `cli:"name=stage desc='documentation stage: prototype/p, runtime/r'"`
	Base  string `cli:"name=base desc='base url of published snapshots'"`

	Info *cli.Command
}

type ShowConfig struct {
	*MainConfig
	Stage  string `cli:"name=stage desc='documentation stage: prototype/p, runtime/r'"`
	Base   string `cli:"name=base desc='base url of published snapshots'"`
	Source string `cli:"name=s desc='source snapshot: version, path or url'"`
	Target string `cli:"name=t desc='target snapshot: version, path or url (default latest)'"`
	Patch  bool   `cli:"name=patch desc='show a json merge patch instead of a line diff'"`
	Raw    bool   `cli:"name=raw desc='show the entities as published rather than normalized'"`

	Show *cli.Command
}

type DumpConfig struct {
	*MainConfig
	Stage        string `cli:"name=stage desc='documentation stage: prototype/p, runtime/r'"`
	Base         string `cli:"name=base desc='base url of published snapshots'"`
	Descriptions bool   `cli:"name=d desc='include descriptions and notes'"`
	Examples     bool   `cli:"name=e desc='include examples'"`
	Full         bool   `cli:"name=f desc='include every field'"`
	Format       string `cli:"name=format desc='output format: text/t, json/j, yaml/y'"`

	Dump *cli.Command
}
