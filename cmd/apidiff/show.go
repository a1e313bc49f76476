package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
	"github.com/signadot/apidiff/fetch"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/report"
)

func show(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: show requires a section and a name, got %v", cli.ErrUsage, args)
	}
	section, name := args[0], args[1]
	if cfg.Source == "" {
		return fmt.Errorf("%w: show requires a source snapshot (-s)", cli.ErrUsage)
	}
	target := cfg.Target
	if target == "" {
		target = fetch.Latest
	}
	stage, err := cfg.stage(cfg.Stage)
	if err != nil {
		return err
	}
	ops := stages[stage]
	src, tgt, err := ops.loadPair(cfg.ctx, cfg.loader,
		cfg.resolve(cfg.Base, stage, cfg.Source),
		cfg.resolve(cfg.Base, stage, target))
	if err != nil {
		return err
	}
	if !hasSection(src.doc, section) {
		return fmt.Errorf("%w: no section %q in %s snapshots", cli.ErrUsage, section, stage)
	}
	from, fromOK, err := cfg.entity(src, section, name)
	if err != nil {
		return err
	}
	to, toOK, err := cfg.entity(tgt, section, name)
	if err != nil {
		return err
	}
	if !fromOK && !toOK {
		return fmt.Errorf("%s %q not found in either snapshot", section, name)
	}

	if cfg.Patch {
		patch := to
		if fromOK && toOK {
			patch, err = jsonpatch.CreateMergePatch(from, to)
			if err != nil {
				return fmt.Errorf("error creating merge patch: %w", err)
			}
		}
		buf := &bytes.Buffer{}
		if err := json.Indent(buf, patch, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = cc.Out.Write(buf.Bytes())
		return err
	}

	lines := libdiff.TextDiff(string(from), string(to))
	if !libdiff.Changed(lines) {
		fmt.Fprintf(os.Stderr, "%s %s: unchanged\n", section, name)
		return nil
	}
	c := cfg.colors(cc.Out)
	for _, l := range lines {
		text := l.Op.Prefix() + l.Text
		switch l.Op {
		case libdiff.OpInsert:
			text = c.Color(report.InsertColor, text)
		case libdiff.OpDelete:
			text = c.Color(report.DeleteColor, text)
		}
		fmt.Fprintln(cc.Out, text)
	}
	return nil
}

func hasSection(doc document, section string) bool {
	return slices.ContainsFunc(doc.Counts(), func(c report.Count) bool {
		return c.Name == section
	})
}

// entity returns the indented json of the entity name in section of s, or
// null when s has no such entity.
func (cfg *ShowConfig) entity(s *snapshot, section, name string) ([]byte, bool, error) {
	var (
		d   []byte
		ok  bool
		err error
	)
	if cfg.Raw {
		d, ok, err = rawEntity(s.raw, section, name)
	} else {
		var v any
		v, ok = s.doc.Lookup(section, name)
		if ok {
			d, err = json.Marshal(v)
		}
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.url, err)
	}
	if !ok {
		return []byte("null"), false, nil
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, d, "", "  "); err != nil {
		return nil, false, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), true, nil
}

// rawEntity slices the entity name out of section as published.  As when
// decoding, the last entity with a given name wins.
func rawEntity(raw []byte, section, name string) ([]byte, bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	var items []json.RawMessage
	if d, ok := doc[section]; ok {
		if err := json.Unmarshal(d, &items); err != nil {
			return nil, false, fmt.Errorf("section %s: %w", section, err)
		}
	}
	var (
		res []byte
		ok  bool
	)
	for _, item := range items {
		var n struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &n); err != nil {
			return nil, false, fmt.Errorf("section %s: %w", section, err)
		}
		if n.Name == name {
			res, ok = item, true
		}
	}
	return res, ok, nil
}
