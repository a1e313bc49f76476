package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/apidiff/fetch"
	"github.com/signadot/apidiff/report"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: diff takes no arguments, got %v", cli.ErrUsage, args)
	}
	if cfg.Source == "" {
		return fmt.Errorf("%w: diff requires a source snapshot (-s)", cli.ErrUsage)
	}
	target := cfg.Target
	if target == "" {
		target = fetch.Latest
	}
	stage, err := cfg.stage(cfg.Stage)
	if err != nil {
		return err
	}
	f, err := cfg.format(cfg.Format)
	if err != nil {
		return err
	}
	where := cfg.Where
	if where == "" {
		where = cfg.File.Where
	}
	var filter *report.Filter
	if where != "" {
		filter, err = report.NewFilter(where)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}

	ops := stages[stage]
	src, tgt, err := ops.loadPair(cfg.ctx, cfg.loader,
		cfg.resolve(cfg.Base, stage, cfg.Source),
		cfg.resolve(cfg.Base, stage, target))
	if err != nil {
		return err
	}
	p := cfg.policy(cfg.Descriptions, cfg.Examples, cfg.Full)
	theLog.Debug("diff", "source", src.url, "target", tgt.url, "policy", p)
	rep := report.New(stage, src.doc.Head(), tgt.doc.Head(), ops.diff(src.doc, tgt.doc, p))
	if filter != nil {
		rep, err = rep.Apply(filter)
		if err != nil {
			return err
		}
	}
	if err := report.Encode(cc.Out, rep, cfg.encOpts(cc.Out, f)...); err != nil {
		return fmt.Errorf("error encoding diff: %w", err)
	}

	printLines(os.Stderr, report.Info(src.doc.Head(), src.doc.Counts()))
	printLines(os.Stderr, report.Info(tgt.doc.Head(), tgt.doc.Counts()))
	printLines(os.Stderr, rep.Summary())
	if cfg.ExitCode && !rep.Empty() {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
