package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/apidiff/report"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: dump requires 1 snapshot, got %v", cli.ErrUsage, args)
	}
	stage, err := cfg.stage(cfg.Stage)
	if err != nil {
		return err
	}
	f, err := cfg.format(cfg.Format)
	if err != nil {
		return err
	}
	ops := stages[stage]
	s, err := ops.load(cfg.ctx, cfg.loader, cfg.resolve(cfg.Base, stage, args[0]))
	if err != nil {
		return err
	}
	p := cfg.policy(cfg.Descriptions, cfg.Examples, cfg.Full)
	h := s.doc.Head()
	rep := report.New(stage, h, h, ops.full(s.doc, p))
	opts := append(cfg.encOpts(cc.Out, f), report.EncodeHeader(false))
	if err := report.Encode(cc.Out, rep, opts...); err != nil {
		return fmt.Errorf("error encoding %s: %w", s.url, err)
	}
	printLines(os.Stderr, report.Info(h, s.doc.Counts()))
	return nil
}
