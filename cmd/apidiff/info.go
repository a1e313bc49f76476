package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/apidiff/report"
)

func info(cfg *InfoConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Info.Parse(cc, args)
	if err != nil {
		cfg.Info.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: info requires at least one snapshot", cli.ErrUsage)
	}
	stage, err := cfg.stage(cfg.Stage)
	if err != nil {
		return err
	}
	ops := stages[stage]
	for _, ref := range args {
		s, err := ops.load(cfg.ctx, cfg.loader, cfg.resolve(cfg.Base, stage, ref))
		if err != nil {
			return err
		}
		printLines(cc.Out, report.Info(s.doc.Head(), s.doc.Counts()))
		theLog.Debug("info", "url", s.url, "bytes", len(s.raw))
	}
	return nil
}
