package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func MainCommand(ctx context.Context) *cli.Command {
	cfg := &MainConfig{ctx: ctx}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "apidiff").
		WithSynopsis("apidiff [opts] command [opts]").
		WithDescription("apidiff compares two versions of the factorio api documentation.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return apidiffMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			InfoCommand(cfg),
			ShowCommand(cfg),
			DumpCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff -s <ref> [-t <ref>] [-stage s] [-d] [-e] [-f] [-where expr]").
		WithDescription("diff two documentation snapshots").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func InfoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InfoConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Info, "info").
		WithAliases("i").
		WithOpts(opts...).
		WithSynopsis("info [-stage s] <ref>...").
		WithDescription("show the version and collection sizes of snapshots").
		WithRun(func(cc *cli.Context, args []string) error {
			return info(cfg, cc, args)
		})
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithAliases("s").
		WithOpts(opts...).
		WithSynopsis("show -s <ref> [-t <ref>] [-patch] [-raw] <section> <name>").
		WithDescription("show how one entity changed between two snapshots").
		WithRun(func(cc *cli.Context, args []string) error {
			return show(cfg, cc, args)
		})
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithOpts(opts...).
		WithSynopsis("dump [-stage s] [-d] [-e] [-f] <ref>").
		WithDescription("report every entity of a snapshot as introduced").
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}
