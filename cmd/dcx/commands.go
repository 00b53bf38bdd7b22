package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "dcx").
		WithSynopsis("dcx [opts] command [opts]").
		WithDescription("dcx is a tool for working with data contract XML documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dcxMain(cfg, cc, args)
		}).
		WithSubs(
			BuiltinsCommand(cfg),
			NameCommand(cfg),
			CheckCommand(cfg),
			ViewCommand(cfg),
			DiffCommand(cfg))
}

func BuiltinsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuiltinsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Builtins, "builtins").
		WithAliases("b").
		WithSynopsis("builtins").
		WithDescription("list the built-in Go types and their wire names").
		WithRun(func(cc *cli.Context, args []string) error {
			return builtins(cfg, cc, args)
		})
}

func NameCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NameConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("name").
		WithAliases("n").
		WithOpts(opts...).
		WithSynopsis("name [-list | -dict <value type>] <type>").
		WithDescription(nameDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return name(cfg, cc, args)
		})
	cfg.Name = cmd
	return cmd
}

const nameDescription = `name prints the wire name of a built-in type or of a collection or
dictionary over built-in types.

Types are given by their Go name, as listed by 'dcx builtins'.

  dcx name int64                  {http://www.w3.org/2001/XMLSchema}long
  dcx name -list string           ArrayOfstring in the arrays namespace
  dcx name -dict int64 string     ArrayOfKeyValueOfstringlong

With -dict, the argument is the key type and the option the value type.`

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithOpts(opts...).
		WithSynopsis("check [files]").
		WithDescription("check the reference structure of documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg, Indent: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [files]").
		WithDescription("view documents indented and in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [opts] a b").
		WithDescription("diff the indented forms of two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
