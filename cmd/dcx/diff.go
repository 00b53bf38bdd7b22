package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/dcxml/xmldiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("%w: at most one input may be stdin", cli.ErrUsage)
	}
	if cfg.Reverse {
		args[0], args[1] = args[1], args[0]
	}
	a, doneA, err := openInput(cc, args[0])
	if err != nil {
		return err
	}
	defer doneA()
	b, doneB, err := openInput(cc, args[1])
	if err != nil {
		return err
	}
	defer doneB()
	lines, err := xmldiff.Documents(a, b)
	if err != nil {
		return err
	}
	if !xmldiff.Changed(lines) {
		return nil
	}
	if err := xmldiff.Write(cc.Out, lines, cfg.writeOpts(cc.Out)...); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
