package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/signadot/dcxml/qname"
	"github.com/signadot/dcxml/xmlmap"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	failed := 0
	for _, file := range args {
		if err := checkFile(cfg, cc, file); err != nil {
			theLog.Error("check failed", "file", file, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func checkFile(cfg *CheckConfig, cc *cli.Context, file string) error {
	r, done, err := openInput(cc, file)
	if err != nil {
		return err
	}
	defer done()
	rep, err := xmlmap.Inspect(r, cfg.codecOpts()...)
	if err != nil {
		return err
	}
	return writeReport(cc.Out, file, rep, cfg.Types)
}

func writeReport(w io.Writer, file string, rep *xmlmap.Report, types bool) error {
	_, err := fmt.Fprintf(w, "%s: root=%s elements=%d ids=%d refs=%d nils=%d\n",
		file, rep.Root, rep.Elements, rep.IDs, rep.Refs, rep.Nils)
	if err != nil || !types {
		return err
	}
	for _, q := range slices.SortedFunc(maps.Keys(rep.Types), qname.Compare) {
		if _, err := fmt.Fprintf(w, "\t%s\t%d\n", q, rep.Types[q]); err != nil {
			return err
		}
	}
	return nil
}
