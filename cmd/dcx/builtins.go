package main

import (
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/scott-cotton/cli"

	"github.com/signadot/dcxml/qname"
)

func builtins(cfg *BuiltinsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Builtins.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: builtins takes no arguments, got %v", cli.ErrUsage, args)
	}
	tw := tabwriter.NewWriter(cc.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TYPE\tNAME\tNAMESPACE\n")
	for _, b := range qname.Builtins() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Type, b.Name.Local, b.Name.Namespace)
	}
	return tw.Flush()
}

// builtinType finds the built-in type with Go name goName.
func builtinType(goName string) (reflect.Type, error) {
	for _, b := range qname.Builtins() {
		if b.Type.String() == goName {
			return b.Type, nil
		}
	}
	var names []string
	for _, b := range qname.Builtins() {
		names = append(names, b.Type.String())
	}
	return nil, fmt.Errorf("%w: %q is not a built-in type, want one of %s", cli.ErrUsage, goName, strings.Join(names, ", "))
}
