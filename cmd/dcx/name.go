package main

import (
	"fmt"
	"reflect"

	"github.com/scott-cotton/cli"
)

func name(cfg *NameConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Name.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: name requires 1 type, got %v", cli.ErrUsage, args)
	}
	if cfg.List && cfg.Dict != "" {
		return fmt.Errorf("%w: -list and -dict are exclusive", cli.ErrUsage)
	}
	t, err := builtinType(args[0])
	if err != nil {
		return err
	}
	switch {
	case cfg.List:
		t = reflect.SliceOf(t)
	case cfg.Dict != "":
		if !t.Comparable() {
			return fmt.Errorf("%w: %s cannot be a dictionary key", cli.ErrUsage, t)
		}
		vt, err := builtinType(cfg.Dict)
		if err != nil {
			return err
		}
		t = reflect.MapOf(t, vt)
	}
	reg := cfg.registry()
	m, err := reg.Register(t)
	if err != nil {
		return err
	}
	if m == nil {
		q, err := reg.ResolveQualifiedName(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cc.Out, "%s\tbuiltin\n", q)
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "%s\t%s\n", m.QName(), m.Kind())
	return err
}
