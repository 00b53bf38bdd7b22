package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/dcxml/config"
	"github.com/signadot/dcxml/xmldiff"
	"github.com/signadot/dcxml/xmlmap"
	"github.com/signadot/dcxml/xmlview"
)

type MainConfig struct {
	Color    bool   `cli:"name=color desc='output with color'"`
	Config   string `cli:"name=config desc='settings file (yaml)'"`
	Verbose  bool   `cli:"name=v desc='log registrations'"`
	Settings *config.Settings

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) loadSettings() error {
	var (
		s   *config.Settings
		err error
	)
	if cfg.Config == "" {
		s, err = config.FromEnv()
	} else {
		s, err = config.Load(cfg.Config)
	}
	if err != nil {
		return err
	}
	cfg.Settings = s
	return nil
}

func (cfg *MainConfig) registry() *xmlmap.Registry {
	var ns map[string]string
	if cfg.Settings != nil {
		ns = cfg.Settings.Namespaces
	}
	return xmlmap.NewRegistry(
		xmlmap.WithNamespaces(ns),
		xmlmap.WithLogger(theLog))
}

func (cfg *MainConfig) codecOpts() []xmlmap.Option {
	return []xmlmap.Option{
		xmlmap.WithSettings(cfg.Settings),
		xmlmap.WithLogger(theLog),
	}
}

// useColor reports whether output to w is colored: always with -color,
// never with -color=false and otherwise when w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		color.NoColor = false
		return true
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) renderOpts(w io.Writer) []xmlview.RenderOption {
	var res []xmlview.RenderOption
	if cfg.useColor(w) {
		res = append(res, xmlview.RenderColors(xmlview.NewColors()))
	}
	return res
}

type BuiltinsConfig struct {
	*MainConfig

	Builtins *cli.Command
}

type NameConfig struct {
	*MainConfig
	List bool   `cli:"name=list desc='name the collection of the type'"`
	Dict string `cli:"name=dict desc='name the dictionary from the type to this value type'"`

	Name *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Types bool `cli:"name=types desc='list type marker counts'"`

	Check *cli.Command
}

type ViewConfig struct {
	*MainConfig

	Comments bool `cli:"name=c desc='include comments'"`
	Indent   int  `cli:"name=indent desc='spaces per level'"`
	View     *cli.Command
}

func (cfg *ViewConfig) renderOpts(w io.Writer) []xmlview.RenderOption {
	return append(cfg.MainConfig.renderOpts(w),
		xmlview.RenderComments(cfg.Comments),
		xmlview.Indent(cfg.Indent))
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Context int  `cli:"name=U desc='lines of context, negative for all'"`

	Diff *cli.Command
}

func (cfg *DiffConfig) writeOpts(w io.Writer) []xmldiff.WriteOption {
	return []xmldiff.WriteOption{
		xmldiff.Context(cfg.Context),
		xmldiff.WithColor(cfg.useColor(w)),
	}
}
