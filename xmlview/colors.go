package xmlview

import (
	"strings"

	"github.com/fatih/color"
)

// ColorAttr is the syntactic role of a piece of rendered output.
type ColorAttr int

const (
	ElementColor ColorAttr = iota
	AttrNameColor
	AttrValueColor
	NamespaceColor
	MarkerColor
	TextColor
	CommentColor
	PunctColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			ElementColor:   color.RGB(128, 168, 196).SprintfFunc(),
			AttrNameColor:  color.RGB(196, 96, 16).SprintfFunc(),
			AttrValueColor: color.RGB(8, 196, 16).SprintfFunc(),
			NamespaceColor: color.RGB(96, 96, 96).SprintfFunc(),
			MarkerColor:    color.RGB(255, 0, 196).SprintfFunc(),
			TextColor:      color.RGB(128, 216, 236).SprintfFunc(),
			CommentColor:   color.BlueString,
			PunctColor:     color.RGB(74, 92, 138).SprintfFunc(),
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(a ColorAttr, s string) string {
	return c.Get(a)(s)
}

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	f := c.Map[a]
	if f == nil {
		if c.Default == nil {
			return colorDefault
		}
		return c.Default
	}
	return f
}
