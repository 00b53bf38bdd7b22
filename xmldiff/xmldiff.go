// Package xmldiff compares XML documents line by line after rendering both
// with xmlview, so that differences in layout alone do not show.
package xmldiff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/dcxml/xmlview"
)

type Op int8

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) prefix() string {
	switch o {
	case Insert:
		return "+ "
	case Delete:
		return "- "
	}
	return "  "
}

type Line struct {
	Op   Op
	Text string
}

// Diff returns the line diff turning from into to.
func Diff(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(terminate(from), terminate(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return res
}

func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// Documents renders both documents and diffs the renderings.
func Documents(from, to io.Reader, opts ...xmlview.RenderOption) ([]Line, error) {
	a, err := render(from, opts)
	if err != nil {
		return nil, fmt.Errorf("error rendering first document: %w", err)
	}
	b, err := render(to, opts)
	if err != nil {
		return nil, fmt.Errorf("error rendering second document: %w", err)
	}
	return Diff(a, b), nil
}

func render(r io.Reader, opts []xmlview.RenderOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := xmlview.Render(r, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Changed reports whether lines contain any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

type WriteOption func(*writeState)

type writeState struct {
	context int
	color   map[Op]func(string, ...any) string
}

// Context limits the output to changed lines and n unchanged lines around
// each of them. A negative n writes every line.
func Context(n int) WriteOption {
	return func(ws *writeState) { ws.context = n }
}

func WithColor(v bool) WriteOption {
	return func(ws *writeState) {
		if !v {
			ws.color = nil
			return
		}
		ws.color = map[Op]func(string, ...any) string{
			Insert: color.GreenString,
			Delete: color.RedString,
		}
	}
}

// Write prints lines with a "+ ", "- " or "  " prefix each. Skipped runs of
// unchanged lines are replaced by a hunk header giving the line numbers in
// both documents where the next output line sits.
func Write(w io.Writer, lines []Line, opts ...WriteOption) error {
	ws := &writeState{context: -1}
	for _, opt := range opts {
		opt(ws)
	}
	show := ws.visible(lines)
	var (
		buf     strings.Builder
		fromLn  = 1
		toLn    = 1
		skipped = false
	)
	for i, l := range lines {
		if !show[i] {
			skipped = true
		} else {
			if skipped {
				fmt.Fprintf(&buf, "@@ -%d +%d @@\n", fromLn, toLn)
			}
			skipped = false
			text := l.Op.prefix() + l.Text
			if f := ws.color[l.Op]; f != nil {
				text = f(strings.ReplaceAll(text, "%", "%%"))
			}
			buf.WriteString(text)
			buf.WriteByte('\n')
		}
		switch l.Op {
		case Equal:
			fromLn++
			toLn++
		case Delete:
			fromLn++
		case Insert:
			toLn++
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func (ws *writeState) visible(lines []Line) []bool {
	show := make([]bool, len(lines))
	if ws.context < 0 {
		for i := range show {
			show[i] = true
		}
		return show
	}
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		lo, hi := max(0, i-ws.context), min(len(lines)-1, i+ws.context)
		for j := lo; j <= hi; j++ {
			show[j] = true
		}
	}
	return show
}
