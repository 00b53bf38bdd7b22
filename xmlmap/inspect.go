package xmlmap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/xsd/pkg/xmlstream"
	"github.com/jacoelho/xsd/pkg/xmltext"

	"github.com/signadot/dcxml/qname"
)

// Report summarizes a document checked by Inspect.
type Report struct {
	Root     qname.QName
	Elements int
	IDs      int
	Refs     int
	Nils     int

	// Types counts the type markers per named type.
	Types map[qname.QName]int
}

// Inspect checks the reference structure of a document without Go types:
// ids are unique, every reference names an id seen before it, nil and
// reference elements are empty, type markers use declared prefixes and the
// element count is within the item ceiling.
//
// Malformed documents are reported as a FormatError wrapping both
// ErrUnexpectedElement and the syntax error.
func Inspect(r io.Reader, opts ...Option) (*Report, error) {
	cfg := newCodecConfig(opts)
	if r == nil {
		return nil, &FormatError{Message: "no input", Err: ErrUnexpectedElement}
	}
	dec, err := xmlstream.NewStringReader(r)
	if err != nil {
		return nil, err
	}
	in := &inspection{
		dec: dec,
		rep: &Report{Types: make(map[qname.QName]int)},
		ids: make(map[string]bool),
		max: cfg.maxItems,
	}
	if err := in.run(); err != nil {
		return nil, err
	}
	return in.rep, nil
}

type inspectFrame struct {
	name  string
	empty bool
}

type inspection struct {
	dec   *xmlstream.StringReader
	rep   *Report
	ids   map[string]bool
	stack []inspectFrame
	max   int
}

func (in *inspection) run() error {
	for {
		ev, err := in.dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return in.readError(err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			if err := in.start(&ev); err != nil {
				return err
			}
		case xmlstream.EventEndElement:
			if n := len(in.stack); n > 0 {
				in.stack = in.stack[:n-1]
			}
		case xmlstream.EventCharData:
			n := len(in.stack)
			if n > 0 && in.stack[n-1].empty && !isSpace(ev.Text) {
				return in.errorf(in.stack[n-1].name, ErrUnexpectedElement, "nil or reference element has text content")
			}
		}
	}
}

func (in *inspection) start(ev *xmlstream.StringEvent) error {
	elem := ev.Name.Local
	rep := in.rep
	if rep.Elements == 0 {
		rep.Root = qname.New(ev.Name.Local, ev.Name.Namespace)
	}
	rep.Elements++
	if in.max > 0 && rep.Elements > in.max {
		return &LimitError{Limit: in.max, Path: elem}
	}
	if n := len(in.stack); n > 0 && in.stack[n-1].empty {
		return in.errorf(in.stack[n-1].name, ErrUnexpectedElement, "nil or reference element has child <%s>", elem)
	}
	var mk markers
	for _, a := range ev.Attrs {
		mk.set(a.NamespaceURI(), a.LocalName(), a.Value())
	}
	if mk.typ != "" {
		q, err := in.resolve(mk.typ)
		if err != nil {
			return in.errorf(elem, ErrUnknownType, "type %q: %v", mk.typ, err)
		}
		rep.Types[q]++
	}
	if mk.id != "" {
		if in.ids[mk.id] {
			return in.errorf(elem, ErrUnexpectedElement, "id %q declared twice", mk.id)
		}
		in.ids[mk.id] = true
		rep.IDs++
	}
	if mk.ref != "" {
		if !in.ids[mk.ref] {
			return in.errorf(elem, ErrUnknownReference, "reference to unknown id %q", mk.ref)
		}
		rep.Refs++
	}
	if mk.isNil {
		rep.Nils++
	}
	in.stack = append(in.stack, inspectFrame{name: elem, empty: mk.isNil || mk.ref != ""})
	return nil
}

// resolve looks up the prefix of a type marker in the scope of the element
// just started.
func (in *inspection) resolve(value string) (qname.QName, error) {
	prefix, local, found := strings.Cut(value, ":")
	if !found {
		prefix, local = "", value
	}
	ns, ok := in.dec.LookupNamespace(prefix)
	if !ok && prefix != "" {
		return qname.QName{}, fmt.Errorf("prefix %q is not declared", prefix)
	}
	return qname.New(local, ns), nil
}

func (in *inspection) current() string {
	if n := len(in.stack); n > 0 {
		return in.stack[n-1].name
	}
	return ""
}

func (in *inspection) errorf(elem string, err error, format string, args ...any) *FormatError {
	line, col := in.dec.CurrentPos()
	return &FormatError{
		Line:    line,
		Column:  col,
		Element: elem,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (in *inspection) readError(err error) error {
	fe := in.errorf(in.current(), fmt.Errorf("%w: %w", ErrUnexpectedElement, err), "%v", err)
	var se *xmltext.SyntaxError
	if errors.As(err, &se) {
		if se.Line > 0 {
			fe.Line, fe.Column = se.Line, se.Column
		}
		if se.Err != nil {
			fe.Message = se.Err.Error()
		}
	}
	return fe
}
