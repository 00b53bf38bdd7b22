package xmlview

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/dcxml/qname"
)

// ErrNoContent is returned for input without any markup.
var ErrNoContent = errors.New("no content")

type RenderState struct {
	indent   int
	comments bool
	Color    func(ColorAttr, string) string

	out    *strings.Builder
	dec    *xml.Decoder
	stack  []*frame
	open   bool
	wrote  bool
	scopes []map[string]string
}

type frame struct {
	name     string
	children bool
	text     bool
}

// Render writes the document read from r indented one element per line.
// Elements holding only text stay on one line and surrounding whitespace
// of text is dropped. Prefixes are kept as written; attributes in the
// instance and serialization namespaces are colored as markers.
func Render(r io.Reader, w io.Writer, opts ...RenderOption) error {
	rs := &RenderState{
		indent:   2,
		comments: true,
		Color:    noColor,
		out:      &strings.Builder{},
		dec:      xml.NewDecoder(r),
	}
	for _, opt := range opts {
		opt(rs)
	}
	if err := rs.render(); err != nil {
		return err
	}
	rs.out.WriteByte('\n')
	_, err := io.WriteString(w, rs.out.String())
	return err
}

func MustString(doc []byte, opts ...RenderOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Render(bytes.NewReader(doc), buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func noColor(_ ColorAttr, s string) string { return s }

func (rs *RenderState) render() error {
	for {
		tok, err := rs.dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			rs.start(t)
		case xml.EndElement:
			if err := rs.end(t); err != nil {
				return err
			}
		case xml.CharData:
			rs.text(t)
		case xml.Comment:
			if rs.comments {
				rs.line()
				rs.put(CommentColor, "<!--"+string(t)+"-->")
			}
		case xml.ProcInst:
			rs.line()
			inst := strings.TrimSpace(string(t.Inst))
			if inst != "" {
				inst = " " + inst
			}
			rs.put(PunctColor, "<?"+t.Target+inst+"?>")
		case xml.Directive:
			rs.line()
			rs.put(PunctColor, "<!"+string(t)+">")
		}
	}
	if n := len(rs.stack); n > 0 {
		line, _ := rs.dec.InputPos()
		return &xml.SyntaxError{Line: line, Msg: fmt.Sprintf("unexpected EOF: <%s> not closed", rs.stack[n-1].name)}
	}
	if !rs.wrote {
		return ErrNoContent
	}
	return nil
}

func (rs *RenderState) start(t xml.StartElement) {
	rs.line()
	rs.pushScope(t)
	name := rawName(t.Name)
	rs.put(PunctColor, "<")
	rs.put(ElementColor, name)
	for _, a := range t.Attr {
		rs.out.WriteByte(' ')
		rs.put(rs.attrColor(a.Name), rawName(a.Name))
		rs.put(PunctColor, "=")
		rs.put(AttrValueColor, `"`+attrEscaper.Replace(a.Value)+`"`)
	}
	rs.stack = append(rs.stack, &frame{name: name})
	rs.open = true
}

func (rs *RenderState) end(t xml.EndElement) error {
	n := len(rs.stack)
	name := rawName(t.Name)
	if n == 0 || rs.stack[n-1].name != name {
		line, _ := rs.dec.InputPos()
		return &xml.SyntaxError{Line: line, Msg: fmt.Sprintf("unexpected end element </%s>", name)}
	}
	f := rs.stack[n-1]
	rs.stack = rs.stack[:n-1]
	rs.popScope()
	if rs.open {
		rs.put(PunctColor, "/>")
		rs.open = false
		return nil
	}
	if f.children {
		rs.newline(n - 1)
	}
	rs.put(PunctColor, "</")
	rs.put(ElementColor, name)
	rs.put(PunctColor, ">")
	return nil
}

func (rs *RenderState) text(t xml.CharData) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return
	}
	n := len(rs.stack)
	if n == 0 {
		return
	}
	f := rs.stack[n-1]
	if f.children {
		rs.newline(n)
	} else {
		rs.closeStart()
	}
	f.text = true
	rs.put(TextColor, textEscaper.Replace(s))
}

// line starts a new output line for a token at the current depth.
func (rs *RenderState) line() {
	rs.closeStart()
	if n := len(rs.stack); n > 0 {
		rs.stack[n-1].children = true
	}
	if rs.wrote {
		rs.newline(len(rs.stack))
	}
	rs.wrote = true
}

func (rs *RenderState) closeStart() {
	if rs.open {
		rs.put(PunctColor, ">")
		rs.open = false
	}
}

func (rs *RenderState) newline(depth int) {
	rs.out.WriteByte('\n')
	rs.out.WriteString(strings.Repeat(" ", depth*rs.indent))
}

func (rs *RenderState) put(a ColorAttr, s string) {
	rs.out.WriteString(rs.Color(a, s))
}

func (rs *RenderState) attrColor(n xml.Name) ColorAttr {
	if n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns") {
		return NamespaceColor
	}
	if n.Space == "" {
		return AttrNameColor
	}
	switch rs.lookup(n.Space) {
	case qname.InstanceNamespace, qname.SerializationNamespace:
		return MarkerColor
	}
	return AttrNameColor
}

func (rs *RenderState) pushScope(t xml.StartElement) {
	var scope map[string]string
	for _, a := range t.Attr {
		if a.Name.Space != "xmlns" {
			continue
		}
		if scope == nil {
			scope = map[string]string{}
		}
		scope[a.Name.Local] = a.Value
	}
	rs.scopes = append(rs.scopes, scope)
}

func (rs *RenderState) popScope() {
	rs.scopes = rs.scopes[:len(rs.scopes)-1]
}

func (rs *RenderState) lookup(prefix string) string {
	for i := len(rs.scopes) - 1; i >= 0; i-- {
		if ns, ok := rs.scopes[i][prefix]; ok {
			return ns
		}
	}
	return ""
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)
