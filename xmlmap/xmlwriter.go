package xmlmap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/dcxml/qname"
)

// xmlWriter emits elements with explicit control over namespace
// declarations. Element names always use the default namespace; prefixes
// are declared only for marker attributes and type names.
//
// A document is built in buf and reaches dst only when flush is called
// after it was written completely.
type xmlWriter struct {
	dst    io.Writer
	buf    bytes.Buffer
	indent string
	stack  []*elemFrame
	open   bool // start tag of the top element not yet closed
}

type elemFrame struct {
	local     string
	ns        string            // default namespace in scope
	prefixes  map[string]string // namespace -> prefix declared here
	generated int
	children  bool
	text      bool
}

// fixed prefixes of the marker namespaces
var markerPrefixes = map[string]string{
	qname.InstanceNamespace:      "i",
	qname.SerializationNamespace: "z",
}

func newXMLWriter(w io.Writer, indent string) *xmlWriter {
	return &xmlWriter{dst: w, indent: indent}
}

// reset drops whatever a failed document left in the buffer.
func (x *xmlWriter) reset() {
	x.buf.Reset()
	x.stack = x.stack[:0]
	x.open = false
}

func (x *xmlWriter) start(local, ns string) {
	x.closeStart()
	parentNS := ""
	if n := len(x.stack); n > 0 {
		parent := x.stack[n-1]
		parentNS = parent.ns
		parent.children = true
		if !parent.text {
			x.newline(n)
		}
	}
	x.buf.WriteByte('<')
	x.buf.WriteString(local)
	if ns != parentNS {
		x.writeAttr("xmlns", ns)
	}
	x.stack = append(x.stack, &elemFrame{local: local, ns: ns})
	x.open = true
	if len(x.stack) == 1 {
		x.prefixFor(qname.InstanceNamespace)
	}
}

// lookupPrefix returns the prefix bound to ns in the current scope.
func (x *xmlWriter) lookupPrefix(ns string) (string, bool) {
	for i := len(x.stack) - 1; i >= 0; i-- {
		if p, ok := x.stack[i].prefixes[ns]; ok {
			return p, true
		}
	}
	return "", false
}

// prefixFor returns the prefix bound to ns, declaring one on the open
// element when none is in scope.
func (x *xmlWriter) prefixFor(ns string) string {
	if p, ok := x.lookupPrefix(ns); ok {
		return p
	}
	top := x.stack[len(x.stack)-1]
	p, ok := markerPrefixes[ns]
	if !ok {
		top.generated++
		p = fmt.Sprintf("d%dp%d", len(x.stack), top.generated)
	}
	if top.prefixes == nil {
		top.prefixes = make(map[string]string)
	}
	top.prefixes[ns] = p
	x.writeAttr("xmlns:"+p, ns)
	return p
}

func (x *xmlWriter) attr(ns, local, value string) {
	x.writeAttr(x.prefixFor(ns)+":"+local, value)
}

// typeAttr writes the type marker naming q.
func (x *xmlWriter) typeAttr(q qname.QName) {
	x.attr(qname.InstanceNamespace, "type", x.prefixFor(q.Namespace)+":"+q.Local)
}

// typeAttrs returns the type marker naming q, with any namespace
// declarations it needs, as attributes for an element written by someone
// else.
func (x *xmlWriter) typeAttrs(q qname.QName) []xml.Attr {
	var attrs []xml.Attr
	ip, ok := x.lookupPrefix(qname.InstanceNamespace)
	if !ok {
		ip = markerPrefixes[qname.InstanceNamespace]
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns:" + ip}, Value: qname.InstanceNamespace})
	}
	tp, ok := x.lookupPrefix(q.Namespace)
	if !ok {
		tp = fmt.Sprintf("d%dp1", len(x.stack)+1)
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns:" + tp}, Value: q.Namespace})
	}
	return append(attrs, xml.Attr{Name: xml.Name{Local: ip + ":type"}, Value: tp + ":" + q.Local})
}

func (x *xmlWriter) writeAttr(name, value string) {
	x.buf.WriteByte(' ')
	x.buf.WriteString(name)
	x.buf.WriteString(`="`)
	xml.EscapeText(&x.buf, []byte(value))
	x.buf.WriteByte('"')
}

func (x *xmlWriter) text(s string) {
	if s == "" {
		return
	}
	x.closeStart()
	xml.EscapeText(&x.buf, []byte(s))
	x.stack[len(x.stack)-1].text = true
}

func (x *xmlWriter) end() {
	n := len(x.stack)
	f := x.stack[n-1]
	x.stack = x.stack[:n-1]
	if x.open {
		x.buf.WriteString("/>")
		x.open = false
		return
	}
	if f.children && !f.text {
		x.newline(n - 1)
	}
	x.buf.WriteString("</")
	x.buf.WriteString(f.local)
	x.buf.WriteByte('>')
}

// delegate lets fn write one element through an xml.Encoder at the current
// position.
func (x *xmlWriter) delegate(fn func(*xml.Encoder) error) error {
	x.closeStart()
	if n := len(x.stack); n > 0 {
		parent := x.stack[n-1]
		parent.children = true
		if !parent.text {
			x.newline(n)
		}
	}
	enc := xml.NewEncoder(&x.buf)
	if err := fn(enc); err != nil {
		return err
	}
	return enc.Flush()
}

func (x *xmlWriter) closeStart() {
	if x.open {
		x.buf.WriteByte('>')
		x.open = false
	}
}

func (x *xmlWriter) newline(depth int) {
	if x.indent == "" {
		return
	}
	x.buf.WriteByte('\n')
	x.buf.WriteString(strings.Repeat(x.indent, depth))
}

// flush writes the finished document to dst.
func (x *xmlWriter) flush() error {
	_, err := x.buf.WriteTo(x.dst)
	return err
}
