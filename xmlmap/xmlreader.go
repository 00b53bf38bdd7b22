package xmlmap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/dcxml/qname"
)

// cursor walks the tokens of a document element by element and keeps the
// prefix bindings in scope, which encoding/xml resolves for names but not
// for attribute values. It reads through an *xml.Decoder so that
// xml.Unmarshaler values can take over at their element.
type cursor struct {
	dec    *xml.Decoder
	scopes []map[string]string
}

func newCursor(r io.Reader) *cursor {
	return &cursor{dec: xml.NewDecoder(r)}
}

func (c *cursor) pushScope(start xml.StartElement) {
	var scope map[string]string
	for _, a := range start.Attr {
		prefix, ok := "", false
		switch {
		case a.Name.Space == "xmlns":
			prefix, ok = a.Name.Local, true
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			ok = true
		}
		if !ok {
			continue
		}
		if scope == nil {
			scope = make(map[string]string)
		}
		scope[prefix] = a.Value
	}
	c.scopes = append(c.scopes, scope)
}

func (c *cursor) popScope() {
	if n := len(c.scopes); n > 0 {
		c.scopes = c.scopes[:n-1]
	}
}

// resolve turns a prefixed name from an attribute value into a QName.
func (c *cursor) resolve(value string) (qname.QName, error) {
	prefix, local, found := strings.Cut(value, ":")
	if !found {
		prefix, local = "", value
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if ns, ok := c.scopes[i][prefix]; ok {
			return qname.New(local, ns), nil
		}
	}
	if prefix == "" {
		return qname.New(local, ""), nil
	}
	return qname.QName{}, fmt.Errorf("prefix %q is not declared", prefix)
}

func (c *cursor) errorf(elem string, err error, format string, args ...any) *FormatError {
	line, col := c.dec.InputPos()
	return &FormatError{
		Line:    line,
		Column:  col,
		Element: elem,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// readError converts a decoder error into a FormatError.
func (c *cursor) readError(elem string, err error) error {
	if errors.Is(err, io.EOF) {
		return c.errorf(elem, ErrUnexpectedElement, "unexpected end of document")
	}
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &FormatError{Line: se.Line, Element: elem, Message: se.Msg, Err: err}
	}
	return c.errorf(elem, err, "%v", err)
}

// root returns the start of the document element.
func (c *cursor) root() (xml.StartElement, error) {
	for {
		tok, err := c.dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, c.errorf("", ErrUnexpectedElement, "no root element")
		}
		if err != nil {
			return xml.StartElement{}, c.readError("", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c.pushScope(t)
			return t, nil
		case xml.CharData:
			if !isSpace(t) {
				return xml.StartElement{}, c.errorf("", ErrUnexpectedElement, "text before the root element")
			}
		}
	}
}

// finish checks that nothing but whitespace and comments follow the root.
func (c *cursor) finish() error {
	for {
		tok, err := c.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return c.readError("", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return c.errorf(t.Name.Local, ErrUnexpectedElement, "element after the root element")
		case xml.CharData:
			if !isSpace(t) {
				return c.errorf("", ErrUnexpectedElement, "text after the root element")
			}
		}
	}
}

// nextChild returns the next child element of parent, or ok == false once
// the end of parent has been consumed.
func (c *cursor) nextChild(parent string) (start xml.StartElement, ok bool, err error) {
	for {
		tok, err := c.dec.Token()
		if err != nil {
			return xml.StartElement{}, false, c.readError(parent, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c.pushScope(t)
			return t, true, nil
		case xml.EndElement:
			c.popScope()
			return xml.StartElement{}, false, nil
		case xml.CharData:
			if !isSpace(t) {
				return xml.StartElement{}, false, c.errorf(parent, ErrUnexpectedElement, "unexpected text %q", shorten(string(t)))
			}
		}
	}
}

// readText returns the text content of an element that must have no
// children, consuming its end.
func (c *cursor) readText(elem string) (string, error) {
	var b strings.Builder
	for {
		tok, err := c.dec.Token()
		if err != nil {
			return "", c.readError(elem, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			return "", c.errorf(elem, ErrUnexpectedElement, "unexpected element <%s> in text content", t.Name.Local)
		case xml.EndElement:
			c.popScope()
			return b.String(), nil
		}
	}
}

// skip consumes the rest of the element whose start was just read.
func (c *cursor) skip() error {
	if err := c.dec.Skip(); err != nil {
		return c.readError("", err)
	}
	c.popScope()
	return nil
}

func isSpace(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}

func shorten(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// markers are the reserved attributes of one element.
type markers struct {
	isNil bool
	typ   string
	id    string
	ref   string
}

func readMarkers(start xml.StartElement) markers {
	var mk markers
	for _, a := range start.Attr {
		mk.set(a.Name.Space, a.Name.Local, a.Value)
	}
	return mk
}

// set records the attribute space:local=value if it is a marker.
func (mk *markers) set(space, local, value string) {
	switch space {
	case qname.InstanceNamespace:
		switch local {
		case "nil":
			mk.isNil = value == "true" || value == "1"
		case "type":
			mk.typ = value
		}
	case qname.SerializationNamespace:
		switch local {
		case "Id":
			mk.id = value
		case "Ref":
			mk.ref = value
		}
	}
}
