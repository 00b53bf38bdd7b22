package xmlmap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/dcxml/debug"
	"github.com/signadot/dcxml/qname"
)

// Writer writes object graphs as XML documents, one document per
// Serialize call. A Writer is not safe for concurrent use.
type Writer struct {
	reg      *Registry
	out      *xmlWriter
	log      *slog.Logger
	maxItems int

	// per call state
	items   int
	path    []string
	refs    map[identity]string
	writing map[identity]bool
}

// identity is the address of a pointer, map or slice value together with
// its type, so that a struct and its first field are distinct.
type identity struct {
	typ reflect.Type
	ptr uintptr
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	cfg := newCodecConfig(opts)
	return &Writer{
		reg:      cfg.registry,
		out:      newXMLWriter(w, cfg.indent),
		log:      cfg.logger,
		maxItems: cfg.maxItems,
	}
}

// Serialize writes v as one document. The root element is named after the
// type of v. Values of reference contracts are written once and referenced
// by id afterwards. Nothing reaches the underlying writer when Serialize
// fails.
func (w *Writer) Serialize(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return &ContractError{Message: "cannot serialize an untyped nil", Err: ErrNotSerializable}
	}
	w.items = 0
	w.refs = make(map[identity]string)
	w.writing = make(map[identity]bool)
	w.out.reset()

	q, err := w.rootName(rv.Type())
	if err != nil {
		return err
	}
	w.path = append(w.path[:0], q.Local)
	if err := w.writeValue(q.Local, q.Namespace, rv.Type(), rv); err != nil {
		return err
	}
	return w.out.flush()
}

func (w *Writer) rootName(t reflect.Type) (qname.QName, error) {
	t = indirect(t)
	if q, ok := builtinName(t); ok {
		return q, nil
	}
	m, err := w.reg.Register(t)
	if err != nil {
		return qname.QName{}, err
	}
	if m == nil {
		return qname.QName{}, contractErrorf(t, ErrNotSerializable, "no root name")
	}
	return m.QName(), nil
}

// writeValue writes v as the element local in namespace ns, for a slot
// declared with type declared.
func (w *Writer) writeValue(local, ns string, declared reflect.Type, v reflect.Value) error {
	if err := w.countItem(); err != nil {
		return err
	}
	var ptr reflect.Value
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return w.writeNil(local, ns)
		}
		if v.Kind() == reflect.Pointer {
			ptr = v
		}
		v = v.Elem()
	}
	if !v.IsValid() || ((v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil()) {
		return w.writeNil(local, ns)
	}

	at := v.Type()
	m, err := w.reg.Register(at)
	if err != nil {
		return w.withPath(err)
	}
	var typeName qname.QName
	if at != indirect(declared) {
		if m != nil && !m.ContractAllowed() {
			return &ContractError{
				Type:    at,
				Path:    w.pathString(),
				Message: fmt.Sprintf("%s is not a data contract and cannot stand in for %s", at, declared),
				Err:     ErrNotSerializable,
			}
		}
		if m != nil {
			typeName = m.QName()
		} else {
			typeName, _ = builtinName(at)
		}
	}

	var (
		id    identity
		hasID bool
	)
	switch {
	case ptr.IsValid():
		id, hasID = identity{at, ptr.Pointer()}, true
	case v.Kind() == reflect.Map, v.Kind() == reflect.Slice && v.Len() > 0:
		id, hasID = identity{at, v.Pointer()}, true
	}
	var label string
	if hasID && m != nil && m.IsReference() && v.Kind() != reflect.Slice {
		if ref, ok := w.refs[id]; ok {
			w.out.start(local, ns)
			w.out.attr(qname.SerializationNamespace, "Ref", ref)
			w.out.end()
			return nil
		}
		label = "i" + strconv.Itoa(len(w.refs)+1)
		w.refs[id] = label
	} else if hasID {
		if w.writing[id] {
			return &ContractError{
				Type:    at,
				Path:    w.pathString(),
				Message: "value contains itself and its contract does not preserve references",
				Err:     ErrCircularReference,
			}
		}
		w.writing[id] = true
		defer delete(w.writing, id)
	}
	if debug.Write() {
		w.log.Debug("write", "path", w.pathString(), "type", at.String(), "element", local)
	}

	if em, ok := m.(elementMap); ok {
		start := xml.StartElement{Name: xml.Name{Space: ns, Local: local}}
		if !typeName.IsZero() {
			start.Attr = w.out.typeAttrs(typeName)
		}
		return em.writeElement(w, start, v)
	}
	w.out.start(local, ns)
	if !typeName.IsZero() {
		w.out.typeAttr(typeName)
	}
	if label != "" {
		w.out.attr(qname.SerializationNamespace, "Id", label)
	}
	if cm, ok := m.(contentMap); ok {
		err = cm.writeContent(w, v)
	} else {
		var s string
		s, err = formatLiteral(v)
		if err != nil {
			err = &ContractError{Type: at, Path: w.pathString(), Message: err.Error(), Err: ErrNotSerializable}
		}
		w.out.text(s)
	}
	if err != nil {
		return err
	}
	w.out.end()
	return nil
}

func (w *Writer) writeNil(local, ns string) error {
	w.out.start(local, ns)
	w.out.attr(qname.InstanceNamespace, "nil", "true")
	w.out.end()
	return nil
}

func (w *Writer) countItem() error {
	w.items++
	if w.maxItems > 0 && w.items > w.maxItems {
		return &LimitError{Limit: w.maxItems, Path: w.pathString()}
	}
	return nil
}

func (w *Writer) pushPath(seg string) { w.path = append(w.path, seg) }
func (w *Writer) popPath()            { w.path = w.path[:len(w.path)-1] }

func (w *Writer) pathString() string {
	return joinPath(w.path)
}

// withPath sets the value path of a contract error raised by registration.
func (w *Writer) withPath(err error) error {
	var ce *ContractError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = w.pathString()
	}
	return err
}

// joinPath renders path segments as Order.Lines[2].Qty.
func joinPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
