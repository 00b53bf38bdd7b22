package xmlmap

import (
	"encoding/xml"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/signadot/dcxml/debug"
	"github.com/signadot/dcxml/qname"
)

// Reader reads object graphs written by a Writer. A Reader is not safe for
// concurrent use.
type Reader struct {
	reg      *Registry
	cur      *cursor
	log      *slog.Logger
	maxItems int

	// per call state
	items int
	refs  map[string]reflect.Value
	path  []string
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	cfg := newCodecConfig(opts)
	return &Reader{
		reg:      cfg.registry,
		cur:      newCursor(r),
		log:      cfg.logger,
		maxItems: cfg.maxItems,
	}
}

// Deserialize reads one document into the value v points to. The root
// element must carry the name of that value's type unless it names its
// own type with a type marker. When v points to an interface, a root
// without a type marker is read as the built-in or registered type its
// element name denotes.
func (r *Reader) Deserialize(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &ContractError{Type: reflect.TypeOf(v), Message: "Deserialize needs a non-nil pointer", Err: ErrNotSerializable}
	}
	r.items = 0
	r.refs = make(map[string]reflect.Value)
	target := rv.Elem()

	start, err := r.cur.root()
	if err != nil {
		return err
	}
	base := indirect(target.Type())
	if base.Kind() != reflect.Interface {
		if _, err := r.reg.Register(base); err != nil {
			return err
		}
	}
	if readMarkers(start).typ == "" && base.Kind() != reflect.Interface {
		want, err := r.reg.ResolveQualifiedName(base)
		if err != nil {
			return err
		}
		if start.Name.Local != want.Local || start.Name.Space != want.Namespace {
			return r.cur.errorf(start.Name.Local, ErrUnexpectedElement,
				"expected root %s, found %s", want, qname.New(start.Name.Local, start.Name.Space))
		}
	}
	r.path = append(r.path[:0], start.Name.Local)
	if err := r.readValue(start, target); err != nil {
		return err
	}
	return r.cur.finish()
}

// readValue reads the element whose start has just been consumed into
// slot, up to and including its end.
func (r *Reader) readValue(start xml.StartElement, slot reflect.Value) error {
	r.items++
	if r.maxItems > 0 && r.items > r.maxItems {
		return &LimitError{Limit: r.maxItems, Path: r.pathString()}
	}
	mk := readMarkers(start)
	elem := start.Name.Local
	if mk.ref != "" {
		target, ok := r.refs[mk.ref]
		if !ok {
			return r.cur.errorf(elem, ErrUnknownReference, "reference to unknown id %q", mk.ref)
		}
		if err := r.assignRef(elem, slot, target); err != nil {
			return err
		}
		return r.readEmpty(elem)
	}
	if mk.isNil {
		if !nullable(slot.Type()) {
			return r.cur.errorf(elem, ErrNilNotAllowed, "nil in a %s slot", slot.Type())
		}
		slot.Set(reflect.Zero(slot.Type()))
		return r.readEmpty(elem)
	}

	declared := indirect(slot.Type())
	at := declared
	if mk.typ != "" {
		t, q, err := r.resolveType(elem, mk.typ)
		if err != nil {
			return err
		}
		switch {
		case declared.Kind() == reflect.Interface:
			if !t.Implements(declared) && !reflect.PointerTo(t).Implements(declared) {
				return r.cur.errorf(elem, ErrUnknownType, "%s does not implement %s", q, declared)
			}
			at = t
		case t != declared:
			if dq, err := r.reg.ResolveQualifiedName(declared); err != nil || dq != q {
				return r.cur.errorf(elem, ErrUnknownType, "type %s cannot be read into %s", q, declared)
			}
		}
	} else if declared.Kind() == reflect.Interface {
		// The root names its own type.
		if r.items != 1 {
			return r.cur.errorf(elem, ErrUnknownType, "no type marker for a value of interface type %s", declared)
		}
		q := qname.New(start.Name.Local, start.Name.Space)
		t, err := r.typeNamed(elem, q)
		if err != nil {
			return err
		}
		if !t.Implements(declared) && !reflect.PointerTo(t).Implements(declared) {
			return r.cur.errorf(elem, ErrUnknownType, "%s does not implement %s", q, declared)
		}
		at = t
	}
	m, err := r.reg.Register(at)
	if err != nil {
		return err
	}
	if debug.Read() {
		r.log.Debug("read", "path", r.pathString(), "type", at.String(), "element", elem)
	}

	obj, holder, deferred := allocate(slot, at, m)
	if mk.id != "" {
		if _, dup := r.refs[mk.id]; dup {
			return r.cur.errorf(elem, ErrUnexpectedElement, "id %q declared twice", mk.id)
		}
		r.refs[mk.id] = holder
	}

	switch mm := m.(type) {
	case elementMap:
		err = mm.readElement(r, start, obj)
	case contentMap:
		err = mm.readContent(r, obj)
	default:
		var text string
		text, err = r.cur.readText(elem)
		if err == nil {
			if perr := parseLiteral(text, obj); perr != nil {
				err = r.cur.errorf(elem, perr, "invalid %s literal: %v", at, perr)
			}
		}
	}
	if err != nil {
		return err
	}
	if deferred.IsValid() {
		deferred.Set(obj)
	}
	return nil
}

// allocate prepares slot to receive a value of type at. It returns the
// value to fill, the holder recorded for references to it, and, for value
// types stored in interfaces, the interface to set once obj is filled.
func allocate(slot reflect.Value, at reflect.Type, m Map) (obj, holder, deferred reflect.Value) {
	v := slot
	for v.Kind() == reflect.Pointer {
		p := reflect.New(v.Type().Elem())
		v.Set(p)
		holder = p
		v = p.Elem()
	}
	obj = v
	if v.Kind() == reflect.Interface {
		usePtr := !at.Implements(v.Type()) ||
			(m != nil && m.IsReference() && at.Kind() != reflect.Map)
		if usePtr {
			p := reflect.New(at)
			v.Set(p)
			holder, obj = p, p.Elem()
		} else {
			obj = reflect.New(at).Elem()
			holder, deferred = obj.Addr(), v
		}
	} else if !holder.IsValid() && v.CanAddr() {
		holder = v.Addr()
	}
	if at.Kind() == reflect.Map {
		obj.Set(reflect.MakeMap(at))
		holder = obj
	}
	return obj, holder, deferred
}

// assignRef stores a previously read value in slot.
func (r *Reader) assignRef(elem string, slot, target reflect.Value) error {
	v := slot
	tt := target.Type()
	for v.Kind() == reflect.Pointer && !tt.AssignableTo(v.Type()) {
		p := reflect.New(v.Type().Elem())
		v.Set(p)
		v = p.Elem()
	}
	switch {
	case tt.AssignableTo(v.Type()):
		v.Set(target)
	case target.Kind() == reflect.Pointer && tt.Elem().AssignableTo(v.Type()):
		v.Set(target.Elem())
	default:
		return r.cur.errorf(elem, ErrUnknownReference, "referenced %s cannot be stored in %s", tt, slot.Type())
	}
	return nil
}

// readEmpty consumes the end of an element that must have no content.
func (r *Reader) readEmpty(elem string) error {
	text, err := r.cur.readText(elem)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) != "" {
		return r.cur.errorf(elem, ErrUnexpectedElement, "unexpected content in a nil or reference element")
	}
	return nil
}

func (r *Reader) resolveType(elem, value string) (reflect.Type, qname.QName, error) {
	q, err := r.cur.resolve(value)
	if err != nil {
		return nil, q, r.cur.errorf(elem, ErrUnknownType, "type %q: %v", value, err)
	}
	t, err := r.typeNamed(elem, q)
	return t, q, err
}

// typeNamed returns the built-in or registered type named q.
func (r *Reader) typeNamed(elem string, q qname.QName) (reflect.Type, error) {
	if t, ok := qname.Type(q); ok {
		return t, nil
	}
	if m, ok := r.reg.Lookup(q); ok {
		return m.Type(), nil
	}
	return nil, r.cur.errorf(elem, ErrUnknownType, "no type registered as %s", q)
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func (r *Reader) pushPath(seg string) { r.path = append(r.path, seg) }
func (r *Reader) popPath()            { r.path = r.path[:len(r.path)-1] }

func (r *Reader) pathString() string {
	return joinPath(r.path)
}

func (r *Reader) trace(msg string, args ...any) {
	if debug.Read() {
		r.log.Debug(msg, args...)
	}
}
