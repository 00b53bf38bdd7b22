package xmlmap

import (
	"encoding/xml"
	"reflect"
)

// selfDescribingMap hands whole elements to the type's own xml.Marshaler
// and xml.Unmarshaler.
type selfDescribingMap struct {
	mapBase
}

func (m *selfDescribingMap) Kind() MapKind { return SelfDescribingMap }

func (m *selfDescribingMap) writeElement(w *Writer, start xml.StartElement, v reflect.Value) error {
	mv, ok := marshaler(v)
	if !ok {
		return contractErrorf(m.typ, ErrNotSerializable, "value does not implement xml.Marshaler")
	}
	if err := w.out.delegate(func(enc *xml.Encoder) error { return mv.MarshalXML(enc, start) }); err != nil {
		return &ContractError{Type: m.typ, Path: w.pathString(), Message: err.Error(), Err: err}
	}
	return nil
}

func (m *selfDescribingMap) readElement(r *Reader, start xml.StartElement, v reflect.Value) error {
	u, ok := v.Addr().Interface().(xml.Unmarshaler)
	if !ok {
		return contractErrorf(m.typ, ErrNotSerializable, "pointer does not implement xml.Unmarshaler")
	}
	if err := u.UnmarshalXML(r.cur.dec, start); err != nil {
		return r.cur.errorf(start.Name.Local, err, "%v", err)
	}
	r.cur.popScope()
	return nil
}

// marshaler returns v, or a pointer to v or to a copy of it, as an
// xml.Marshaler.
func marshaler(v reflect.Value) (xml.Marshaler, bool) {
	if mv, ok := v.Interface().(xml.Marshaler); ok {
		return mv, true
	}
	var p reflect.Value
	if v.CanAddr() {
		p = v.Addr()
	} else {
		p = reflect.New(v.Type())
		p.Elem().Set(v)
	}
	mv, ok := p.Interface().(xml.Marshaler)
	return mv, ok
}
