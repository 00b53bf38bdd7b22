package xmlmap

import (
	"reflect"
	"strconv"

	"github.com/signadot/dcxml/contract"
)

// collectionMap writes slices and arrays as a sequence of item elements
// sharing one name.
type collectionMap struct {
	mapBase
	elem     reflect.Type
	itemName string
}

func newCollectionMap(r *Registry, base mapBase, coll *contract.Collection) (*collectionMap, error) {
	m := &collectionMap{mapBase: base, elem: base.typ.Elem()}
	if coll != nil {
		m.itemName = coll.ItemName
	}
	if m.itemName == "" {
		q, err := r.itemName(m.elem, map[reflect.Type]bool{base.typ: true})
		if err != nil {
			return nil, err
		}
		m.itemName = q.Local
	}
	return m, nil
}

func (m *collectionMap) Kind() MapKind { return CollectionMap }

func (m *collectionMap) init(tx *registration) error {
	if _, err := tx.register(m.elem); err != nil {
		return &ContractError{Type: m.typ, Message: "item type: " + err.Error(), Err: err}
	}
	return nil
}

func (m *collectionMap) writeContent(w *Writer, v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		w.pushPath("[" + strconv.Itoa(i) + "]")
		err := w.writeValue(m.itemName, m.name.Namespace, m.elem, v.Index(i))
		w.popPath()
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *collectionMap) readContent(r *Reader, v reflect.Value) error {
	isSlice := v.Kind() == reflect.Slice
	if isSlice {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	}
	for i := 0; ; i++ {
		child, ok, err := r.cur.nextChild(m.name.Local)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if child.Name.Local != m.itemName {
			return r.cur.errorf(child.Name.Local, ErrUnexpectedElement, "expected <%s> item", m.itemName)
		}
		r.pushPath("[" + strconv.Itoa(i) + "]")
		if isSlice {
			item := reflect.New(m.elem).Elem()
			err = r.readValue(child, item)
			if err == nil {
				v.Set(reflect.Append(v, item))
			}
		} else {
			if i >= v.Len() {
				r.popPath()
				return r.cur.errorf(child.Name.Local, ErrUnexpectedElement, "more than %d items for %s", v.Len(), m.typ)
			}
			err = r.readValue(child, v.Index(i))
		}
		r.popPath()
		if err != nil {
			return err
		}
	}
}
