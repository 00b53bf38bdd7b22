package xmlmap

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/signadot/dcxml/contract"
)

// dictionaryMap writes Go maps as a sequence of entry elements, each holding
// a key element and a value element.
type dictionaryMap struct {
	mapBase
	key, value reflect.Type
	entryName  string
	keyName    string
	valueName  string
}

func newDictionaryMap(r *Registry, base mapBase, coll *contract.Collection) (*dictionaryMap, error) {
	m := &dictionaryMap{
		mapBase:   base,
		key:       base.typ.Key(),
		value:     base.typ.Elem(),
		keyName:   "Key",
		valueName: "Value",
	}
	if coll != nil {
		m.isRef = coll.IsReference
		m.entryName = coll.ItemName
		if coll.KeyName != "" {
			m.keyName = coll.KeyName
		}
		if coll.ValueName != "" {
			m.valueName = coll.ValueName
		}
	}
	if m.entryName == "" {
		seen := map[reflect.Type]bool{base.typ: true}
		k, err := r.itemName(m.key, seen)
		if err != nil {
			return nil, err
		}
		v, err := r.itemName(m.value, seen)
		if err != nil {
			return nil, err
		}
		m.entryName = "KeyValueOf" + k.Local + v.Local
	}
	return m, nil
}

func (m *dictionaryMap) Kind() MapKind { return DictionaryMap }

func (m *dictionaryMap) init(tx *registration) error {
	if _, err := tx.register(m.key); err != nil {
		return &ContractError{Type: m.typ, Message: "key type: " + err.Error(), Err: err}
	}
	if _, err := tx.register(m.value); err != nil {
		return &ContractError{Type: m.typ, Message: "value type: " + err.Error(), Err: err}
	}
	return nil
}

func (m *dictionaryMap) writeContent(w *Writer, v reflect.Value) error {
	keys := v.MapKeys()
	sortKeys(keys)
	ns := m.name.Namespace
	for _, k := range keys {
		if err := w.countItem(); err != nil {
			return err
		}
		w.pushPath(fmt.Sprintf("[%v]", k))
		w.out.start(m.entryName, ns)
		err := w.writeValue(m.keyName, ns, m.key, k)
		if err == nil {
			err = w.writeValue(m.valueName, ns, m.value, v.MapIndex(k))
		}
		w.out.end()
		w.popPath()
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *dictionaryMap) readContent(r *Reader, v reflect.Value) error {
	if v.IsNil() {
		v.Set(reflect.MakeMap(v.Type()))
	}
	for {
		entry, ok, err := r.cur.nextChild(m.name.Local)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if entry.Name.Local != m.entryName {
			return r.cur.errorf(entry.Name.Local, ErrUnexpectedElement, "expected <%s> entry", m.entryName)
		}
		key := reflect.New(m.key).Elem()
		if err := m.readPart(r, m.keyName, key); err != nil {
			return err
		}
		val := reflect.New(m.value).Elem()
		r.pushPath(fmt.Sprintf("[%v]", key))
		err = m.readPart(r, m.valueName, val)
		r.popPath()
		if err != nil {
			return err
		}
		extra, ok, err := r.cur.nextChild(m.entryName)
		if err != nil {
			return err
		}
		if ok {
			return r.cur.errorf(extra.Name.Local, ErrUnexpectedElement, "unexpected element after <%s>", m.valueName)
		}
		v.SetMapIndex(key, val)
	}
}

func (m *dictionaryMap) readPart(r *Reader, name string, v reflect.Value) error {
	child, ok, err := r.cur.nextChild(m.entryName)
	if err != nil {
		return err
	}
	if !ok {
		return r.cur.errorf(m.entryName, ErrUnexpectedElement, "<%s> without <%s>", m.entryName, name)
	}
	if child.Name.Local != name {
		return r.cur.errorf(child.Name.Local, ErrUnexpectedElement, "expected <%s>", name)
	}
	return r.readValue(child, v)
}

// sortKeys orders map keys so that dictionaries are written canonically.
func sortKeys(keys []reflect.Value) {
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return strings.Compare(a.String(), b.String())
		case reflect.Bool:
			switch {
			case a.Bool() == b.Bool():
				return 0
			case b.Bool():
				return -1
			}
			return 1
		}
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
}
