package xmlmap

import (
	"encoding/xml"
	"reflect"
	"slices"

	"github.com/signadot/dcxml/contract"
	"github.com/signadot/dcxml/qname"
)

// TypeNamer is implemented by self-describing types that choose their own
// qualified name.
type TypeNamer interface {
	XMLTypeName() qname.QName
}

// shape is the classification of a Go type into a map variant.
type shape struct {
	kind MapKind
	decl *contract.Declaration
	coll *contract.Collection
	enum *contract.Enum
}

// methodValue returns a T backed by a zero value of t when t or *t
// implements T.
func methodValue[T any](t reflect.Type) (T, bool) {
	it := reflect.TypeFor[T]()
	switch {
	case t.Implements(it):
		return reflect.New(t).Elem().Interface().(T), true
	case reflect.PointerTo(t).Implements(it):
		return reflect.New(t).Interface().(T), true
	}
	var zero T
	return zero, false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isEnum(t reflect.Type) bool {
	if !isInteger(t.Kind()) {
		return false
	}
	_, ok := methodValue[contract.EnumContract](t)
	return ok
}

func isSelfDescribing(t reflect.Type) bool {
	_, m := methodValue[xml.Marshaler](t)
	return m && reflect.PointerTo(t).Implements(reflect.TypeFor[xml.Unmarshaler]())
}

// builtinName returns the built-in name of t. Besides the exact types of
// the built-in table, named scalar types that are neither enums nor
// self-describing take the built-in of their kind, and named byte slices
// without a collection contract are base64 data.
func builtinName(t reflect.Type) (qname.QName, bool) {
	if q, ok := qname.Lookup(t); ok {
		return q, true
	}
	if t.Name() == "" || isEnum(t) || isSelfDescribing(t) {
		return qname.QName{}, false
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		if _, ok := methodValue[contract.CollectionContract](t); ok {
			return qname.QName{}, false
		}
		return qname.Lookup(reflect.TypeFor[[]byte]())
	}
	if kt, ok := qname.KindType(t.Kind()); ok {
		return qname.Lookup(kt)
	}
	return qname.QName{}, false
}

// declaration returns the contract declaration of struct type t. Callers
// hold r.mu.
func (r *Registry) declaration(t reflect.Type) (*contract.Declaration, error) {
	if d, ok := r.decls[t]; ok {
		decl := *d
		decl.Members = slices.Clone(d.Members)
		if err := decl.Resolve(t); err != nil {
			return nil, &ContractError{Type: t, Err: err}
		}
		return &decl, nil
	}
	decl, err := contract.Describe(t)
	if err != nil {
		return nil, &ContractError{Type: t, Err: err}
	}
	return decl, nil
}

// classify picks the map variant of t, which is neither a pointer, an
// interface nor a built-in. Callers hold r.mu.
func (r *Registry) classify(t reflect.Type) (shape, error) {
	if e, ok := methodValue[contract.EnumContract](t); ok {
		if !isInteger(t.Kind()) {
			return shape{}, contractErrorf(t, ErrNotSerializable, "enum contract on non-integer kind %s", t.Kind())
		}
		decl := e.EnumContract()
		s := shape{kind: EnumMap, enum: &decl}
		if decl.Flags {
			s.kind = FlagsEnumMap
		}
		return s, nil
	}
	var coll *contract.Collection
	if c, ok := methodValue[contract.CollectionContract](t); ok {
		switch t.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			decl := c.CollectionContract()
			coll = &decl
		default:
			return shape{}, contractErrorf(t, ErrNotSerializable, "collection contract on non-collection kind %s", t.Kind())
		}
	}
	if t.Kind() == reflect.Map {
		return shape{kind: DictionaryMap, coll: coll}, nil
	}
	if coll != nil {
		return shape{kind: CollectionMap, coll: coll}, nil
	}
	if t.Kind() == reflect.Struct {
		if d, ok := r.decls[t]; (ok && d.Kind == contract.RecordKind) || (!ok && contract.IsRecord(t)) {
			decl, err := r.declaration(t)
			if err != nil {
				return shape{}, err
			}
			return shape{kind: RecordMap, decl: decl}, nil
		}
	}
	if isSelfDescribing(t) {
		return shape{kind: SelfDescribingMap}, nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return shape{kind: CollectionMap}, nil
	case reflect.Struct:
		decl, err := r.declaration(t)
		if err != nil {
			return shape{}, err
		}
		return shape{kind: DefaultMap, decl: decl}, nil
	}
	return shape{}, contractErrorf(t, ErrNotSerializable, "no contract applies to kind %s", t.Kind())
}

// qualifiedName resolves the name of t without registering anything.
// Callers hold r.mu; seen guards types whose name depends on itself.
func (r *Registry) qualifiedName(t reflect.Type, seen map[reflect.Type]bool) (qname.QName, error) {
	t = indirect(t)
	if t.Kind() == reflect.Interface {
		if t == anyType {
			return qname.AnyType, nil
		}
		return qname.QName{}, contractErrorf(t, ErrNotSerializable, "interface types have no contract name")
	}
	if q, ok := builtinName(t); ok {
		return q, nil
	}
	if m, ok := r.byType[t]; ok {
		return m.QName(), nil
	}
	if seen[t] {
		return qname.QName{}, contractErrorf(t, ErrNotSerializable, "name depends on itself")
	}
	seen[t] = true
	defer delete(seen, t)
	s, err := r.classify(t)
	if err != nil {
		return qname.QName{}, err
	}
	return r.nameOf(t, s, seen)
}

// itemName is the name of a collection item, dictionary key or value type.
// Items declared as interfaces are named as arbitrary objects.
func (r *Registry) itemName(t reflect.Type, seen map[reflect.Type]bool) (qname.QName, error) {
	if indirect(t).Kind() == reflect.Interface {
		return qname.AnyType, nil
	}
	return r.qualifiedName(t, seen)
}

func (r *Registry) nameOf(t reflect.Type, s shape, seen map[reflect.Type]bool) (qname.QName, error) {
	switch s.kind {
	case EnumMap, FlagsEnumMap:
		return r.contractName(t, s.enum.Name, s.enum.Namespace)
	case DictionaryMap, CollectionMap:
		if s.coll != nil || t.Name() != "" {
			var name, ns string
			if s.coll != nil {
				name, ns = s.coll.Name, s.coll.Namespace
			}
			return r.contractName(t, name, ns)
		}
		if s.kind == CollectionMap {
			elem, err := r.itemName(t.Elem(), seen)
			if err != nil {
				return qname.QName{}, err
			}
			return qname.New("ArrayOf"+elem.Local, collectionNamespace(elem)), nil
		}
		key, err := r.itemName(t.Key(), seen)
		if err != nil {
			return qname.QName{}, err
		}
		val, err := r.itemName(t.Elem(), seen)
		if err != nil {
			return qname.QName{}, err
		}
		return qname.New("ArrayOfKeyValueOf"+key.Local+val.Local, collectionNamespace(val)), nil
	case SelfDescribingMap:
		if n, ok := methodValue[TypeNamer](t); ok {
			q := n.XMLTypeName()
			if q.Local == "" || q.Namespace == "" {
				return qname.QName{}, contractErrorf(t, ErrNotSerializable, "type name %s needs a local name and a namespace", q)
			}
			return q, nil
		}
		return r.contractName(t, "", "")
	}
	return r.contractName(t, s.decl.Name, s.decl.Namespace)
}

// collectionNamespace is the namespace of a synthesized collection name
// whose items are named item.
func collectionNamespace(item qname.QName) string {
	if qname.IsBuiltin(item) {
		return qname.ArraysNamespace
	}
	return item.Namespace
}

func (r *Registry) contractName(t reflect.Type, name, ns string) (qname.QName, error) {
	if name == "" {
		if t.Name() == "" {
			return qname.QName{}, contractErrorf(t, ErrNotSerializable, "anonymous %s types need an explicit contract name", t.Kind())
		}
		name = qname.EncodeLocalName(qname.GenericName(t.Name()))
	}
	if ns == "" {
		ns = r.namespaceFor(t.PkgPath())
	}
	return qname.New(name, ns), nil
}

func (r *Registry) namespaceFor(pkgPath string) string {
	if ns, ok := r.namespaces[pkgPath]; ok {
		return ns
	}
	return qname.DefaultNamespace(pkgPath)
}
