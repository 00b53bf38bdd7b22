package xmlmap

import (
	"encoding/xml"
	"reflect"

	"github.com/signadot/dcxml/qname"
)

// MapKind identifies a serialization map variant.
type MapKind int

const (
	RecordMap MapKind = iota
	DefaultMap
	CollectionMap
	DictionaryMap
	EnumMap
	FlagsEnumMap
	SelfDescribingMap
)

func (k MapKind) String() string {
	switch k {
	case RecordMap:
		return "record"
	case DefaultMap:
		return "default"
	case CollectionMap:
		return "collection"
	case DictionaryMap:
		return "dictionary"
	case EnumMap:
		return "enum"
	case FlagsEnumMap:
		return "flags"
	case SelfDescribingMap:
		return "self-describing"
	}
	return "unknown"
}

// Map is the serialization strategy of one Go type. Maps are created by a
// Registry and never change once registration returns.
type Map interface {
	Type() reflect.Type
	QName() qname.QName
	Kind() MapKind

	// IsReference reports whether repeated values are written once and then
	// referenced by id.
	IsReference() bool

	// ContractAllowed reports whether values of the type may be written in
	// a slot declared with another type.
	ContractAllowed() bool

	// Members returns the data members in wire order. Only record and
	// default maps have members.
	Members() []*MemberInfo

	init(tx *registration) error
}

// contentMap is implemented by maps that write the content of an element
// whose start tag and markers the Writer has already written, and read it
// back up to and including the end tag.
type contentMap interface {
	Map
	writeContent(w *Writer, v reflect.Value) error
	readContent(r *Reader, v reflect.Value) error
}

// elementMap is implemented by maps that write and read whole elements.
type elementMap interface {
	Map
	writeElement(w *Writer, start xml.StartElement, v reflect.Value) error
	readElement(r *Reader, start xml.StartElement, v reflect.Value) error
}

// MemberInfo describes one data member of a record or default map.
type MemberInfo struct {
	Field     string
	Index     []int
	Name      string
	Namespace string
	Order     int
	Required  bool
	Type      reflect.Type

	// DeclaringType is the contract that declares the member, which differs
	// from the map's type for members inherited from a base contract.
	DeclaringType reflect.Type
}

type mapBase struct {
	typ     reflect.Type
	name    qname.QName
	isRef   bool
	allowed bool
}

func (b *mapBase) Type() reflect.Type       { return b.typ }
func (b *mapBase) QName() qname.QName       { return b.name }
func (b *mapBase) IsReference() bool        { return b.isRef }
func (b *mapBase) ContractAllowed() bool    { return b.allowed }
func (b *mapBase) Members() []*MemberInfo   { return nil }
func (b *mapBase) init(*registration) error { return nil }

// indirect strips every pointer level from t.
func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

var anyType = reflect.TypeFor[any]()
