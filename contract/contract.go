// Package contract defines the declarations that opt Go types into the
// data contract codec and the struct-tag front end that produces them.
//
// A record contract is a struct carrying a field of type Record. Only fields
// with a `dc` tag are members:
//
//	type Point struct {
//	    _ contract.Record `dc:"name=Point,namespace=urn:geo"`
//	    X int `dc:"name=x,required"`
//	    Y int `dc:"name=y,required"`
//	}
//
// Other shapes are declared through methods: CollectionContract on named
// slice, array and map types, EnumContract on named integer types, and
// KnownTypes on record contracts whose members hold interface values.
//
// The codec never inspects struct tags itself; it consumes the Declaration
// values built here, or ones supplied explicitly by the caller.
package contract

import (
	"reflect"
)

// Record marks a struct as a record contract. Its `dc` tag accepts
// name=, namespace= (or ns=) and the ref flag, which turns on reference
// preservation for values of the type.
type Record struct{}

// Serializable marks a struct for the legacy serializable shape: every
// exported field is a member under its Go name, except fields tagged
// `dc:"-"`.
type Serializable struct{}

// Collection is a collection contract declaration for a named slice, array
// or map type. Empty fields fall back to the synthesized defaults.
type Collection struct {
	Name      string
	Namespace string

	// ItemName names each item element (or each entry element for maps).
	ItemName string

	// KeyName and ValueName name the children of a map entry.
	KeyName   string
	ValueName string

	// IsReference turns on reference preservation. It only has an effect on
	// map types, which are the collections that carry identity.
	IsReference bool
}

// CollectionContract is implemented by types declaring a collection contract.
type CollectionContract interface {
	CollectionContract() Collection
}

// EnumMember is one symbolic value of an enum.
type EnumMember struct {
	Name  string
	Value int64
}

// Enum declares the symbol table of an enum type.
type Enum struct {
	Name      string
	Namespace string

	// Flags marks a bit-set enum, written as a space separated token list.
	Flags   bool
	Members []EnumMember
}

// EnumContract is implemented by named integer types that are enums.
type EnumContract interface {
	EnumContract() Enum
}

// KnownTypeProvider is implemented by record contracts that declare the
// concrete types their interface-typed members may hold. Each element is a
// value (or nil pointer) of a known type.
type KnownTypeProvider interface {
	KnownTypes() []any
}

var (
	recordType       = reflect.TypeFor[Record]()
	serializableType = reflect.TypeFor[Serializable]()
)

// Kind classifies a struct declaration.
type Kind int

const (
	// Default is a struct with no marker: exported fields are members.
	Default Kind = iota
	// RecordKind is an explicit record contract.
	RecordKind
	// SerializableKind is a struct marked Serializable.
	SerializableKind
)

func (k Kind) String() string {
	switch k {
	case RecordKind:
		return "record"
	case SerializableKind:
		return "serializable"
	default:
		return "default"
	}
}

// Declaration is the parsed contract of a struct type.
type Declaration struct {
	Kind Kind

	// Name and Namespace are the explicit contract name; empty means derived.
	Name      string
	Namespace string

	IsReference bool

	// Base is the embedded record contract this type extends, if any, and
	// BaseIndex the index of the embedded field.
	Base      reflect.Type
	BaseIndex []int

	Members    []Member
	KnownTypes []reflect.Type
}

// Member describes one data member.
type Member struct {
	// Field is the Go field name. When Index is nil it is resolved with
	// reflect.Type.FieldByName.
	Field string
	Index []int

	// Name is the XML element name; empty means the Go field name.
	Name string

	// Order places the member after all members of lower order. Zero means
	// no explicit order.
	Order    int
	Required bool

	Type reflect.Type
}
