package qname

import (
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Builtin is one row of the built-in type table.
type Builtin struct {
	Type reflect.Type
	Name QName
}

var anyType = reflect.TypeFor[any]()

// AnyType is the QName of the empty interface.
var AnyType = QName{Namespace: XSDNamespace, Local: "anyType"}

// builtinTable is ordered so that, for names shared by several Go types, the
// first row is the canonical Go type produced when reading.
var builtinTable = []Builtin{
	{reflect.TypeFor[bool](), QName{XSDNamespace, "boolean"}},
	{reflect.TypeFor[int8](), QName{XSDNamespace, "byte"}},
	{reflect.TypeFor[int16](), QName{XSDNamespace, "short"}},
	{reflect.TypeFor[int32](), QName{XSDNamespace, "int"}},
	{reflect.TypeFor[int64](), QName{XSDNamespace, "long"}},
	{reflect.TypeFor[int](), QName{XSDNamespace, "long"}},
	{reflect.TypeFor[uint8](), QName{XSDNamespace, "unsignedByte"}},
	{reflect.TypeFor[uint16](), QName{XSDNamespace, "unsignedShort"}},
	{reflect.TypeFor[uint32](), QName{XSDNamespace, "unsignedInt"}},
	{reflect.TypeFor[uint64](), QName{XSDNamespace, "unsignedLong"}},
	{reflect.TypeFor[uint](), QName{XSDNamespace, "unsignedLong"}},
	{reflect.TypeFor[float32](), QName{XSDNamespace, "float"}},
	{reflect.TypeFor[float64](), QName{XSDNamespace, "double"}},
	{reflect.TypeFor[string](), QName{XSDNamespace, "string"}},
	{reflect.TypeFor[time.Time](), QName{XSDNamespace, "dateTime"}},
	{reflect.TypeFor[[]byte](), QName{XSDNamespace, "base64Binary"}},
	{reflect.TypeFor[url.URL](), QName{XSDNamespace, "anyURI"}},
	{reflect.TypeFor[uuid.UUID](), QName{SerializationNamespace, "guid"}},
	{reflect.TypeFor[time.Duration](), QName{SerializationNamespace, "duration"}},
	{anyType, AnyType},
}

var (
	byType = map[reflect.Type]QName{}
	byName = map[QName]reflect.Type{}
	byKind = map[reflect.Kind]reflect.Type{}
)

func init() {
	for _, b := range builtinTable {
		byType[b.Type] = b.Name
		if _, ok := byName[b.Name]; !ok {
			byName[b.Name] = b.Type
		}
		if b.Type.PkgPath() == "" && b.Type.Kind() != reflect.Interface && b.Type.Kind() != reflect.Slice {
			if _, ok := byKind[b.Type.Kind()]; !ok {
				byKind[b.Type.Kind()] = b.Type
			}
		}
	}
}

// Lookup returns the QName of a built-in Go type. Only the exact types of
// the table match; named types are never built-ins here.
func Lookup(t reflect.Type) (QName, bool) {
	q, ok := byType[t]
	return q, ok
}

// Type returns the canonical Go type for a built-in QName.
func Type(q QName) (reflect.Type, bool) {
	t, ok := byName[q]
	return t, ok
}

// IsBuiltin reports whether q names a built-in type.
func IsBuiltin(q QName) bool {
	_, ok := byName[q]
	return ok
}

// KindType returns the predeclared Go type for a scalar kind such as
// reflect.Float64, or false when the kind has no built-in representation.
func KindType(k reflect.Kind) (reflect.Type, bool) {
	t, ok := byKind[k]
	return t, ok
}

// Builtins returns the built-in table sorted by QName, then Go type name.
func Builtins() []Builtin {
	res := slices.Clone(builtinTable)
	slices.SortStableFunc(res, func(a, b Builtin) int {
		if c := Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Type.String(), b.Type.String())
	})
	return res
}
