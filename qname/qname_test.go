package qname

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQNameString(t *testing.T) {
	if got := New("Point", "urn:geo").String(); got != "{urn:geo}Point" {
		t.Errorf("String() = %q", got)
	}
	if got := New("Point", "").String(); got != "Point" {
		t.Errorf("String() = %q", got)
	}
	if !(QName{}).IsZero() {
		t.Error("zero QName should be zero")
	}
}

func TestCompare(t *testing.T) {
	left := QName{Namespace: "urn:a", Local: "b"}
	right := QName{Namespace: "urn:b", Local: "a"}
	if got := Compare(left, right); got >= 0 {
		t.Fatalf("Compare() = %d, want < 0", got)
	}
	right = QName{Namespace: "urn:a", Local: "c"}
	if got := Compare(left, right); got >= 0 {
		t.Fatalf("Compare() = %d, want < 0", got)
	}
	if got := Compare(left, left); got != 0 {
		t.Fatalf("Compare() = %d, want 0", got)
	}
}

func TestBuiltinLookup(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want QName
	}{
		{reflect.TypeFor[bool](), QName{XSDNamespace, "boolean"}},
		{reflect.TypeFor[int](), QName{XSDNamespace, "long"}},
		{reflect.TypeFor[int32](), QName{XSDNamespace, "int"}},
		{reflect.TypeFor[uint8](), QName{XSDNamespace, "unsignedByte"}},
		{reflect.TypeFor[[]byte](), QName{XSDNamespace, "base64Binary"}},
		{reflect.TypeFor[time.Time](), QName{XSDNamespace, "dateTime"}},
		{reflect.TypeFor[time.Duration](), QName{SerializationNamespace, "duration"}},
		{reflect.TypeFor[uuid.UUID](), QName{SerializationNamespace, "guid"}},
		{reflect.TypeFor[any](), AnyType},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, ok := Lookup(tt.typ)
			if !ok {
				t.Fatalf("Lookup(%s) not found", tt.typ)
			}
			if got != tt.want {
				t.Errorf("Lookup(%s) = %s, want %s", tt.typ, got, tt.want)
			}
		})
	}

	type celsius float64
	if _, ok := Lookup(reflect.TypeFor[celsius]()); ok {
		t.Error("named types must not be built-ins")
	}
}

func TestBuiltinType(t *testing.T) {
	got, ok := Type(QName{XSDNamespace, "long"})
	if !ok || got != reflect.TypeFor[int64]() {
		t.Errorf("Type(long) = %v, %v; want int64", got, ok)
	}
	got, ok = Type(QName{XSDNamespace, "unsignedLong"})
	if !ok || got != reflect.TypeFor[uint64]() {
		t.Errorf("Type(unsignedLong) = %v, %v; want uint64", got, ok)
	}
	if _, ok := Type(QName{"urn:x", "long"}); ok {
		t.Error("namespace must be part of the lookup")
	}
	if !IsBuiltin(QName{SerializationNamespace, "guid"}) {
		t.Error("guid should be built-in")
	}
}

func TestKindType(t *testing.T) {
	got, ok := KindType(reflect.Float64)
	if !ok || got != reflect.TypeFor[float64]() {
		t.Errorf("KindType(Float64) = %v, %v", got, ok)
	}
	if _, ok := KindType(reflect.Struct); ok {
		t.Error("struct kind has no built-in")
	}
	if _, ok := KindType(reflect.Slice); ok {
		t.Error("slice kind has no built-in")
	}
}

func TestBuiltinsSorted(t *testing.T) {
	all := Builtins()
	if len(all) != len(builtinTable) {
		t.Fatalf("Builtins() returned %d rows, want %d", len(all), len(builtinTable))
	}
	for i := 1; i < len(all); i++ {
		if Compare(all[i-1].Name, all[i].Name) > 0 {
			t.Fatalf("Builtins() not sorted at %d: %s > %s", i, all[i-1].Name, all[i].Name)
		}
	}
}

func TestEncodeLocalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Point", "Point"},
		{"", ""},
		{"a b", "a_x0020_b"},
		{"1st", "_x0031_st"},
		{"Pair[int]", "Pair_x005B_int_x005D_"},
		{"_x0041_", "_x005F_x0041_"},
		{"plain_name", "plain_name"},
		{"a:b", "a_x003A_b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EncodeLocalName(tt.in)
			if got != tt.want {
				t.Errorf("EncodeLocalName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if back := DecodeLocalName(got); back != tt.in {
				t.Errorf("DecodeLocalName(%q) = %q, want %q", got, back, tt.in)
			}
		})
	}
}

func TestGenericName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Point", "Point"},
		{"Pair[int,string]", "PairOfintstring"},
		{"Pair[int,example.com/geo.Point]", "PairOfintPoint"},
		{"Box[example.com/geo.Box[int]]", "BoxOfBoxOfint"},
		{"Box[*example.com/geo.Point]", "BoxOfPoint"},
		{"Box[[]string]", "BoxOfArrayOfstring"},
	}
	for _, tt := range tests {
		if got := GenericName(tt.in); got != tt.want {
			t.Errorf("GenericName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultNamespace(t *testing.T) {
	got := DefaultNamespace("example.com/geo")
	if got != "http://schemas.datacontract.org/2004/07/example.com/geo" {
		t.Errorf("DefaultNamespace() = %q", got)
	}
}
