package xmlmap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"math"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/signadot/dcxml/config"
)

func TestMarshalDocuments(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "record",
			v:    Point{X: 1, Y: 2},
			want: `<Point xmlns="urn:geo" ` + iDecl + `><x>1</x><y>2</y></Point>`,
		},
		{
			name: "builtin root",
			v:    42,
			want: `<long xmlns="http://www.w3.org/2001/XMLSchema" ` + iDecl + `>42</long>`,
		},
		{
			name: "collection",
			v:    []string{"a", "b", "c"},
			want: `<ArrayOfstring xmlns="` + arrayNS + `" ` + iDecl + `>` +
				`<string>a</string><string>b</string><string>c</string></ArrayOfstring>`,
		},
		{
			name: "empty collection",
			v:    []string{},
			want: `<ArrayOfstring xmlns="` + arrayNS + `" ` + iDecl + `/>`,
		},
		{
			name: "dictionary",
			v:    map[string]int{"b": 2, "a": 1},
			want: `<ArrayOfKeyValueOfstringlong xmlns="` + arrayNS + `" ` + iDecl + `>` +
				`<KeyValueOfstringlong><Key>a</Key><Value>1</Value></KeyValueOfstringlong>` +
				`<KeyValueOfstringlong><Key>b</Key><Value>2</Value></KeyValueOfstringlong>` +
				`</ArrayOfKeyValueOfstringlong>`,
		},
		{
			name: "base members first",
			v:    Customer{Entity: Entity{ID: "c1"}, Name: "Ann", Email: "ann@example.com"},
			want: `<Customer xmlns="urn:crm" ` + iDecl + `>` +
				`<ID xmlns="urn:base">c1</ID><Email>ann@example.com</Email><Name>Ann</Name></Customer>`,
		},
		{
			name: "nil members",
			v:    Drawing{},
			want: `<Drawing xmlns="urn:geo" ` + iDecl + `><Main i:nil="true"/><Shapes i:nil="true"/></Drawing>`,
		},
		{
			name: "flags enum",
			v:    AccessRead | AccessWrite,
			want: `<Access xmlns="` + testNS + `" ` + iDecl + `>Read Write</Access>`,
		},
		{
			name: "zero flags",
			v:    Access(0),
			want: `<Access xmlns="` + testNS + `" ` + iDecl + `>None</Access>`,
		},
		{
			name: "enum",
			v:    Blue,
			want: `<Colour xmlns="urn:paint" ` + iDecl + `>Blue</Colour>`,
		},
		{
			name: "escaping",
			v:    Legacy{Name: `<a & "b">`, Secret: "hidden"},
			want: `<Legacy xmlns="` + testNS + `" ` + iDecl + `><Name>&lt;a &amp; &#34;b&#34;&gt;</Name></Legacy>`,
		},
		{
			name: "reference cycle",
			v: func() any {
				n := &refNode{Value: 1}
				n.Next = n
				return n
			}(),
			want: `<Node xmlns="urn:list" ` + iDecl + ` ` + zDecl + ` z:Id="i1"><Next z:Ref="i1"/><Value>1</Value></Node>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Marshal(tc.v, WithRegistry(NewRegistry()))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, string(got)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalIndent(t *testing.T) {
	got, err := Marshal(Point{X: 1, Y: 2}, WithIndent("  "))
	if err != nil {
		t.Fatal(err)
	}
	want := `<Point xmlns="urn:geo" ` + iDecl + `>
  <x>1</x>
  <y>2</y>
</Point>`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWithSettings(t *testing.T) {
	s := config.Default()
	s.Indent = "\t"
	s.MaxItems = 2
	_, err := Marshal([]int{1, 2}, WithSettings(s), WithRegistry(NewRegistry()))
	if !errors.Is(err, ErrMaxItemsExceeded) {
		t.Fatalf("got %v, want ErrMaxItemsExceeded", err)
	}
	s.MaxItems = 10
	got, err := Marshal([]int{1}, WithSettings(s), WithRegistry(NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "\n\t<long>1</long>\n") {
		t.Errorf("settings indent not applied:\n%s", got)
	}
}

func roundTrip[T any](t *testing.T, in T, opts ...Option) T {
	t.Helper()
	data, err := Marshal(in, opts...)
	if err != nil {
		t.Fatal(err)
	}
	var out T
	if err := Unmarshal(data, &out, opts...); err != nil {
		t.Fatalf("%v\n%s", err, data)
	}
	return out
}

func TestRoundTripEverything(t *testing.T) {
	five := 5
	in := Everything{
		Flag:     true,
		I8:       math.MinInt8,
		I16:      -300,
		I32:      1 << 20,
		I64:      math.MinInt64,
		I:        -7,
		U8:       255,
		U16:      65535,
		U32:      1 << 31,
		U64:      math.MaxUint64,
		U:        9,
		F32:      1.5,
		F64:      math.Pi,
		S:        "  keep spaces & <tags>  ",
		T:        time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC),
		B:        []byte{0, 1, 2, 0xff},
		URL:      url.URL{Scheme: "https", Host: "example.com", Path: "/docs", RawQuery: "q=1"},
		ID:       uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		D:        90*time.Minute + 500*time.Millisecond,
		Temp:     Celsius(-40),
		Ptr:      &five,
		Anything: int64(42),
		Names:    []string{"a", "b"},
		Scores:   map[string]int{"x": 1, "y": 2},
		Grid:     [2]int{3, 4},
		Access:   AccessWrite,
		Color:    Green,
		Tags:     Tags{"red", "blue"},
	}
	out := roundTrip(t, in, WithRegistry(NewRegistry()))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRoundTripPolymorphic(t *testing.T) {
	in := Drawing{
		Shapes: []Shape{Circle{R: 1}, &Square{Side: 2}, nil},
		Main:   &Square{Side: 3},
	}
	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<anyType xmlns="` + arrayNS + `" xmlns:d3p1="urn:geo" i:type="d3p1:Circle">`,
		`<Main xmlns:d2p1="urn:geo" i:type="d2p1:Square">`,
		`<anyType xmlns="` + arrayNS + `" i:nil="true"/>`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("missing %s in\n%s", want, data)
		}
	}
	var out Drawing
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, ok := out.Shapes[0].(Circle); !ok {
		t.Errorf("value receiver type read as %T", out.Shapes[0])
	}
	if _, ok := out.Shapes[1].(*Square); !ok {
		t.Errorf("pointer receiver type read as %T", out.Shapes[1])
	}
}

func TestRoundTripAny(t *testing.T) {
	in := []any{"s", int64(1), true, nil, Point{X: 1, Y: 2}, []string{"x"}}
	out := roundTrip(t, in, WithRegistry(NewRegistry()))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnmarshalInterfaceRoot(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"record", Point{X: 1, Y: 2}},
		{"built-in", int64(7)},
		{"collection", []string{"a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry()
			data, err := Marshal(tc.in, WithRegistry(reg))
			if err != nil {
				t.Fatal(err)
			}
			var out any
			if err := Unmarshal(data, &out, WithRegistry(reg)); err != nil {
				t.Fatalf("%v\n%s", err, data)
			}
			if diff := cmp.Diff(tc.in, out); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	reg := NewRegistry()
	if _, err := reg.Register(reflect.TypeFor[Drawing]()); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Register(reflect.TypeFor[Point]()); err != nil {
		t.Fatal(err)
	}
	var s Shape
	if err := Unmarshal([]byte(`<Circle xmlns="urn:geo"><R>2</R></Circle>`), &s, WithRegistry(reg)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Shape(Circle{R: 2}), s); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	err := Unmarshal([]byte(`<Point xmlns="urn:geo"><x>1</x><y>2</y></Point>`), &s, WithRegistry(reg))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("point into shape: got %v", err)
	}
	var out any
	err = Unmarshal([]byte(`<Triangle xmlns="urn:geo"/>`), &out, WithRegistry(reg))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("unregistered root: got %v", err)
	}
}

func TestRoundTripSelfDescribing(t *testing.T) {
	in := Envelope{Stamp: Stamp{Label: "x&y"}, Extra: Stamp{Label: "inner"}, Note: "n"}
	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `label="x&amp;y"`) {
		t.Errorf("stamp not written by its marshaler:\n%s", data)
	}
	var out Envelope
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("%v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReferenceCycle(t *testing.T) {
	n := &refNode{Value: 1}
	n.Next = &refNode{Value: 2, Next: n}
	got := roundTrip(t, n, WithRegistry(NewRegistry()))
	if got.Value != 1 || got.Next.Value != 2 {
		t.Fatalf("values %d %d", got.Value, got.Next.Value)
	}
	if got.Next.Next != got {
		t.Error("cycle not restored")
	}
}

func TestSharedReferences(t *testing.T) {
	shared := &refNode{Value: 7}
	in := holder{Items: []*refNode{shared, shared, {Value: 8}, shared}}
	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "z:Id="); n != 2 {
		t.Errorf("got %d ids, want 2:\n%s", n, data)
	}
	if n := strings.Count(string(data), "z:Ref="); n != 2 {
		t.Errorf("got %d refs, want 2:\n%s", n, data)
	}
	var out holder
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 4 {
		t.Fatalf("got %d items", len(out.Items))
	}
	if out.Items[0] != out.Items[1] || out.Items[0] != out.Items[3] {
		t.Error("shared item read as distinct values")
	}
	if out.Items[2] == out.Items[0] || out.Items[2].Value != 8 {
		t.Errorf("distinct item %+v", out.Items[2])
	}
}

func TestReferenceDictionary(t *testing.T) {
	n := &refNode{Value: 3}
	in := Index{"a": n, "b": n}
	out := roundTrip(t, in, WithRegistry(NewRegistry()))
	if out["a"] == nil || out["a"] != out["b"] {
		t.Errorf("shared values not restored: %+v", out)
	}
}

func TestSharedValuesWithoutReferences(t *testing.T) {
	p := &Point{X: 1, Y: 1}
	type pair struct {
		A, B *Point
	}
	out := roundTrip(t, pair{A: p, B: p}, WithRegistry(NewRegistry()))
	if out.A == out.B {
		t.Error("non-reference values share identity after reading")
	}
	if *out.A != *out.B {
		t.Errorf("values differ: %+v %+v", out.A, out.B)
	}
}

func TestMarshalErrors(t *testing.T) {
	cyclic := &node{Value: 1}
	cyclic.Next = cyclic
	looped := []any{nil}
	looped[0] = looped

	tests := []struct {
		name string
		v    any
		want error
		path string
	}{
		{name: "untyped nil", v: nil, want: ErrNotSerializable},
		{name: "func", v: func() {}, want: ErrNotSerializable},
		{name: "cycle without references", v: cyclic, want: ErrCircularReference, path: "node.Next"},
		{name: "slice containing itself", v: looped, want: ErrCircularReference, path: "ArrayOfanyType[0]"},
		{name: "unknown enum value", v: Color(7), want: ErrEnumValue, path: "Colour"},
		{name: "leftover flag bits", v: Access(4), want: ErrEnumValue},
		{name: "path", v: Order{Lines: []Line{{Color: Red}, {Color: 9}}}, want: ErrEnumValue, path: "Order.Lines[1].Color"},
		{name: "substitution of default map", v: []any{Plain{A: 1}}, want: ErrNotSerializable, path: "ArrayOfanyType[0]"},
		{name: "unserializable member", v: struct{ F func() }{}, want: ErrNotSerializable},
		{name: "type name without namespace", v: Envelope{Extra: BareStamp{}}, want: ErrNotSerializable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Marshal(tc.v, WithRegistry(NewRegistry()))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var ce *ContractError
			if !errors.As(err, &ce) {
				t.Fatalf("got %T, want *ContractError", err)
			}
			if tc.path != "" && ce.Path != tc.path {
				t.Errorf("path: got %q, want %q", ce.Path, tc.path)
			}
		})
	}
}

func TestMaxItems(t *testing.T) {
	_, err := Marshal([]string{"a", "b", "c", "d"}, WithMaxItems(3))
	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LimitError", err)
	}
	if le.Limit != 3 || le.Path != "ArrayOfstring[2]" {
		t.Errorf("got %+v", le)
	}
	if !errors.Is(err, ErrMaxItemsExceeded) {
		t.Error("limit error does not wrap ErrMaxItemsExceeded")
	}

	data, err := Marshal([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	if err := Unmarshal(data, &out, WithMaxItems(3)); !errors.Is(err, ErrMaxItemsExceeded) {
		t.Errorf("reading: got %v, want ErrMaxItemsExceeded", err)
	}
	if err := Unmarshal(data, &out, WithMaxItems(5)); err != nil {
		t.Errorf("reading within the limit: %v", err)
	}
}

func TestFailedSerializeWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithRegistry(NewRegistry()), WithMaxItems(2000))
	err := w.Serialize(make([]string, 3000))
	if !errors.Is(err, ErrMaxItemsExceeded) {
		t.Fatalf("got %v, want ErrMaxItemsExceeded", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("failed document left %d bytes", buf.Len())
	}
	if err := w.Serialize(make([]string, 1000)); err != nil {
		t.Fatal(err)
	}
	var out []string
	if err := Unmarshal(buf.Bytes(), &out, WithRegistry(NewRegistry())); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1000 {
		t.Errorf("got %d items", len(out))
	}
}

func TestWriterReuse(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithRegistry(NewRegistry()))
	if err := w.Serialize(Color(9)); err == nil {
		t.Fatal("expected an error")
	}
	if err := w.Serialize(Point{X: 3, Y: 4}); err != nil {
		t.Fatal(err)
	}
	want := `<Point xmlns="urn:geo" ` + iDecl + `><x>3</x><y>4</y></Point>`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Point
	}{
		{
			name: "unknown elements skipped",
			doc:  `<Point xmlns="urn:geo"><x>1</x><extra><deep a="b">t</deep></extra><y>2</y></Point>`,
			want: Point{X: 1, Y: 2},
		},
		{
			name: "any order",
			doc:  `<Point xmlns="urn:geo"><y>2</y><x>1</x></Point>`,
			want: Point{X: 1, Y: 2},
		},
		{
			name: "whitespace and comments",
			doc:  "<?xml version=\"1.0\"?>\n<Point xmlns=\"urn:geo\">\n  <!-- c -->\n  <x> 1 </x>\n  <y>2</y>\n</Point>\n",
			want: Point{X: 1, Y: 2},
		},
		{
			name: "member in another namespace",
			doc:  `<Point xmlns="urn:geo"><x xmlns="urn:other">1</x><y>2</y></Point>`,
			want: Point{X: 1, Y: 2},
		},
		{
			name: "prefixed root",
			doc:  `<g:Point xmlns:g="urn:geo"><g:x>5</g:x><g:y>6</g:y></g:Point>`,
			want: Point{X: 5, Y: 6},
		},
		{
			name: "matching type marker",
			doc:  `<Point xmlns="urn:geo" xmlns:i="http://www.w3.org/2001/XMLSchema-instance" i:type="Point"><x>1</x><y>1</y></Point>`,
			want: Point{X: 1, Y: 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Point
			if err := Unmarshal([]byte(tc.doc), &got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalFlags(t *testing.T) {
	var got Access
	doc := `<Access xmlns="` + testNS + `"> Write   Read </Access>`
	if err := Unmarshal([]byte(doc), &got); err != nil {
		t.Fatal(err)
	}
	if got != AccessRead|AccessWrite {
		t.Errorf("got %d", got)
	}
}

const (
	instanceNS = "http://www.w3.org/2001/XMLSchema-instance"
	serialNS   = "http://schemas.microsoft.com/2003/10/Serialization/"
)

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target any
		want   error
	}{
		{
			name:   "missing required member",
			doc:    `<Point xmlns="urn:geo"><x>1</x></Point>`,
			target: new(Point),
			want:   ErrRequiredMember,
		},
		{
			name:   "duplicate member",
			doc:    `<Point xmlns="urn:geo"><x>1</x><x>2</x><y>1</y></Point>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "wrong root",
			doc:    `<Other xmlns="urn:geo"/>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "wrong root namespace",
			doc:    `<Point xmlns="urn:elsewhere"><x>1</x><y>2</y></Point>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "empty document",
			doc:    ``,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "trailing element",
			doc:    `<Point xmlns="urn:geo"><x>1</x><y>2</y></Point><Point/>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "text in record",
			doc:    `<Point xmlns="urn:geo">hello<x>1</x><y>2</y></Point>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "element in literal",
			doc:    `<Point xmlns="urn:geo"><x><b/></x><y>2</y></Point>`,
			target: new(Point),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "nil in value slot",
			doc:    `<Point xmlns="urn:geo" xmlns:i="` + instanceNS + `"><x i:nil="true"/><y>2</y></Point>`,
			target: new(Point),
			want:   ErrNilNotAllowed,
		},
		{
			name:   "unknown reference",
			doc:    `<Node xmlns="urn:list" xmlns:z="` + serialNS + `"><Next z:Ref="i9"/><Value>1</Value></Node>`,
			target: new(*refNode),
			want:   ErrUnknownReference,
		},
		{
			name: "forward reference",
			doc: `<Holder xmlns="urn:list" xmlns:z="` + serialNS + `"><Items>` +
				`<Node z:Ref="i1"/><Node z:Id="i1"><Value>1</Value></Node></Items></Holder>`,
			target: new(holder),
			want:   ErrUnknownReference,
		},
		{
			name: "duplicate id",
			doc: `<Holder xmlns="urn:list" xmlns:z="` + serialNS + `"><Items>` +
				`<Node z:Id="i1"><Value>1</Value></Node><Node z:Id="i1"><Value>2</Value></Node></Items></Holder>`,
			target: new(holder),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "content in reference",
			doc:    `<Node xmlns="urn:list" xmlns:z="` + serialNS + `" z:Id="i1"><Next z:Ref="i1">x</Next></Node>`,
			target: new(*refNode),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "interface without type marker",
			doc:    `<Drawing xmlns="urn:geo"><Main><R>1</R></Main></Drawing>`,
			target: new(Drawing),
			want:   ErrUnknownType,
		},
		{
			name:   "unregistered type",
			doc:    `<Drawing xmlns="urn:geo" xmlns:i="` + instanceNS + `"><Main i:type="Triangle"/></Drawing>`,
			target: new(Drawing),
			want:   ErrUnknownType,
		},
		{
			name:   "undeclared type prefix",
			doc:    `<Drawing xmlns="urn:geo" xmlns:i="` + instanceNS + `"><Main i:type="q:Circle"/></Drawing>`,
			target: new(Drawing),
			want:   ErrUnknownType,
		},
		{
			name:   "type not implementing the slot",
			doc:    `<Drawing xmlns="urn:geo" xmlns:i="` + instanceNS + `"><Main i:type="Drawing"/></Drawing>`,
			target: new(Drawing),
			want:   ErrUnknownType,
		},
		{
			name:   "mismatched type in value slot",
			doc:    `<Point xmlns="urn:geo" xmlns:i="` + instanceNS + `" xmlns:x="http://www.w3.org/2001/XMLSchema"><x i:type="x:string">1</x><y>2</y></Point>`,
			target: new(Point),
			want:   ErrUnknownType,
		},
		{
			name:   "unknown enum symbol",
			doc:    `<Colour xmlns="urn:paint">Purple</Colour>`,
			target: new(Color),
			want:   ErrEnumValue,
		},
		{
			name:   "array overflow",
			doc:    `<ArrayOflong xmlns="` + arrayNS + `"><long>1</long><long>2</long><long>3</long></ArrayOflong>`,
			target: new([2]int),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "wrong item name",
			doc:    `<ArrayOfstring xmlns="` + arrayNS + `"><int>1</int></ArrayOfstring>`,
			target: new([]string),
			want:   ErrUnexpectedElement,
		},
		{
			name: "extra dictionary part",
			doc: `<ArrayOfKeyValueOfstringlong xmlns="` + arrayNS + `"><KeyValueOfstringlong>` +
				`<Key>a</Key><Value>1</Value><Value>2</Value></KeyValueOfstringlong></ArrayOfKeyValueOfstringlong>`,
			target: new(map[string]int),
			want:   ErrUnexpectedElement,
		},
		{
			name:   "non-pointer target",
			doc:    `<Point xmlns="urn:geo"/>`,
			target: Point{},
			want:   ErrNotSerializable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Unmarshal([]byte(tc.doc), tc.target, WithRegistry(NewRegistry()))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUnmarshalErrorDetails(t *testing.T) {
	doc := "<Point xmlns=\"urn:geo\">\n  <x>abc</x>\n  <y>2</y>\n</Point>"
	var p Point
	err := Unmarshal([]byte(doc), &p)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *FormatError", err)
	}
	if fe.Line != 2 || fe.Element != "x" {
		t.Errorf("got line %d element %q", fe.Line, fe.Element)
	}

	for _, doc := range []string{
		`<Point xmlns="urn:geo"><x>1</y></Point>`,
		`<Point xmlns="urn:geo"><x>1</x>`,
	} {
		err = Unmarshal([]byte(doc), &p)
		var se *xml.SyntaxError
		if !errors.As(err, &se) || !errors.As(err, &fe) {
			t.Errorf("%s: got %v, want a *FormatError wrapping *xml.SyntaxError", doc, err)
		}
	}

	err = Unmarshal([]byte(`<Point xmlns="urn:geo"><x>1</x></Point>`), &p)
	var ce *ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want *ContractError", err)
	}
	if ce.Member != "y" || ce.Path != "Point" {
		t.Errorf("got member %q path %q", ce.Member, ce.Path)
	}
}

func TestUnmarshalNil(t *testing.T) {
	n := &refNode{Value: 1}
	if err := Unmarshal([]byte(`<Node xmlns="urn:list" xmlns:i="`+instanceNS+`" i:nil="true"/>`), &n); err != nil {
		t.Fatal(err)
	}
	if n != nil {
		t.Errorf("got %+v, want nil", n)
	}
}
