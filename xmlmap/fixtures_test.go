package xmlmap

import (
	"encoding/xml"
	"math"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/signadot/dcxml/contract"
	"github.com/signadot/dcxml/qname"
)

const (
	testNS  = "http://schemas.datacontract.org/2004/07/github.com/signadot/dcxml/xmlmap"
	iDecl   = `xmlns:i="http://www.w3.org/2001/XMLSchema-instance"`
	zDecl   = `xmlns:z="http://schemas.microsoft.com/2003/10/Serialization/"`
	arrayNS = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"
)

type Point struct {
	_ contract.Record `dc:"name=Point,namespace=urn:geo"`
	X int             `dc:"name=x,required"`
	Y int             `dc:"name=y,required"`
}

type Access int

const (
	AccessRead  Access = 1
	AccessWrite Access = 2
)

func (Access) EnumContract() contract.Enum {
	return contract.Enum{
		Flags: true,
		Members: []contract.EnumMember{
			{Name: "None", Value: 0},
			{Name: "Read", Value: int64(AccessRead)},
			{Name: "Write", Value: int64(AccessWrite)},
		},
	}
}

type Color uint8

const (
	Red Color = iota
	Green
	Blue
)

func (Color) EnumContract() contract.Enum {
	return contract.Enum{
		Name:      "Colour",
		Namespace: "urn:paint",
		Members: []contract.EnumMember{
			{Name: "Red", Value: int64(Red)},
			{Name: "Green", Value: int64(Green)},
			{Name: "Blue", Value: int64(Blue)},
		},
	}
}

// node has no contract, so it is written without reference preservation.
type node struct {
	Value int
	Next  *node
}

type refNode struct {
	_     contract.Record `dc:"name=Node,namespace=urn:list,ref"`
	Value int             `dc:"name=Value"`
	Next  *refNode        `dc:"name=Next"`
}

type holder struct {
	_     contract.Record `dc:"name=Holder,namespace=urn:list"`
	Items []*refNode      `dc:"name=Items"`
}

type Shape interface {
	Area() float64
}

type Circle struct {
	_ contract.Record `dc:"name=Circle,namespace=urn:geo"`
	R float64         `dc:"name=R"`
}

func (c Circle) Area() float64 { return math.Pi * c.R * c.R }

type Square struct {
	_    contract.Record `dc:"name=Square,namespace=urn:geo"`
	Side float64         `dc:"name=Side"`
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Drawing struct {
	_      contract.Record `dc:"name=Drawing,namespace=urn:geo"`
	Shapes []Shape         `dc:"name=Shapes"`
	Main   Shape           `dc:"name=Main"`
}

func (Drawing) KnownTypes() []any { return []any{Circle{}, (*Square)(nil)} }

type Entity struct {
	_  contract.Record `dc:"name=Entity,namespace=urn:base"`
	ID string          `dc:"name=ID,required"`
}

type Customer struct {
	_ contract.Record `dc:"name=Customer,namespace=urn:crm"`
	Entity
	Name  string `dc:"name=Name,order=1"`
	Email string `dc:"name=Email"`
}

type Order struct {
	_     contract.Record `dc:"name=Order,namespace=urn:shop"`
	Lines []Line          `dc:"name=Lines"`
}

type Line struct {
	_     contract.Record `dc:"name=Line,namespace=urn:shop"`
	Color Color           `dc:"name=Color"`
	Qty   int             `dc:"name=Qty"`
}

type Legacy struct {
	_      contract.Serializable
	Name   string
	Secret string `dc:"-"`
}

type Plain struct {
	A int
	B string
}

type Celsius float64

type Pair[K, V any] struct {
	Key   K
	Value V
}

type Tags []string

func (Tags) CollectionContract() contract.Collection {
	return contract.Collection{Name: "TagList", Namespace: "urn:tags", ItemName: "Tag"}
}

type Index map[string]*refNode

func (Index) CollectionContract() contract.Collection {
	return contract.Collection{
		Name:        "Index",
		Namespace:   "urn:list",
		ItemName:    "Entry",
		KeyName:     "Name",
		ValueName:   "Node",
		IsReference: true,
	}
}

// Stamp writes itself as an element with one attribute.
type Stamp struct {
	Label string
}

func (s Stamp) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "label"}, Value: s.Label})
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (s *Stamp) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "label" {
			s.Label = a.Value
		}
	}
	return d.Skip()
}

func (Stamp) XMLTypeName() qname.QName { return qname.New("Stamp", "urn:stamp") }

// BareStamp names itself without a namespace.
type BareStamp struct{ Stamp }

func (BareStamp) XMLTypeName() qname.QName { return qname.New("BareStamp", "") }

type Envelope struct {
	_     contract.Record `dc:"name=Envelope,namespace=urn:stamp"`
	Stamp Stamp           `dc:"name=Stamp"`
	Extra any             `dc:"name=Extra"`
	Note  string          `dc:"name=Note"`
}

type Everything struct {
	Flag     bool
	I8       int8
	I16      int16
	I32      int32
	I64      int64
	I        int
	U8       uint8
	U16      uint16
	U32      uint32
	U64      uint64
	U        uint
	F32      float32
	F64      float64
	S        string
	T        time.Time
	B        []byte
	URL      url.URL
	ID       uuid.UUID
	D        time.Duration
	Temp     Celsius
	Ptr      *int
	Anything any
	Names    []string
	Scores   map[string]int
	Grid     [2]int
	Access   Access
	Color    Color
	Tags     Tags
}
