// Package qname provides the qualified names used to identify contract types
// on the wire, together with the fixed table of built-in primitive types.
//
// A QName is a plain comparable value and is used directly as a map key by
// the known-type registry.
package qname

import (
	"cmp"
	"strings"
)

const (
	// XSDNamespace is the namespace of the XML Schema built-in types.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"

	// InstanceNamespace carries the nil and type marker attributes.
	InstanceNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	// SerializationNamespace carries the identity and reference marker
	// attributes and the built-ins XML Schema has no type for.
	SerializationNamespace = "http://schemas.microsoft.com/2003/10/Serialization/"

	// ArraysNamespace holds synthesized collection and dictionary names whose
	// items are built-in types.
	ArraysNamespace = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"

	// ContractNamespacePrefix is prepended to a Go package path to derive the
	// default namespace of the types it declares.
	ContractNamespacePrefix = "http://schemas.datacontract.org/2004/07/"
)

// QName represents a qualified name with namespace and local part.
type QName struct {
	Namespace string
	Local     string
}

// New returns the QName with the given local name and namespace.
func New(local, namespace string) QName {
	return QName{Namespace: namespace, Local: local}
}

// String returns the QName in {namespace}local format, or just local if no namespace.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// IsZero reports whether q is the empty QName.
func (q QName) IsZero() bool {
	return q.Namespace == "" && q.Local == ""
}

// Compare orders QNames by namespace, then local name.
func Compare(a, b QName) int {
	if c := strings.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	return cmp.Compare(a.Local, b.Local)
}

// DefaultNamespace derives the contract namespace for a Go package path.
func DefaultNamespace(pkgPath string) string {
	return ContractNamespacePrefix + pkgPath
}
