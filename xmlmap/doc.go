// Package xmlmap converts Go object graphs to and from data contract XML.
//
// # Registry and maps
//
// A Registry classifies every Go type it sees into one serialization map
// and gives it a qualified name. Classification tries, in order: enum
// contracts, Go maps (dictionaries), collection contracts, record
// contracts, self-describing types (xml.Marshaler and xml.Unmarshaler),
// slices and arrays, and finally structs, which are read member-wise from
// their exported fields. Built-in types such as int, string, time.Time or
// uuid.UUID have no map; they are written as literals.
//
// Registering a type registers everything it refers to. Two distinct Go
// types may not share a qualified name in one registry.
//
// # Documents
//
// The Writer emits one element per value. Values in slots declared with
// another type, typically interfaces, carry an i:type marker naming their
// type; nil values carry i:nil. Values of reference contracts are written
// in full the first time with a z:Id label and as an empty element with a
// z:Ref marker afterwards, so shared and cyclic graphs round-trip:
//
//	<Node xmlns="http://schemas.datacontract.org/2004/07/example.com/list"
//	    xmlns:i="http://www.w3.org/2001/XMLSchema-instance"
//	    xmlns:z="http://schemas.microsoft.com/2003/10/Serialization/" z:Id="i1">
//	  <Next z:Ref="i1"/>
//	  <Value>1</Value>
//	</Node>
//
// A value that contains itself without reference preservation is an
// error.
//
// # Errors
//
// ContractError reports types and values that violate their contract,
// FormatError reports malformed input with its position and LimitError
// reports a document exceeding the item ceiling. All wrap one of the
// sentinel errors of this package for use with errors.Is.
package xmlmap
