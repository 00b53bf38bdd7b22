package xmlmap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotSerializable is returned for Go types no map variant applies to.
	ErrNotSerializable = errors.New("type is not serializable")

	// ErrNameCollision is returned when two Go types resolve to one name.
	ErrNameCollision = errors.New("qualified name collision")

	// ErrRequiredMember is returned when a required member has no element.
	ErrRequiredMember = errors.New("required member missing")

	// ErrCircularReference is returned when a value without reference
	// preservation contains itself.
	ErrCircularReference = errors.New("circular reference")

	// ErrUnknownReference is returned for a reference to an unknown id.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrNilNotAllowed is returned for a nil marker in a slot that cannot
	// hold nil.
	ErrNilNotAllowed = errors.New("nil not allowed")

	// ErrUnknownType is returned when a type marker names no known type.
	ErrUnknownType = errors.New("unknown type")

	// ErrEnumValue is returned for enum values without a symbol.
	ErrEnumValue = errors.New("invalid enum value")

	// ErrMaxItemsExceeded is wrapped by LimitError.
	ErrMaxItemsExceeded = errors.New("maximum item count exceeded")

	// ErrUnexpectedElement is returned when the document structure does not
	// match the expected contract.
	ErrUnexpectedElement = errors.New("unexpected element")
)

// ContractError reports a Go type that cannot be mapped, or a value that
// violates its contract.
type ContractError struct {
	Type    reflect.Type
	Member  string // Member name, if the error concerns one member
	Path    string // Value path (e.g., "Order.Lines[2].Qty")
	Message string
	Err     error
}

func (e *ContractError) Error() string {
	msg := "contract error"
	if e.Type != nil {
		msg += fmt.Sprintf(" for %s", e.Type)
	}
	if e.Member != "" {
		msg += fmt.Sprintf(" member %q", e.Member)
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	switch {
	case e.Message != "":
		msg += ": " + e.Message
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// FormatError reports malformed or unexpected input while reading.
type FormatError struct {
	Line    int
	Column  int
	Element string // Local name of the element being read
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error at %d:%d", e.Line, e.Column)
	if e.Element != "" {
		msg += fmt.Sprintf(" in <%s>", e.Element)
	}
	switch {
	case e.Message != "":
		msg += ": " + e.Message
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// LimitError reports that a call exceeded its item ceiling.
type LimitError struct {
	Limit int
	Path  string
}

func (e *LimitError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("limit error at %s: more than %d items", e.Path, e.Limit)
	}
	return fmt.Sprintf("limit error: more than %d items", e.Limit)
}

func (e *LimitError) Unwrap() error {
	return ErrMaxItemsExceeded
}

func contractErrorf(t reflect.Type, err error, format string, args ...any) *ContractError {
	return &ContractError{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}
