package contract

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// TagKey is the struct tag key read by Describe.
const TagKey = "dc"

// ErrInvalidDeclaration is wrapped by every error returned from this package.
var ErrInvalidDeclaration = errors.New("invalid contract declaration")

// ParseStructTag parses a struct tag string and returns a map of key-value pairs.
// Handles comma-separated values: `dc:"key1=value1,key2=value2,flag"`
// Supports quoted values with spaces: `dc:"key='value with spaces'"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}

	var parts []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false

	for i := 0; i < len(tag); i++ {
		char := tag[i]
		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			current.WriteByte(char)
		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			current.WriteByte(char)
		case (char == ',' || char == ' ') && !inSingleQuote && !inDoubleQuote:
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("invalid tag %q: unterminated quote", tag)
	}
	if part := strings.TrimSpace(current.String()); part != "" {
		parts = append(parts, part)
	}

	for _, part := range parts {
		if idx := strings.Index(part, "="); idx >= 0 {
			key := strings.TrimSpace(part[:idx])
			value := strings.TrimSpace(part[idx+1:])
			if key == "" {
				return nil, fmt.Errorf("invalid tag: empty key in %q", part)
			}
			result[key] = unquoteValue(value)
		} else {
			result[part] = ""
		}
	}
	return result, nil
}

// unquoteValue removes surrounding single or double quotes from a value.
func unquoteValue(value string) string {
	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// IsRecord reports whether t is a struct carrying a Record marker field.
func IsRecord(t reflect.Type) bool {
	_, ok := markerField(t, recordType)
	return ok
}

// IsSerializable reports whether t is a struct carrying a Serializable marker.
func IsSerializable(t reflect.Type) bool {
	_, ok := markerField(t, serializableType)
	return ok
}

func markerField(t reflect.Type, marker reflect.Type) (reflect.StructField, bool) {
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == marker {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// Describe builds the Declaration of a struct type from its `dc` tags.
func Describe(t reflect.Type) (*Declaration, error) {
	if t.Kind() != reflect.Struct {
		return nil, declError(t, "expected struct type, got %s", t.Kind())
	}
	decl := &Declaration{}
	switch {
	case IsRecord(t):
		decl.Kind = RecordKind
		f, _ := markerField(t, recordType)
		opts, err := ParseStructTag(f.Tag.Get(TagKey))
		if err != nil {
			return nil, declError(t, "field %s: %v", f.Name, err)
		}
		decl.Name = opts["name"]
		decl.Namespace = opts["namespace"]
		if ns, ok := opts["ns"]; ok && decl.Namespace == "" {
			decl.Namespace = ns
		}
		_, decl.IsReference = opts["ref"]
		if err := describeRecordMembers(t, decl); err != nil {
			return nil, err
		}
	case IsSerializable(t):
		decl.Kind = SerializableKind
		if err := describeFields(t, nil, decl, false); err != nil {
			return nil, err
		}
	default:
		if err := describeFields(t, nil, decl, true); err != nil {
			return nil, err
		}
	}
	known, err := knownTypes(t)
	if err != nil {
		return nil, err
	}
	decl.KnownTypes = known
	if err := decl.Resolve(t); err != nil {
		return nil, err
	}
	return decl, nil
}

func describeRecordMembers(t reflect.Type, decl *Declaration) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == recordType || f.Type == serializableType {
			continue
		}
		tag, tagged := f.Tag.Lookup(TagKey)
		if f.Anonymous && !tagged {
			switch {
			case f.Type.Kind() == reflect.Pointer && IsRecord(f.Type.Elem()):
				return declError(t, "embedded base %s must be a struct value, not a pointer", f.Type.Elem())
			case IsRecord(f.Type):
				if decl.Base != nil {
					return declError(t, "embeds both %s and %s as base contracts", decl.Base, f.Type)
				}
				decl.Base = f.Type
				decl.BaseIndex = f.Index
			}
			continue
		}
		if !tagged || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return declError(t, "member field %s is not exported", f.Name)
		}
		m, err := parseMember(t, f, tag)
		if err != nil {
			return err
		}
		decl.Members = append(decl.Members, m)
	}
	return nil
}

// describeFields collects every exported field of t, flattening embedded
// structs. With renames set, `dc` tags may rename and order members.
func describeFields(t reflect.Type, prefix []int, decl *Declaration, renames bool) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == recordType || f.Type == serializableType {
			continue
		}
		tag, tagged := f.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}
		index := append(slices.Clone(prefix), f.Index...)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !tagged {
			if err := describeFields(f.Type, index, decl, renames); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		m := Member{Field: f.Name, Index: index, Name: f.Name, Type: f.Type}
		if renames && tagged {
			parsed, err := parseMember(t, f, tag)
			if err != nil {
				return err
			}
			m.Name = parsed.Name
			m.Order = parsed.Order
		}
		decl.Members = append(decl.Members, m)
	}
	return nil
}

func parseMember(t reflect.Type, f reflect.StructField, tag string) (Member, error) {
	opts, err := ParseStructTag(tag)
	if err != nil {
		return Member{}, declError(t, "field %s: %v", f.Name, err)
	}
	m := Member{
		Field: f.Name,
		Index: f.Index,
		Name:  f.Name,
		Type:  f.Type,
	}
	if name, ok := opts["name"]; ok && name != "" {
		m.Name = name
	}
	if order, ok := opts["order"]; ok {
		n, err := strconv.Atoi(order)
		if err != nil || n < 0 {
			return Member{}, declError(t, "field %s: order must be a non-negative integer, got %q", f.Name, order)
		}
		m.Order = n
	}
	_, m.Required = opts["required"]
	return m, nil
}

func knownTypes(t reflect.Type) ([]reflect.Type, error) {
	var provider KnownTypeProvider
	switch {
	case t.Implements(reflect.TypeFor[KnownTypeProvider]()):
		provider = reflect.New(t).Elem().Interface().(KnownTypeProvider)
	case reflect.PointerTo(t).Implements(reflect.TypeFor[KnownTypeProvider]()):
		provider = reflect.New(t).Interface().(KnownTypeProvider)
	default:
		return nil, nil
	}
	var res []reflect.Type
	for i, v := range provider.KnownTypes() {
		if v == nil {
			return nil, declError(t, "known type %d is an untyped nil", i)
		}
		kt := reflect.TypeOf(v)
		for kt.Kind() == reflect.Pointer {
			kt = kt.Elem()
		}
		res = append(res, kt)
	}
	return res, nil
}

// Resolve completes a declaration against its struct type: it fills field
// indexes and types from field names, defaults member names and rejects
// duplicate member names. Describe calls it; callers building declarations
// by hand should too.
func (d *Declaration) Resolve(t reflect.Type) error {
	if t.Kind() != reflect.Struct {
		return declError(t, "expected struct type, got %s", t.Kind())
	}
	seen := make(map[string]string, len(d.Members))
	for i := range d.Members {
		m := &d.Members[i]
		if m.Index == nil {
			f, ok := t.FieldByName(m.Field)
			if !ok {
				return declError(t, "no field %q", m.Field)
			}
			if !f.IsExported() {
				return declError(t, "member field %s is not exported", m.Field)
			}
			m.Index = f.Index
			m.Type = f.Type
		}
		if m.Type == nil {
			m.Type = t.FieldByIndex(m.Index).Type
		}
		if m.Name == "" {
			m.Name = m.Field
		}
		if m.Order < 0 {
			return declError(t, "member %s has negative order %d", m.Name, m.Order)
		}
		if prev, dup := seen[m.Name]; dup {
			return declError(t, "member name %q declared by both %s and %s", m.Name, prev, m.Field)
		}
		seen[m.Name] = m.Field
	}
	return nil
}

func declError(t reflect.Type, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDeclaration, t, fmt.Sprintf(format, args...))
}
