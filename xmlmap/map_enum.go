package xmlmap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/dcxml/contract"
)

// enumMap writes named integer types as symbolic tokens. Flags enums are
// written as the space separated tokens of their set members.
type enumMap struct {
	mapBase
	flags   bool
	members []contract.EnumMember
}

func newEnumMap(base mapBase, decl *contract.Enum) (*enumMap, error) {
	m := &enumMap{mapBase: base, flags: decl.Flags, members: decl.Members}
	seen := make(map[string]bool, len(m.members))
	for _, em := range m.members {
		switch {
		case em.Name == "":
			return nil, contractErrorf(base.typ, ErrEnumValue, "member with value %d has no name", em.Value)
		case strings.ContainsAny(em.Name, " \t\r\n"):
			return nil, contractErrorf(base.typ, ErrEnumValue, "member name %q contains whitespace", em.Name)
		case seen[em.Name]:
			return nil, contractErrorf(base.typ, ErrEnumValue, "member name %q declared twice", em.Name)
		}
		seen[em.Name] = true
	}
	return m, nil
}

func (m *enumMap) Kind() MapKind {
	if m.flags {
		return FlagsEnumMap
	}
	return EnumMap
}

func (m *enumMap) writeContent(w *Writer, v reflect.Value) error {
	s, err := m.format(intValue(v))
	if err != nil {
		return &ContractError{Type: m.typ, Path: w.pathString(), Message: err.Error(), Err: ErrEnumValue}
	}
	w.out.text(s)
	return nil
}

func (m *enumMap) readContent(r *Reader, v reflect.Value) error {
	text, err := r.cur.readText(m.name.Local)
	if err != nil {
		return err
	}
	val, err := m.parse(text)
	if err != nil {
		return r.cur.errorf(m.name.Local, ErrEnumValue, "%v", err)
	}
	if err := setInt(v, val); err != nil {
		return r.cur.errorf(m.name.Local, ErrEnumValue, "%v", err)
	}
	return nil
}

func (m *enumMap) format(val int64) (string, error) {
	if !m.flags {
		for _, em := range m.members {
			if em.Value == val {
				return em.Name, nil
			}
		}
		return "", fmt.Errorf("value %d has no symbol", val)
	}
	if val == 0 {
		for _, em := range m.members {
			if em.Value == 0 {
				return em.Name, nil
			}
		}
		return "", nil
	}
	var names []string
	rest := val
	for _, em := range m.members {
		if em.Value != 0 && val&em.Value == em.Value && rest&em.Value != 0 {
			names = append(names, em.Name)
			rest &^= em.Value
		}
	}
	if rest != 0 {
		return "", fmt.Errorf("bits %#x of value %d have no symbol", rest, val)
	}
	return strings.Join(names, " "), nil
}

func (m *enumMap) parse(text string) (int64, error) {
	if !m.flags {
		tok := strings.TrimSpace(text)
		if em, ok := m.lookup(tok); ok {
			return em.Value, nil
		}
		return 0, fmt.Errorf("unknown symbol %q", tok)
	}
	var val int64
	for _, tok := range strings.Fields(text) {
		em, ok := m.lookup(tok)
		if !ok {
			return 0, fmt.Errorf("unknown symbol %q", tok)
		}
		val |= em.Value
	}
	return val, nil
}

func (m *enumMap) lookup(name string) (contract.EnumMember, bool) {
	for _, em := range m.members {
		if em.Name == name {
			return em, true
		}
	}
	return contract.EnumMember{}, false
}

func intValue(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	}
	return v.Int()
}

func setInt(v reflect.Value, val int64) error {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if val < 0 || v.OverflowUint(uint64(val)) {
			return fmt.Errorf("value %d overflows %s", val, v.Type())
		}
		v.SetUint(uint64(val))
		return nil
	}
	if v.OverflowInt(val) {
		return fmt.Errorf("value %d overflows %s", val, v.Type())
	}
	v.SetInt(val)
	return nil
}
