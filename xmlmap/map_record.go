package xmlmap

import (
	"cmp"
	"encoding/xml"
	"reflect"
	"slices"
	"strings"

	"github.com/signadot/dcxml/contract"
)

// recordMap serves record contracts and the member-wise default maps of
// serializable and unmarked structs.
type recordMap struct {
	mapBase
	kind        MapKind
	decl        *contract.Declaration
	members     []*MemberInfo
	initialized bool
}

func (m *recordMap) Kind() MapKind          { return m.kind }
func (m *recordMap) Members() []*MemberInfo { return m.members }

func (m *recordMap) init(tx *registration) error {
	var members []*MemberInfo
	if m.decl.Base != nil {
		bm, err := tx.register(m.decl.Base)
		if err != nil {
			return err
		}
		base, ok := bm.(*recordMap)
		if !ok || base.kind != RecordMap {
			return contractErrorf(m.typ, ErrNotSerializable, "base %s is not a record contract", m.decl.Base)
		}
		if !base.initialized {
			return contractErrorf(m.typ, ErrNotSerializable, "base %s refers back to %s", m.decl.Base, m.typ)
		}
		for _, bmi := range base.members {
			mi := *bmi
			mi.Index = append(slices.Clone(m.decl.BaseIndex), bmi.Index...)
			members = append(members, &mi)
		}
	}

	own := make([]*MemberInfo, 0, len(m.decl.Members))
	for _, dm := range m.decl.Members {
		own = append(own, &MemberInfo{
			Field:         dm.Field,
			Index:         dm.Index,
			Name:          dm.Name,
			Namespace:     m.name.Namespace,
			Order:         dm.Order,
			Required:      dm.Required,
			Type:          dm.Type,
			DeclaringType: m.typ,
		})
	}
	slices.SortStableFunc(own, func(a, b *MemberInfo) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	m.members = append(members, own...)
	m.initialized = true

	for _, kt := range m.decl.KnownTypes {
		if _, err := tx.register(kt); err != nil {
			return &ContractError{Type: m.typ, Message: "known type " + kt.String() + ": " + err.Error(), Err: err}
		}
	}
	for _, mi := range own {
		if _, err := tx.register(mi.Type); err != nil {
			return &ContractError{Type: m.typ, Member: mi.Name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func (m *recordMap) writeContent(w *Writer, v reflect.Value) error {
	for _, mi := range m.members {
		w.pushPath(mi.Field)
		err := w.writeValue(mi.Name, mi.Namespace, mi.Type, v.FieldByIndex(mi.Index))
		w.popPath()
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *recordMap) readContent(r *Reader, v reflect.Value) error {
	filled := make([]bool, len(m.members))
	for {
		child, ok, err := r.cur.nextChild(m.name.Local)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		i, dup := m.match(child.Name, filled)
		if dup {
			return r.cur.errorf(child.Name.Local, ErrUnexpectedElement, "duplicate element for member %s", child.Name.Local)
		}
		if i < 0 {
			r.trace("skipping unknown element", "element", child.Name.Local, "contract", m.name.String())
			if err := r.cur.skip(); err != nil {
				return err
			}
			continue
		}
		mi := m.members[i]
		filled[i] = true
		r.pushPath(mi.Field)
		err = r.readValue(child, v.FieldByIndex(mi.Index))
		r.popPath()
		if err != nil {
			return err
		}
	}
	for i, mi := range m.members {
		if mi.Required && !filled[i] {
			return &ContractError{
				Type:    m.typ,
				Member:  mi.Name,
				Path:    r.pathString(),
				Message: "no element for required member",
				Err:     ErrRequiredMember,
			}
		}
	}
	return nil
}

// match finds the member an element is for: the first unfilled member with
// the element's name and namespace, else the first unfilled member with its
// local name. dup reports an element for an already filled member.
func (m *recordMap) match(name xml.Name, filled []bool) (i int, dup bool) {
	for i, mi := range m.members {
		if !filled[i] && mi.Name == name.Local && mi.Namespace == name.Space {
			return i, false
		}
	}
	for i, mi := range m.members {
		if !filled[i] && mi.Name == name.Local {
			return i, false
		}
	}
	for _, mi := range m.members {
		if mi.Name == name.Local {
			return -1, true
		}
	}
	return -1, false
}
