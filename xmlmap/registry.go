package xmlmap

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/dcxml/contract"
	"github.com/signadot/dcxml/debug"
	"github.com/signadot/dcxml/qname"
)

// Registry maps Go types to serialization maps and qualified names to Go
// types. It is safe for concurrent use; registration of a type and
// everything it refers to happens under one write lock.
type Registry struct {
	mu         sync.RWMutex
	byName     map[qname.QName]Map
	byType     map[reflect.Type]Map
	namespaces map[string]string
	decls      map[reflect.Type]*contract.Declaration
	log        *slog.Logger
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process wide registry used when no registry
// option is given.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byName:     make(map[qname.QName]Map),
		byType:     make(map[reflect.Type]Map),
		namespaces: make(map[string]string),
		decls:      make(map[reflect.Type]*contract.Declaration),
	}
	for _, opt := range opts {
		opt.applyRegistry(r)
	}
	if r.log == nil {
		r.log = debug.Logger()
	}
	return r
}

// Register returns the map of t, creating it and the maps of every type it
// refers to on first use. Pointer types register their element type.
// Built-in types and interfaces have no map: Register returns nil, nil.
//
// A failed Register leaves the registry unchanged.
func (r *Registry) Register(t reflect.Type) (Map, error) {
	if t == nil {
		return nil, &ContractError{Message: "nil type", Err: ErrNotSerializable}
	}
	t = indirect(t)
	r.mu.RLock()
	m, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &registration{reg: r}
	m, err := tx.register(t)
	if err != nil {
		tx.rollback()
		return nil, err
	}
	if debug.Register() {
		for _, added := range tx.added {
			r.log.Debug("registered type",
				"type", added.Type().String(),
				"qname", added.QName().String(),
				"kind", added.Kind().String())
		}
	}
	return m, nil
}

// RegisterAll registers the dynamic type of each value.
func (r *Registry) RegisterAll(values ...any) error {
	for i, v := range values {
		if v == nil {
			return &ContractError{Message: fmt.Sprintf("value %d is an untyped nil", i), Err: ErrNotSerializable}
		}
		if _, err := r.Register(reflect.TypeOf(v)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the map registered under q.
func (r *Registry) Lookup(q qname.QName) (Map, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[q]
	return m, ok
}

// LookupType returns the map of t if it is registered.
func (r *Registry) LookupType(t reflect.Type) (Map, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byType[indirect(t)]
	return m, ok
}

// Len returns the number of registered Go types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// Maps returns every registered map sorted by qualified name, then Go type.
func (r *Registry) Maps() []Map {
	r.mu.RLock()
	res := make([]Map, 0, len(r.byType))
	for _, m := range r.byType {
		res = append(res, m)
	}
	r.mu.RUnlock()
	slices.SortFunc(res, func(a, b Map) int {
		if c := qname.Compare(a.QName(), b.QName()); c != 0 {
			return c
		}
		return strings.Compare(a.Type().String(), b.Type().String())
	})
	return res
}

// ResolveQualifiedName returns the name t has on the wire without
// registering it. The empty interface resolves to anyType; other
// interfaces, and types no contract applies to, are errors.
func (r *Registry) ResolveQualifiedName(t reflect.Type) (qname.QName, error) {
	if t == nil {
		return qname.QName{}, &ContractError{Message: "nil type", Err: ErrNotSerializable}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.qualifiedName(t, map[reflect.Type]bool{})
}

// registration tracks the maps inserted by one top-level Register call so
// that they can be removed again when it fails.
type registration struct {
	reg   *Registry
	added []Map
}

func (tx *registration) register(t reflect.Type) (Map, error) {
	r := tx.reg
	t = indirect(t)
	if m, ok := r.byType[t]; ok {
		return m, nil
	}
	if t.Kind() == reflect.Interface {
		return nil, nil
	}
	if _, ok := builtinName(t); ok {
		return nil, nil
	}
	s, err := r.classify(t)
	if err != nil {
		return nil, err
	}
	q, err := r.nameOf(t, s, map[reflect.Type]bool{t: true})
	if err != nil {
		return nil, err
	}
	m, err := newMap(r, t, q, s)
	if err != nil {
		return nil, err
	}
	if err := tx.insert(m); err != nil {
		return nil, err
	}
	if err := m.init(tx); err != nil {
		return nil, err
	}
	return m, nil
}

// insert adds m to both indexes after checking that its name is free.
// Distinct types never share a name, synthesized names included.
func (tx *registration) insert(m Map) error {
	r := tx.reg
	q := m.QName()
	if qname.IsBuiltin(q) {
		return contractErrorf(m.Type(), ErrNameCollision, "name %s is a built-in type name", q)
	}
	if other, taken := r.byName[q]; taken {
		return contractErrorf(m.Type(), ErrNameCollision, "name %s is already used by %s", q, other.Type())
	}
	r.byName[q] = m
	r.byType[m.Type()] = m
	tx.added = append(tx.added, m)
	return nil
}

func (tx *registration) rollback() {
	r := tx.reg
	for _, m := range tx.added {
		delete(r.byType, m.Type())
		if r.byName[m.QName()] == m {
			delete(r.byName, m.QName())
		}
	}
	tx.added = nil
}

func newMap(r *Registry, t reflect.Type, q qname.QName, s shape) (Map, error) {
	base := mapBase{typ: t, name: q, allowed: true}
	switch s.kind {
	case EnumMap, FlagsEnumMap:
		return newEnumMap(base, s.enum)
	case DictionaryMap:
		return newDictionaryMap(r, base, s.coll)
	case CollectionMap:
		return newCollectionMap(r, base, s.coll)
	case SelfDescribingMap:
		return &selfDescribingMap{mapBase: base}, nil
	case RecordMap:
		base.isRef = s.decl.IsReference
		return &recordMap{mapBase: base, kind: RecordMap, decl: s.decl}, nil
	}
	base.allowed = s.decl.Kind == contract.SerializableKind
	return &recordMap{mapBase: base, kind: DefaultMap, decl: s.decl}, nil
}
