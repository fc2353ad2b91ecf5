package domain

import (
	"math"

	"github.com/elliotchance/orderedmap/v3"
)

// Kind tags the variant held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the decoded form shared by PHP-serialized and JSON input.
// Numbers are split into KindInt and KindFloat so integer payloads survive
// without float rounding. Composite values hold a *Map, so two Values can
// share (and PHP back-references can point at) the same map.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	m     *Map
	class string
}

func Null() Value                   { return Value{kind: KindNull} }
func Bool(b bool) Value             { return Value{kind: KindBool, b: b} }
func Int(i int64) Value             { return Value{kind: KindInt, i: i} }
func Float(f float64) Value         { return Value{kind: KindFloat, f: f} }
func String(s string) Value         { return Value{kind: KindString, s: s} }
func MapValue(m *Map) Value         { return Value{kind: KindMap, m: m} }
func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsNull() bool        { return v.kind == KindNull }
func (v Value) BoolValue() bool     { return v.b }
func (v Value) IntValue() int64     { return v.i }
func (v Value) FloatValue() float64 { return v.f }
func (v Value) StringValue() string { return v.s }
func (v Value) Map() *Map           { return v.m }

// Object returns a map value tagged with the PHP class it was serialized from.
func Object(class string, m *Map) Value {
	return Value{kind: KindMap, m: m, class: class}
}

// Class is the PHP class name for values decoded from O: tokens, empty otherwise.
func (v Value) Class() string { return v.class }

// KeyKind tags a map key as integer or string.
type KeyKind uint8

const (
	KeyInt KeyKind = iota
	KeyString
)

// Key is a map key. PHP arrays mix integer and string keys; JSON objects only
// use string keys and JSON arrays use their integer positions.
type Key struct {
	Kind KeyKind
	Int  int64
	Str  string
}

func IntKey(i int64) Key     { return Key{Kind: KeyInt, Int: i} }
func StringKey(s string) Key { return Key{Kind: KeyString, Str: s} }

// Map is an insertion-ordered map of Key to Value.
type Map struct {
	entries *orderedmap.OrderedMap[Key, Value]
	list    bool
}

func NewMap() *Map {
	return &Map{entries: orderedmap.NewOrderedMap[Key, Value]()}
}

// NewList returns a map that renders as an array even when empty.
func NewList() *Map {
	m := NewMap()
	m.list = true
	return m
}

// Set inserts or replaces the value under k. A replaced key keeps its
// original position.
func (m *Map) Set(k Key, v Value) {
	m.entries.Set(k, v)
}

func (m *Map) Get(k Key) (Value, bool) {
	return m.entries.Get(k)
}

func (m *Map) Len() int {
	return m.entries.Len()
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map) Each(fn func(k Key, v Value) bool) {
	for el := m.entries.Front(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Key {
	keys := make([]Key, 0, m.Len())
	m.Each(func(k Key, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// IsList reports whether the keys are exactly the integers 0..n-1 in order.
func (m *Map) IsList() bool {
	if m.Len() == 0 {
		return m.list
	}
	var next int64
	sequential := true
	m.Each(func(k Key, _ Value) bool {
		if k.Kind != KeyInt || k.Int != next {
			sequential = false
			return false
		}
		next++
		return true
	})
	return sequential
}

// Equal reports structural equality. Cycles are handled by assuming two
// maps already being compared on the current path are equal.
func Equal(a, b Value) bool {
	return equal(a, b, map[[2]*Map]bool{})
}

func equal(a, b Value, seen map[[2]*Map]bool) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindMap:
		if a.class != b.class {
			return false
		}
		if a.m == b.m {
			return true
		}
		if a.m == nil || b.m == nil || a.m.Len() != b.m.Len() {
			return false
		}
		pair := [2]*Map{a.m, b.m}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		ak, bk := a.m.Keys(), b.m.Keys()
		for i := range ak {
			if ak[i] != bk[i] {
				return false
			}
			av, _ := a.m.Get(ak[i])
			bv, _ := b.m.Get(bk[i])
			if !equal(av, bv, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
