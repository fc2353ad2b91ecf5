package domain

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMarshalYAML(t *testing.T) {
	inner := NewMap()
	inner.Set(IntKey(0), String("x"))
	inner.Set(IntKey(1), Null())

	m := NewMap()
	m.Set(StringKey("zeta"), Int(1))
	m.Set(StringKey("alpha"), Float(2))
	m.Set(IntKey(7), Bool(true))
	m.Set(StringKey("list"), MapValue(inner))
	m.Set(StringKey("inf"), Float(math.Inf(-1)))

	out, err := yaml.Marshal(MapValue(m))
	if err != nil {
		t.Fatal(err)
	}
	want := `zeta: 1
alpha: 2.0
7: true
list:
    - x
    - null
inf: -.inf
`
	if string(out) != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestMarshalYAMLRecursion(t *testing.T) {
	m := NewMap()
	v := MapValue(m)
	m.Set(StringKey("self"), v)

	out, err := yaml.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "self: '*RECURSION*'\n" {
		t.Errorf("got %q", out)
	}
}
