package decoder

import (
	"errors"
	"math"
	"testing"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

func TestUnserializePHPScalars(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Value
	}{
		{`N;`, domain.Null()},
		{`b:0;`, domain.Bool(false)},
		{`b:1;`, domain.Bool(true)},
		{`i:-42;`, domain.Int(-42)},
		{`i:9223372036854775807;`, domain.Int(math.MaxInt64)},
		{`d:0.5;`, domain.Float(0.5)},
		{`d:1.5E+25;`, domain.Float(1.5e25)},
		{`d:-INF;`, domain.Float(math.Inf(-1))},
		{`d:NAN;`, domain.Float(math.NaN())},
		{`d:1e400;`, domain.Float(math.Inf(1))},
		{`d:-1e400;`, domain.Float(math.Inf(-1))},
		{`d:.5;`, domain.Float(0.5)},
		{`d:3.;`, domain.Float(3)},
		{`d:+2e-3;`, domain.Float(0.002)},
		{`s:0:"";`, domain.String("")},
		{`s:12:"hello "world";`, domain.String(`hello "world`)},
		{`s:6:"héllo";`, domain.String("héllo")},
		{`s:4:"😀";`, domain.String("😀")},
		{`E:11:"Suit:Hearts";`, domain.String("Suit:Hearts")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := UnserializePHP(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !domain.Equal(got, tt.want) {
				t.Errorf("got %s want %s", Format(got), Format(tt.want))
			}
		})
	}
}

func TestUnserializePHPNested(t *testing.T) {
	input := `a:3:{i:0;s:3:"one";s:4:"list";a:2:{i:0;b:1;i:1;N;}i:7;d:2.5;}`
	got, err := UnserializePHP(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{
  "0": "one",
  "list": [
    true,
    null
  ],
  "7": 2.5
}`
	if s := Format(got); s != want {
		t.Errorf("got:\n%s\nwant:\n%s", s, want)
	}
}

func TestUnserializePHPObject(t *testing.T) {
	input := "O:4:\"User\":3:{s:4:\"name\";s:3:\"ann\";s:6:\"\x00*\x00age\";i:30;s:10:\"\x00User\x00pass\";s:1:\"x\";}"
	got, err := UnserializePHP(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Class() != "User" {
		t.Errorf("class: got %q", got.Class())
	}
	keys := got.Map().Keys()
	names := []string{"name", "age", "pass"}
	if len(keys) != len(names) {
		t.Fatalf("keys: got %v", keys)
	}
	for i, name := range names {
		if keys[i].Str != name {
			t.Errorf("key %d: got %q want %q", i, keys[i].Str, name)
		}
	}
}

func TestUnserializePHPReferences(t *testing.T) {
	// slot 1 is the outer array, slot 2 the inner one
	input := `a:2:{s:1:"a";a:1:{i:0;i:1;}s:1:"b";r:2;}`
	got, err := UnserializePHP(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := got.Map().Get(domain.StringKey("a"))
	b, _ := got.Map().Get(domain.StringKey("b"))
	if a.Map() == nil || a.Map() != b.Map() {
		t.Error("back-reference should share the referenced map")
	}

	scalar, err := UnserializePHP(`a:2:{i:0;s:2:"hi";i:1;R:2;}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := scalar.Map().Get(domain.IntKey(1))
	if second.StringValue() != "hi" {
		t.Errorf("R: reference: got %s", Format(second))
	}
}

func TestUnserializePHPSelfReference(t *testing.T) {
	input := `O:8:"stdClass":1:{s:4:"self";r:1;}`
	got, err := UnserializePHP(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	self, _ := got.Map().Get(domain.StringKey("self"))
	if self.Map() != got.Map() {
		t.Fatal("self reference should point at the enclosing object")
	}
	want := "{\n  \"self\": \"*RECURSION*\"\n}"
	if s := Format(got); s != want {
		t.Errorf("got %q want %q", s, want)
	}
	if !domain.Equal(got, got) {
		t.Error("cyclic value should equal itself")
	}
}

func TestUnserializePHPNumericStringKeys(t *testing.T) {
	got, err := UnserializePHP(`a:4:{i:0;s:1:"a";s:1:"0";s:1:"b";s:2:"-3";i:1;s:2:"07";i:2;}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := got.Map()
	want := []domain.Key{domain.IntKey(0), domain.IntKey(-3), domain.StringKey("07")}
	keys := m.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys: got %v want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: got %v want %v", i, keys[i], want[i])
		}
	}
	if v, _ := m.Get(domain.IntKey(0)); !domain.Equal(v, domain.String("b")) {
		t.Errorf("later duplicate should win, got %s", Format(v))
	}

	obj, err := UnserializePHP(`O:3:"Foo":1:{s:1:"5";i:1;}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := obj.Map().Get(domain.StringKey("5")); !ok {
		t.Error("object property names stay strings")
	}
}

func TestUnserializePHPErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{name: "count mismatch", input: `a:2:{i:0;s:1:"x";}`, offset: 17},
		{name: "extra pairs", input: `a:0:{i:0;i:1;}`, offset: 5},
		{name: "short string", input: `s:10:"abc";`, offset: 6},
		{name: "long string", input: `s:1:"abc";`, offset: 6},
		{name: "bad integer", input: `i:abc;`, offset: 2},
		{name: "bad bool", input: `b:2;`, offset: 2},
		{name: "bad double", input: `d:x;`, offset: 2},
		{name: "hex double", input: `d:0x1p3;`, offset: 2},
		{name: "underscore double", input: `d:1_000;`, offset: 2},
		{name: "long-form infinity", input: `d:Infinity;`, offset: 2},
		{name: "lowercase nan", input: `d:nan;`, offset: 2},
		{name: "missing terminator", input: `i:5`, offset: 3},
		{name: "unknown tag", input: `x:1;`, offset: 0},
		{name: "bad key", input: `a:1:{d:1.0;i:1;}`, offset: 5},
		{name: "custom object", input: `C:3:"Foo":0:{}`, offset: 0},
		{name: "dangling reference", input: `a:1:{i:0;r:5;}`, offset: 11},
		{name: "reference to self", input: `r:1;`, offset: 2},
		{name: "trailing data", input: `i:1;i:2;`, offset: 4},
		{name: "truncated", input: `a:1:{i:0;`, offset: 9},
		{name: "enum without case", input: `E:4:"Suit";`, offset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnserializePHP(tt.input)
			var parseErr *FormatParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected FormatParseError, got %v", err)
			}
			if parseErr.Format != FormatPHP {
				t.Errorf("format: got %q", parseErr.Format)
			}
			if parseErr.Offset != tt.offset {
				t.Errorf("offset: got %d want %d (%v)", parseErr.Offset, tt.offset, err)
			}
		})
	}
}
