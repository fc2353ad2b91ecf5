package domain

import (
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the value as an ordered YAML node tree.
func (v Value) MarshalYAML() (interface{}, error) {
	return yamlNode(v, map[*Map]bool{}), nil
}

func yamlNode(v Value, path map[*Map]bool) *yaml.Node {
	switch v.kind {
	case KindBool:
		return scalar("!!bool", strconv.FormatBool(v.b))
	case KindInt:
		return scalar("!!int", strconv.FormatInt(v.i, 10))
	case KindFloat:
		return scalar("!!float", yamlFloat(v.f))
	case KindString:
		return scalar("!!str", v.s)
	case KindMap:
		if v.m == nil {
			break
		}
		if path[v.m] {
			return scalar("!!str", Recursion)
		}
		path[v.m] = true
		defer delete(path, v.m)

		if v.m.IsList() {
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			v.m.Each(func(_ Key, item Value) bool {
				node.Content = append(node.Content, yamlNode(item, path))
				return true
			})
			return node
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.m.Each(func(k Key, item Value) bool {
			key := scalar("!!str", k.Str)
			if k.Kind == KeyInt {
				key = scalar("!!int", k.String())
			}
			node.Content = append(node.Content, key, yamlNode(item, path))
			return true
		})
		return node
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := formatFloat(f)
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		// keep the float tag visible on round-trip
		s += ".0"
	}
	return s
}
