package query

import (
	"fmt"

	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes the dynamic query form
//
//	{"must": {"text": ["a", "b"]}, "should": {"query": {...}, "title": "x"}}
//
// A string is a literal term, an object is a nested group and an array may
// mix both. Object key order is kept.
func ParseJSON(data []byte) (*Node, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, failure.Translate(
			err,
			errors.ErrInvalidArgument,
			failure.Field(failure.Message("failed to parse query json")),
		)
	}
	return nodeFromJSON(v, "$")
}

func nodeFromJSON(v *fastjson.Value, path string) (*Node, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, invalid(path, "query must be an object")
	}

	var opts []Option
	var visitErr error
	obj.Visit(func(key []byte, opVal *fastjson.Value) {
		if visitErr != nil {
			return
		}
		opPath := path + "." + string(key)
		op, ok := ParseOperator(string(key))
		if !ok {
			visitErr = invalid(opPath, "unknown operator")
			return
		}
		if opVal.Type() == fastjson.TypeNull {
			return
		}
		fields, err := opVal.Object()
		if err != nil {
			visitErr = invalid(opPath, "operator must map field names to values")
			return
		}
		fields.Visit(func(fieldKey []byte, fieldVal *fastjson.Value) {
			if visitErr != nil {
				return
			}
			name := string(fieldKey)
			values, err := valuesFromJSON(fieldVal, opPath+"."+name)
			if err != nil {
				visitErr = err
				return
			}
			opts = append(opts, withField(op, name, values))
		})
	})
	if visitErr != nil {
		return nil, visitErr
	}
	return New(opts...), nil
}

func valuesFromJSON(v *fastjson.Value, path string) ([]Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeArray:
		items, _ := v.Array()
		values := make([]Value, 0, len(items))
		for i, item := range items {
			if item.Type() == fastjson.TypeArray {
				return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "nested arrays are not allowed")
			}
			value, err := valueFromJSON(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			values = append(values, value...)
		}
		return values, nil
	default:
		return valueFromJSON(v, path)
	}
}

func valueFromJSON(v *fastjson.Value, path string) ([]Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return []Value{Term(string(b))}, nil
	case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse:
		return []Value{Term(v.String())}, nil
	case fastjson.TypeObject:
		n, err := nodeFromJSON(v, path)
		if err != nil {
			return nil, err
		}
		return []Value{Group(n)}, nil
	}
	return nil, invalid(path, "unsupported value type")
}

// ParseYAML decodes a single query written in the same shape as ParseJSON.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, failure.Translate(
			err,
			errors.ErrInvalidArgument,
			failure.Field(failure.Message("failed to parse query yaml")),
		)
	}
	root := unwrapDocument(&doc)
	if root == nil {
		return New(), nil
	}
	return nodeFromYAML(root, "$")
}

// ParseSavedYAML decodes a name -> query mapping.
func ParseSavedYAML(data []byte) (map[string]*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, failure.Translate(
			err,
			errors.ErrInvalidArgument,
			failure.Field(failure.Message("failed to parse saved queries")),
		)
	}
	saved := map[string]*Node{}
	root := unwrapDocument(&doc)
	if root == nil {
		return saved, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalid("$", "saved queries must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		n, err := nodeFromYAML(resolveAlias(root.Content[i+1]), "$."+name)
		if err != nil {
			return nil, err
		}
		saved[name] = n
	}
	return saved, nil
}

func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return resolveAlias(n.Content[0])
	}
	return resolveAlias(n)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

type yamlPair struct {
	key   string
	value *yaml.Node
}

// mappingPairs lists the key/value pairs of a mapping with `<<` merge keys
// expanded. Merged pairs come first and are replaced by explicit keys of the
// same name.
func mappingPairs(n *yaml.Node, path string) ([]yamlPair, error) {
	var merged, explicit []yamlPair
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolveAlias(n.Content[i+1])
		if key.ShortTag() != "!!merge" {
			explicit = append(explicit, yamlPair{key: key.Value, value: value})
			continue
		}

		sources := []*yaml.Node{value}
		if value.Kind == yaml.SequenceNode {
			sources = sources[:0]
			for _, s := range value.Content {
				sources = append(sources, resolveAlias(s))
			}
		}
		for _, source := range sources {
			if source.Kind != yaml.MappingNode {
				return nil, invalid(path+".<<", "merge value must be a mapping")
			}
			pairs, err := mappingPairs(source, path)
			if err != nil {
				return nil, err
			}
			merged = append(merged, pairs...)
		}
	}

	seen := make(map[string]bool, len(explicit))
	for _, pair := range explicit {
		seen[pair.key] = true
	}
	pairs := make([]yamlPair, 0, len(merged)+len(explicit))
	for _, pair := range merged {
		if !seen[pair.key] {
			seen[pair.key] = true
			pairs = append(pairs, pair)
		}
	}
	return append(pairs, explicit...), nil
}

func isYAMLNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func nodeFromYAML(n *yaml.Node, path string) (*Node, error) {
	if isYAMLNull(n) {
		return New(), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, invalid(path, "query must be a mapping")
	}

	pairs, err := mappingPairs(n, path)
	if err != nil {
		return nil, err
	}

	var opts []Option
	for _, pair := range pairs {
		opPath := path + "." + pair.key
		op, ok := ParseOperator(pair.key)
		if !ok {
			return nil, invalid(opPath, "unknown operator")
		}
		fields := pair.value
		if isYAMLNull(fields) {
			continue
		}
		if fields.Kind != yaml.MappingNode {
			return nil, invalid(opPath, "operator must map field names to values")
		}
		fieldPairs, err := mappingPairs(fields, opPath)
		if err != nil {
			return nil, err
		}
		for _, field := range fieldPairs {
			name := field.key
			values, err := valuesFromYAML(field.value, opPath+"."+name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, withField(op, name, values))
		}
	}
	return New(opts...), nil
}

func valuesFromYAML(n *yaml.Node, path string) ([]Value, error) {
	if n.Kind != yaml.SequenceNode {
		return valueFromYAML(n, path)
	}
	values := make([]Value, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind == yaml.SequenceNode {
			return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "nested sequences are not allowed")
		}
		value, err := valueFromYAML(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		values = append(values, value...)
	}
	return values, nil
}

func valueFromYAML(n *yaml.Node, path string) ([]Value, error) {
	switch {
	case isYAMLNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		return []Value{Term(n.Value)}, nil
	case n.Kind == yaml.MappingNode:
		group, err := nodeFromYAML(n, path)
		if err != nil {
			return nil, err
		}
		return []Value{Group(group)}, nil
	}
	return nil, invalid(path, "unsupported value type")
}

func invalid(path, msg string) error {
	return failure.New(
		errors.ErrInvalidArgument,
		failure.Field(failure.Message(msg)),
		failure.Context{
			"path": path,
		},
	)
}
