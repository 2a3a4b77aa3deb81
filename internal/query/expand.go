package query

import "encoding/json"

// Expansion is the flattened form of a Node: operator -> ordered clauses.
// Operators without clauses are absent.
type Expansion map[Operator][]Clause

// Clause is a single field/term pair, or a nested group when Group is non-nil.
type Clause struct {
	Field string
	Term  string
	Group Expansion
}

func (c Clause) IsGroup() bool {
	return c.Group != nil
}

// MarshalJSON renders {field: term} for literals and the nested expansion
// as-is for groups, so a group never shares a key space with its siblings.
func (c Clause) MarshalJSON() ([]byte, error) {
	if c.Group != nil {
		return json.Marshal(c.Group)
	}
	return json.Marshal(map[string]string{c.Field: c.Term})
}

// Envelope is the request wrapper the search backend expects.
type Envelope struct {
	Query Expansion `json:"query"`
}

func (e Expansion) Envelope() Envelope {
	return Envelope{Query: e}
}

// Expand flattens the node. Within one operator literal clauses come first,
// in field and term order, followed by nested groups in field order. The field
// name of a nested group is not emitted.
func (n *Node) Expand() Expansion {
	out := Expansion{}
	if n == nil {
		return out
	}
	for _, op := range Operators {
		if clauses := expandFields(n.slots[op]); len(clauses) > 0 {
			out[op] = clauses
		}
	}
	return out
}

func expandFields(fields []Field) []Clause {
	var clauses []Clause
	var groups []Clause
	for _, f := range fields {
		for _, v := range f.Values {
			if v.IsGroup() {
				groups = append(groups, Clause{Group: v.group.Expand()})
				continue
			}
			clauses = append(clauses, Clause{Field: f.Name, Term: v.term})
		}
	}
	return append(clauses, groups...)
}
