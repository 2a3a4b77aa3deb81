// Package query builds nested boolean queries for the posting index.
//
// A Node holds up to three operator slots (must, should, should_not). Each slot
// is an ordered list of fields and each field carries literal terms or nested
// groups. Expand flattens the tree into the clause structure the search
// backend consumes.
package query

type Operator string

const (
	OpMust      Operator = "must"
	OpShould    Operator = "should"
	OpShouldNot Operator = "should_not"
)

// Operators lists the operator slots in expansion order.
var Operators = []Operator{OpMust, OpShould, OpShouldNot}

// ParseOperator reports whether s names an operator slot.
func ParseOperator(s string) (Operator, bool) {
	for _, op := range Operators {
		if string(op) == s {
			return op, true
		}
	}
	return "", false
}

// Value is either a literal term or a nested group, decided when it is built.
type Value struct {
	term  string
	group *Node
}

// Term returns a literal value.
func Term(s string) Value {
	return Value{term: s}
}

// Terms returns one literal value per string, in order.
func Terms(s ...string) []Value {
	values := make([]Value, 0, len(s))
	for _, t := range s {
		values = append(values, Term(t))
	}
	return values
}

// Group returns a value wrapping a nested node.
func Group(n *Node) Value {
	return Value{group: n}
}

func (v Value) IsGroup() bool {
	return v.group != nil
}

// Literal returns the term of a literal value and "" for groups.
func (v Value) Literal() string {
	return v.term
}

// Node returns the nested node of a group value and nil for literals.
func (v Value) Node() *Node {
	return v.group
}

type Field struct {
	Name   string
	Values []Value
}

// Node is an immutable boolean clause tree. The zero value and nil are both
// empty nodes.
type Node struct {
	slots map[Operator][]Field
}

type Option func(*Node)

// Must adds values that all have to match (AND).
func Must(field string, values ...Value) Option {
	return withField(OpMust, field, values)
}

// Should adds values of which at least one should match (OR).
func Should(field string, values ...Value) Option {
	return withField(OpShould, field, values)
}

// ShouldNot adds values that must not match (AND-NOT).
func ShouldNot(field string, values ...Value) Option {
	return withField(OpShouldNot, field, values)
}

func withField(op Operator, name string, values []Value) Option {
	return func(n *Node) {
		kept := make([]Value, 0, len(values))
		for _, v := range values {
			// empty literals and empty groups contribute no clause
			if v.group == nil && v.term == "" || v.group != nil && v.group.IsEmpty() {
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			return
		}
		fields := n.slots[op]
		for i := range fields {
			if fields[i].Name == name {
				fields[i].Values = append(fields[i].Values, kept...)
				return
			}
		}
		n.slots[op] = append(fields, Field{Name: name, Values: kept})
	}
}

// New builds a node from the given options. Repeating a field under the same
// operator appends to it.
func New(opts ...Option) *Node {
	n := &Node{slots: make(map[Operator][]Field, len(Operators))}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Fields returns a copy of the fields held under op.
func (n *Node) Fields(op Operator) []Field {
	if n == nil {
		return nil
	}
	fields := make([]Field, 0, len(n.slots[op]))
	for _, f := range n.slots[op] {
		fields = append(fields, Field{Name: f.Name, Values: append([]Value(nil), f.Values...)})
	}
	return fields
}

func (n *Node) IsEmpty() bool {
	if n == nil {
		return true
	}
	for _, fields := range n.slots {
		if len(fields) > 0 {
			return false
		}
	}
	return true
}
