package queryir

import "github.com/roach88/arbor/internal/ir"

// Query is a sealed interface implemented by Select.
type Query interface {
	queryNode()
}

// Predicate is a sealed interface implemented by Compare and And.
type Predicate interface {
	predicateNode()
}

// Source names a queryable record set.
type Source string

// SourceTurns selects recorded turns together with their session.
const SourceTurns Source = "turns"

// Select reads rows of a source that satisfy a filter.
//
//	Select{
//	  From:   SourceTurns,
//	  Filter: And{Predicates: []Predicate{
//	    Compare{Field: "strategy", Op: OpEq, Value: ir.IRString("greedy")},
//	    Compare{Field: "orders", Op: OpGt, Value: ir.IRInt(0)},
//	  }},
//	}
type Select struct {
	From   Source
	Filter Predicate // nil matches every row
	Limit  int       // 0 means no limit
}

func (Select) queryNode() {}

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Compare compares a field with a literal.
//
// Value is an ir.IRString for string fields and an ir.IRInt for integer
// fields. For the node field, OpEq means "the tick executed a node with
// this label".
type Compare struct {
	Field string
	Op    Op
	Value ir.IRValue
}

func (Compare) predicateNode() {}

// And holds when every predicate holds. An empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// FieldKind is the value type of a field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
)

func (k FieldKind) String() string {
	if k == KindInt {
		return "int"
	}
	return "string"
}

// Field describes one filterable field of a source.
type Field struct {
	Name string
	Kind FieldKind
	Ops  []Op
}

var (
	equality   = []Op{OpEq, OpNe}
	comparison = []Op{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe}
)

// TurnFields lists the fields of SourceTurns, in display order.
var TurnFields = []Field{
	{Name: "session", Kind: KindString, Ops: equality},
	{Name: "strategy", Kind: KindString, Ops: equality},
	{Name: "tree_hash", Kind: KindString, Ops: equality},
	{Name: "result", Kind: KindString, Ops: equality},
	{Name: "node", Kind: KindString, Ops: []Op{OpEq}},
	{Name: "seq", Kind: KindInt, Ops: comparison},
	{Name: "number", Kind: KindInt, Ops: comparison},
	{Name: "orders", Kind: KindInt, Ops: comparison},
}

// LookupField returns the field of a source with the given name.
func LookupField(src Source, name string) (Field, bool) {
	if src != SourceTurns {
		return Field{}, false
	}
	for _, f := range TurnFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names of SourceTurns.
func FieldNames() []string {
	names := make([]string, len(TurnFields))
	for i, f := range TurnFields {
		names[i] = f.Name
	}
	return names
}
