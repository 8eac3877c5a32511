package queryir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/arbor/internal/ir"
)

// ParseWhere parses "field<op>value" expressions, such as "result=Failure"
// or "orders>=2", into a conjunction over SourceTurns. No expressions
// yields a nil predicate.
func ParseWhere(exprs []string) (Predicate, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	and := And{Predicates: make([]Predicate, 0, len(exprs))}
	for _, expr := range exprs {
		cmp, err := parseCompare(expr)
		if err != nil {
			return nil, err
		}
		and.Predicates = append(and.Predicates, cmp)
	}
	return and, nil
}

func parseCompare(expr string) (Compare, error) {
	i := strings.IndexAny(expr, "!<>=")
	if i < 0 {
		return Compare{}, fmt.Errorf("%q: expected field<op>value", expr)
	}
	op := Op(expr[i : i+1])
	if i+1 < len(expr) && expr[i+1] == '=' && op != OpEq {
		op = Op(expr[i : i+2])
	}
	if op == "!" {
		return Compare{}, fmt.Errorf("%q: unknown operator", expr)
	}

	name := strings.TrimSpace(expr[:i])
	raw := strings.TrimSpace(expr[i+len(op):])
	field, ok := LookupField(SourceTurns, name)
	if !ok {
		return Compare{}, fmt.Errorf("%q: unknown field %q (one of %s)", expr, name, strings.Join(FieldNames(), ", "))
	}

	cmp := Compare{Field: name, Op: op}
	switch field.Kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Compare{}, fmt.Errorf("%q: %s takes an integer", expr, name)
		}
		cmp.Value = ir.IRInt(n)
	default:
		cmp.Value = ir.IRString(raw)
	}

	if problems := checkCompare(SourceTurns, cmp); len(problems) > 0 {
		return Compare{}, fmt.Errorf("%q: %s", expr, problems[0])
	}
	return cmp, nil
}
