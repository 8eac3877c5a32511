package queryir

import (
	"fmt"
	"slices"

	"github.com/roach88/arbor/internal/ir"
)

// ValidationResult lists the problems found in a query.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

// Validate checks that a query only uses known sources and fields, that
// every operator applies to its field, and that every value has the
// field's type.
func Validate(q Query) ValidationResult {
	v := &validator{}
	v.validateQuery(q)
	return ValidationResult{Valid: len(v.problems) == 0, Problems: v.problems}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addProblem("nil query")
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From != SourceTurns {
		v.addProblem("unknown source %q", sel.From)
		return
	}
	if sel.Limit < 0 {
		v.addProblem("limit must be >= 0, got %d", sel.Limit)
	}
	v.validatePredicate(sel.From, sel.Filter)
}

func (v *validator) validatePredicate(src Source, p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Compare:
		v.problems = append(v.problems, checkCompare(src, pred)...)
	case *Compare:
		v.problems = append(v.problems, checkCompare(src, *pred)...)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(src, sub)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(src, sub)
		}
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func checkCompare(src Source, cmp Compare) []string {
	field, ok := LookupField(src, cmp.Field)
	if !ok {
		return []string{fmt.Sprintf("unknown field %q", cmp.Field)}
	}

	var problems []string
	if !slices.Contains(field.Ops, cmp.Op) {
		problems = append(problems, fmt.Sprintf("operator %q does not apply to %s", cmp.Op, field.Name))
	}
	switch cmp.Value.(type) {
	case ir.IRString:
		if field.Kind != KindString {
			problems = append(problems, fmt.Sprintf("%s takes an %s, got a string", field.Name, field.Kind))
		}
	case ir.IRInt:
		if field.Kind != KindInt {
			problems = append(problems, fmt.Sprintf("%s takes a %s, got an int", field.Name, field.Kind))
		}
	default:
		problems = append(problems, fmt.Sprintf("%s: unsupported value %T", field.Name, cmp.Value))
	}
	return problems
}
