package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/arbor/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Tree definition errors (E101-E109)
	ErrTreeNameEmpty   = "E101" // tree name is required
	ErrUnknownNodeType = "E102" // type is not one of ir.ValidNodeTypes
	ErrMissingFunction = "E103" // leaf without fn
	ErrMissingChild    = "E104" // decorator without child
	ErrNegativeBound   = "E105" // max_iterations < 0
	ErrUnexpectedField = "E106" // field does not apply to the node type
	ErrUnknownFunction = "E107" // fn not present in the registry
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a tree definition against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch def := v.(type) {
	case *ir.TreeDef:
		return validateTreeDef(def)
	case ir.TreeDef:
		return validateTreeDef(&def)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateTreeDef(def *ir.TreeDef) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "tree name is required and must be non-empty",
			Code:    ErrTreeNameEmpty,
		})
	}

	return append(errs, validateNode(def.Root, "root")...)
}

func validateNode(n ir.NodeDef, field string) []ValidationError {
	var errs []ValidationError
	add := func(subfield, code, format string, args ...any) {
		f := field
		if subfield != "" {
			f += "." + subfield
		}
		errs = append(errs, ValidationError{Field: f, Message: fmt.Sprintf(format, args...), Code: code, Line: n.Line})
	}

	// E102: unknown type; nothing else can be checked
	if !ir.ValidNodeTypes[n.Type] {
		add("type", ErrUnknownNodeType, "unknown node type %q, must be one of %s", n.Type, validTypeList())
		return errs
	}

	leaf := n.Type == ir.NodeCheck || n.Type == ir.NodeAction
	composite := n.Type == ir.NodeSelector || n.Type == ir.NodeSequence
	decorator := !leaf && !composite

	// E103: leaves need a function
	if leaf && strings.TrimSpace(n.Fn) == "" {
		add("fn", ErrMissingFunction, "%s requires fn", n.Type)
	}

	// E104: decorators need exactly one child
	if decorator && n.Child == nil {
		add("child", ErrMissingChild, "%s requires a child", n.Type)
	}

	// E105: loop bound must be non-negative
	if n.MaxIterations != nil && *n.MaxIterations < 0 {
		add("max_iterations", ErrNegativeBound, "max_iterations must be >= 0, got %d", *n.MaxIterations)
	}

	// E106: fields that do not apply to this type
	if !leaf && n.Fn != "" {
		add("fn", ErrUnexpectedField, "fn only applies to check and action nodes")
	}
	if !leaf && n.Label != "" {
		add("label", ErrUnexpectedField, "label only applies to check and action nodes")
	}
	if !composite && n.Name != "" {
		add("name", ErrUnexpectedField, "name only applies to selector and sequence nodes")
	}
	if !composite && n.Children != nil {
		add("children", ErrUnexpectedField, "%s does not take children", n.Type)
	}
	if !decorator && n.Child != nil {
		add("child", ErrUnexpectedField, "%s does not take a child", n.Type)
	}
	if n.Type != ir.NodeLoopUntilFail && n.MaxIterations != nil {
		add("max_iterations", ErrUnexpectedField, "max_iterations only applies to loop_until_fail")
	}

	for i, c := range n.Children {
		errs = append(errs, validateNode(c, fmt.Sprintf("%s.children[%d]", field, i))...)
	}
	if n.Child != nil {
		errs = append(errs, validateNode(*n.Child, field+".child")...)
	}

	return errs
}

// ValidateFunctions reports leaves whose fn is not among known.
func ValidateFunctions(v any, known []string) []ValidationError {
	var def *ir.TreeDef
	switch d := v.(type) {
	case *ir.TreeDef:
		def = d
	case ir.TreeDef:
		def = &d
	default:
		return Validate(v)
	}

	var errs []ValidationError
	var visit func(n ir.NodeDef, field string)
	visit = func(n ir.NodeDef, field string) {
		if (n.Type == ir.NodeCheck || n.Type == ir.NodeAction) && n.Fn != "" && !slices.Contains(known, n.Fn) {
			errs = append(errs, ValidationError{
				Field:   field + ".fn",
				Message: fmt.Sprintf("unknown function %q", n.Fn),
				Code:    ErrUnknownFunction,
				Line:    n.Line,
			})
		}
		for i, c := range n.Children {
			visit(c, fmt.Sprintf("%s.children[%d]", field, i))
		}
		if n.Child != nil {
			visit(*n.Child, field+".child")
		}
	}
	visit(def.Root, "root")
	return errs
}

func validTypeList() string {
	types := make([]string, 0, len(ir.ValidNodeTypes))
	for t := range ir.ValidNodeTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return strings.Join(types, ", ")
}
