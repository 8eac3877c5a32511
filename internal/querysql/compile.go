// Package querysql compiles queryir queries to parameterized SQLite SQL
// over the game log schema.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/queryir"
)

// TurnColumns are the columns every turns query selects, in scan order.
const TurnColumns = "t.id, t.session_id, t.number, t.seq, t.result, t.trace, t.snapshot"

// turnExprs maps turn fields to SQL expressions over turns t joined with
// sessions s.
var turnExprs = map[string]string{
	"session":   "t.session_id",
	"strategy":  "s.strategy",
	"tree_hash": "s.tree_hash",
	"result":    "t.result",
	"seq":       "t.seq",
	"number":    "t.number",
	"orders":    "(SELECT COUNT(*) FROM orders o WHERE o.turn_id = t.id)",
}

// SQLCompiler compiles queries to SQL for SQLite.
//
// Every query is ordered by session then sequence number, and every value
// is passed as a parameter.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile validates q and converts it to SQL and its parameters.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if res := queryir.Validate(q); !res.Valid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(res.Problems, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	var b strings.Builder
	b.WriteString("SELECT " + TurnColumns + " FROM turns t JOIN sessions s ON s.id = t.session_id")

	var params []any
	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE " + where)
		params = whereParams
	}

	b.WriteString(" ORDER BY t.session_id COLLATE BINARY ASC, t.seq ASC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}
	return b.String(), params, nil
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		return c.compileCompare(pred)
	case *queryir.Compare:
		return c.compileCompare(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileCompare(cmp queryir.Compare) (string, []any, error) {
	if cmp.Field == "node" {
		return compileNode(cmp)
	}

	expr, ok := turnExprs[cmp.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q", cmp.Field)
	}
	param, err := irValueToParam(cmp.Value)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", cmp.Field, err)
	}
	op := string(cmp.Op)
	if cmp.Op == queryir.OpNe {
		op = "<>"
	}
	return fmt.Sprintf("%s %s ?", expr, op), []any{param}, nil
}

// compileNode matches the quoted label inside the stored trace, which is
// a canonical JSON array of labels.
func compileNode(cmp queryir.Compare) (string, []any, error) {
	label, ok := cmp.Value.(ir.IRString)
	if !ok {
		return "", nil, errors.New("node takes a string")
	}
	quoted, err := ir.MarshalCanonical(label)
	if err != nil {
		return "", nil, fmt.Errorf("node: %w", err)
	}
	return "instr(t.trace, ?) > 0", []any{string(quoted)}, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
