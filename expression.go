// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"reflect"
	"strings"
)

// Placeholder is the positional parameter marker used in all generated SQL.
// It appears once per parameter and pairs with the parameter list returned by
// Build in order of occurrence.
const Placeholder = "%s"

// Expression is any node that renders to a SQL fragment plus the parameters
// matching its placeholders. The variant set is closed: only types of this
// package implement it.
type Expression interface {
	// Build returns the SQL fragment, the parameters matching its
	// placeholders in occurrence order, and any error recorded while the
	// node was constructed. Build never mutates the node and may be called
	// repeatedly.
	Build() (string, []any, error)

	// expression is a marker method.
	expression()
}

// exprKind enumerates the value-typed expression variants held by Expr. The
// set is closed; build dispatches over every kind in one place.
type exprKind int

const (
	kindLiteral exprKind = iota
	kindNull
	kindColumn
	kindBinary
	kindUnary
	kindAlias
	kindOrder
	kindFunc
	kindCase
	kindRaw
	kindWrap
)

type caseWhen struct {
	cond  *Cond
	value *Expr
}

// Expr is a value-typed SQL expression node: a literal, column reference,
// arithmetic combination, alias, function call, CASE expression or raw
// fragment. Expr values are immutable once constructed; every combinator
// returns a new node.
//
// Invalid constructions are recorded in the node and surface when it is
// built, so fluent chains never fail midway.
type Expr struct {
	kind exprKind

	value        any    // literal value
	table, field string // column reference
	op           string // binary or unary operator, or order direction
	left, right  *Expr  // operands; left doubles as the single child of unary, alias and order nodes
	name         string // alias or function name

	args     []*Expr // function arguments
	distinct bool
	filter   *Cond
	over     string

	whens []caseWhen
	els   *Expr

	sql    string // raw fragment
	params []any  // raw fragment parameters

	inner Expression // wrapped foreign node

	err error
}

// Marker method for Expression.
func (e *Expr) expression() {}

// Literal returns an expression rendering a single placeholder bound to
// value. A nil value renders as NULL with no parameter.
func Literal(value any) *Expr {
	return &Expr{kind: kindLiteral, value: value}
}

// Null returns an expression rendering the NULL keyword.
func Null() *Expr {
	return &Expr{kind: kindNull}
}

// Raw returns an expression that renders sql verbatim with the given
// parameters. The fragment must contain one placeholder per parameter.
func Raw(sql string, params ...any) *Expr {
	return &Expr{kind: kindRaw, sql: sql, params: params}
}

// ToExpression coerces a value into an expression node. Expression nodes pass
// through unchanged, anything else becomes a literal.
func ToExpression(value any) *Expr {
	switch v := value.(type) {
	case *Expr:
		return v
	case Expression:
		return &Expr{kind: kindWrap, inner: v}
	default:
		return Literal(v)
	}
}

// errExpr returns an expression node carrying a deferred construction error.
func errExpr(err error) *Expr {
	return &Expr{err: err}
}

// Build renders the expression node.
func (e *Expr) Build() (string, []any, error) {
	if e == nil {
		return "", nil, invalidArgumentError("nil expression")
	}
	if e.err != nil {
		return "", nil, e.err
	}
	switch e.kind {
	case kindLiteral:
		if e.value == nil {
			return "NULL", nil, nil
		}
		return Placeholder, []any{e.value}, nil
	case kindNull:
		return "NULL", nil, nil
	case kindColumn:
		return e.table + "." + e.field, nil, nil
	case kindBinary:
		leftSQL, leftParams, err := e.left.Build()
		if err != nil {
			return "", nil, err
		}
		rightSQL, rightParams, err := e.right.Build()
		if err != nil {
			return "", nil, err
		}
		return "(" + leftSQL + " " + e.op + " " + rightSQL + ")", concatParams(leftParams, rightParams), nil
	case kindUnary:
		sql, params, err := e.left.Build()
		if err != nil {
			return "", nil, err
		}
		return e.op + "(" + sql + ")", params, nil
	case kindAlias:
		sql, params, err := e.left.Build()
		if err != nil {
			return "", nil, err
		}
		return sql + " AS " + e.name, params, nil
	case kindOrder:
		sql, params, err := e.left.Build()
		if err != nil {
			return "", nil, err
		}
		return sql + " " + e.op, params, nil
	case kindFunc:
		return e.buildFunc()
	case kindCase:
		return e.buildCase()
	case kindRaw:
		return e.sql, concatParams(e.params), nil
	case kindWrap:
		return e.inner.Build()
	}
	return "", nil, fmt.Errorf("internal error: unknown expression kind %d", e.kind)
}

// String renders the expression for debugging and testing purposes.
func (e *Expr) String() string {
	sql, _, err := e.Build()
	if err != nil {
		return "Expr[!" + err.Error() + "]"
	}
	return "Expr[" + sql + "]"
}

func (e *Expr) binary(op string, other any) *Expr {
	return &Expr{kind: kindBinary, op: op, left: e, right: ToExpression(other)}
}

// Add returns the expression e + other.
func (e *Expr) Add(other any) *Expr { return e.binary("+", other) }

// Sub returns the expression e - other.
func (e *Expr) Sub(other any) *Expr { return e.binary("-", other) }

// Mul returns the expression e * other.
func (e *Expr) Mul(other any) *Expr { return e.binary("*", other) }

// Div returns the expression e / other.
func (e *Expr) Div(other any) *Expr { return e.binary("/", other) }

// Mod returns the expression e % other.
func (e *Expr) Mod(other any) *Expr { return e.binary("%", other) }

// Pow returns the expression e ^ other.
func (e *Expr) Pow(other any) *Expr { return e.binary("^", other) }

// Neg returns the unary minus of e.
func (e *Expr) Neg() *Expr { return &Expr{kind: kindUnary, op: "-", left: e} }

// Pos returns the unary plus of e.
func (e *Expr) Pos() *Expr { return &Expr{kind: kindUnary, op: "+", left: e} }

func (e *Expr) compare(op string, other any) *Cond {
	return &Cond{kind: condCompare, op: op, left: e, right: ToExpression(other)}
}

// Eq returns the condition e = other.
func (e *Expr) Eq(other any) *Cond { return e.compare("=", other) }

// Ne returns the condition e != other.
func (e *Expr) Ne(other any) *Cond { return e.compare("!=", other) }

// Lt returns the condition e < other.
func (e *Expr) Lt(other any) *Cond { return e.compare("<", other) }

// Le returns the condition e <= other.
func (e *Expr) Le(other any) *Cond { return e.compare("<=", other) }

// Gt returns the condition e > other.
func (e *Expr) Gt(other any) *Cond { return e.compare(">", other) }

// Ge returns the condition e >= other.
func (e *Expr) Ge(other any) *Cond { return e.compare(">=", other) }

// Like returns the condition e LIKE pattern.
func (e *Expr) Like(pattern any) *Cond { return e.compare("LIKE", pattern) }

// ILike returns the condition e ILIKE pattern.
func (e *Expr) ILike(pattern any) *Cond { return e.compare("ILIKE", pattern) }

// IsNull returns the condition e IS NULL.
func (e *Expr) IsNull() *Cond {
	return &Cond{kind: condCompare, op: "IS NULL", left: e}
}

// IsNotNull returns the condition e IS NOT NULL.
func (e *Expr) IsNotNull() *Cond {
	return &Cond{kind: condCompare, op: "IS NOT NULL", left: e}
}

// In returns the condition e IN values. The values may be an Expression, a
// subquery, or a slice producing one placeholder per element. An empty slice
// collapses to the statically false predicate 1 = 0 since IN () is not valid
// SQL.
func (e *Expr) In(values any) *Cond { return e.membership("IN", values) }

// NotIn returns the condition e NOT IN values. An empty slice collapses to
// the statically true predicate 1 = 1.
func (e *Expr) NotIn(values any) *Cond { return e.membership("NOT IN", values) }

func (e *Expr) membership(op string, values any) *Cond {
	switch v := values.(type) {
	case nil:
		return errCond(invalidArgumentError("%s operator requires a sequence or expression, got nil", op))
	case *Select:
		return &Cond{kind: condCompare, op: op, left: e, right: grouped{v}}
	case Expression:
		return &Cond{kind: condCompare, op: op, left: e, right: v}
	}
	rv := reflect.ValueOf(values)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return errCond(invalidArgumentError("%s operator requires a sequence or expression, got %T", op, values))
	}
	n := rv.Len()
	if n == 0 {
		if op == "IN" {
			return &Cond{kind: condCompare, op: "=", left: Raw("1"), right: Raw("0")}
		}
		return &Cond{kind: condCompare, op: "=", left: Raw("1"), right: Raw("1")}
	}
	params := make([]any, n)
	for i := 0; i < n; i++ {
		params[i] = rv.Index(i).Interface()
	}
	return &Cond{kind: condCompare, op: op, left: e, right: Raw("("+placeholderList(n)+")", params...)}
}

// Between returns the condition e BETWEEN lo AND hi. The bound parameters are
// emitted lo first, hi second.
func (e *Expr) Between(lo, hi any) *Cond {
	return &Cond{kind: condCompare, op: "BETWEEN", left: e, right: betweenRange{ToExpression(lo), ToExpression(hi)}}
}

// NotBetween returns the negation of Between.
func (e *Expr) NotBetween(lo, hi any) *Cond {
	return e.Between(lo, hi).Not()
}

// As returns the expression aliased as e AS alias.
func (e *Expr) As(alias string) *Expr {
	return &Expr{kind: kindAlias, left: e, name: alias}
}

// Asc marks the expression for ascending ordering. Only meaningful in ORDER
// BY clauses.
func (e *Expr) Asc() *Expr {
	return &Expr{kind: kindOrder, op: "ASC", left: e}
}

// Desc marks the expression for descending ordering. Only meaningful in ORDER
// BY clauses.
func (e *Expr) Desc() *Expr {
	return &Expr{kind: kindOrder, op: "DESC", left: e}
}

// grouped renders its inner expression wrapped in parentheses. It is used for
// subqueries on the right-hand side of IN.
type grouped struct {
	inner Expression
}

func (g grouped) Build() (string, []any, error) {
	sql, params, err := g.inner.Build()
	if err != nil {
		return "", nil, err
	}
	return "(" + sql + ")", params, nil
}

func (g grouped) expression() {}

// betweenRange renders the "lo AND hi" right-hand side of a BETWEEN
// condition, concatenating the bound parameters in order.
type betweenRange struct {
	lo, hi *Expr
}

func (r betweenRange) Build() (string, []any, error) {
	loSQL, loParams, err := r.lo.Build()
	if err != nil {
		return "", nil, err
	}
	hiSQL, hiParams, err := r.hi.Build()
	if err != nil {
		return "", nil, err
	}
	return loSQL + " AND " + hiSQL, concatParams(loParams, hiParams), nil
}

func (r betweenRange) expression() {}

// concatParams joins parameter lists in order, returning nil when all are
// empty.
func concatParams(lists ...[]any) []any {
	var out []any
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// placeholderList returns n comma separated placeholders.
func placeholderList(n int) string {
	placeholders := make([]string, n)
	for i := range placeholders {
		placeholders[i] = Placeholder
	}
	return strings.Join(placeholders, ", ")
}
