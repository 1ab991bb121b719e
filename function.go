// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"strings"
)

// Func returns a call expression for the named SQL function. The name is
// normalized to upper case. Arguments are coerced with ToExpression.
func Func(name string, args ...any) *Expr {
	exprs := make([]*Expr, len(args))
	for i, arg := range args {
		exprs[i] = ToExpression(arg)
	}
	return &Expr{kind: kindFunc, name: strings.ToUpper(name), args: exprs}
}

// Distinct returns a copy of the function expression with the DISTINCT
// modifier set. The modifier is only rendered when the function has
// arguments.
func (e *Expr) Distinct() *Expr {
	if e.err != nil {
		return e
	}
	if e.kind != kindFunc {
		return errExpr(invalidArgumentError("DISTINCT applies to function expressions"))
	}
	fn := *e
	fn.distinct = true
	return &fn
}

// Filter returns a copy of the function expression with a FILTER (WHERE ...)
// clause. Only valid for aggregate calls. The filter parameters follow the
// argument parameters.
func (e *Expr) Filter(cond *Cond) *Expr {
	if e.err != nil {
		return e
	}
	if e.kind != kindFunc {
		return errExpr(invalidArgumentError("FILTER applies to function expressions"))
	}
	fn := *e
	fn.filter = cond
	return &fn
}

// Over returns a copy of the function expression with an OVER (...) clause
// for window functions. The clause is raw text and contributes no parameters.
func (e *Expr) Over(clause string) *Expr {
	if e.err != nil {
		return e
	}
	if e.kind != kindFunc {
		return errExpr(invalidArgumentError("OVER applies to function expressions"))
	}
	fn := *e
	fn.over = clause
	return &fn
}

func (e *Expr) buildFunc() (string, []any, error) {
	var params []any
	var argsPart string
	if len(e.args) > 0 {
		parts := make([]string, len(e.args))
		for i, arg := range e.args {
			argSQL, argParams, err := arg.Build()
			if err != nil {
				return "", nil, err
			}
			parts[i] = argSQL
			params = append(params, argParams...)
		}
		argsPart = strings.Join(parts, ", ")
		if e.distinct {
			argsPart = "DISTINCT " + argsPart
		}
	}

	sql := e.name + "(" + argsPart + ")"

	if e.filter != nil {
		filterSQL, filterParams, err := e.filter.Build()
		if err != nil {
			return "", nil, err
		}
		sql += " FILTER (WHERE " + filterSQL + ")"
		params = append(params, filterParams...)
	}

	if e.over != "" {
		sql += " OVER (" + e.over + ")"
	}

	return sql, params, nil
}

// Case returns an empty CASE expression. At least one When branch must be
// added before it is built.
func Case() *Expr {
	return &Expr{kind: kindCase}
}

// When returns a copy of the CASE expression with an appended WHEN cond THEN
// value branch.
func (e *Expr) When(cond *Cond, value any) *Expr {
	if e.err != nil {
		return e
	}
	if e.kind != kindCase {
		return errExpr(invalidArgumentError("WHEN applies to CASE expressions"))
	}
	ce := *e
	ce.whens = append(append([]caseWhen(nil), e.whens...), caseWhen{cond: cond, value: ToExpression(value)})
	return &ce
}

// Else returns a copy of the CASE expression with the ELSE branch set.
func (e *Expr) Else(value any) *Expr {
	if e.err != nil {
		return e
	}
	if e.kind != kindCase {
		return errExpr(invalidArgumentError("ELSE applies to CASE expressions"))
	}
	ce := *e
	ce.els = ToExpression(value)
	return &ce
}

func (e *Expr) buildCase() (string, []any, error) {
	if len(e.whens) == 0 {
		return "", nil, ErrEmptyCase
	}

	var params []any
	var b strings.Builder
	b.WriteString("CASE")
	for _, when := range e.whens {
		condSQL, condParams, err := when.cond.Build()
		if err != nil {
			return "", nil, err
		}
		valSQL, valParams, err := when.value.Build()
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHEN " + condSQL + " THEN " + valSQL)
		params = append(params, condParams...)
		params = append(params, valParams...)
	}
	if e.els != nil {
		elseSQL, elseParams, err := e.els.Build()
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" ELSE " + elseSQL)
		params = append(params, elseParams...)
	}
	b.WriteString(" END")
	return b.String(), params, nil
}

// extractOperand renders the "field FROM expr" operand of EXTRACT.
type extractOperand struct {
	field string
	from  *Expr
}

func (x extractOperand) Build() (string, []any, error) {
	sql, params, err := x.from.Build()
	if err != nil {
		return "", nil, err
	}
	return x.field + " FROM " + sql, params, nil
}

func (x extractOperand) expression() {}

// Count returns COUNT(expr), or COUNT(*) when called with no argument.
func Count(expr ...any) *Expr {
	if len(expr) == 0 {
		return Func("COUNT", Raw("*"))
	}
	return Func("COUNT", expr[0])
}

// Sum returns SUM(expr).
func Sum(expr any) *Expr { return Func("SUM", expr) }

// Avg returns AVG(expr).
func Avg(expr any) *Expr { return Func("AVG", expr) }

// Min returns MIN(expr).
func Min(expr any) *Expr { return Func("MIN", expr) }

// Max returns MAX(expr).
func Max(expr any) *Expr { return Func("MAX", expr) }

// Concat returns CONCAT(args...).
func Concat(args ...any) *Expr { return Func("CONCAT", args...) }

// Upper returns UPPER(expr).
func Upper(expr any) *Expr { return Func("UPPER", expr) }

// Lower returns LOWER(expr).
func Lower(expr any) *Expr { return Func("LOWER", expr) }

// Length returns LENGTH(expr).
func Length(expr any) *Expr { return Func("LENGTH", expr) }

// Substring returns SUBSTRING(expr, start[, length]).
func Substring(expr any, start int, length ...int) *Expr {
	if len(length) > 0 {
		return Func("SUBSTRING", expr, Literal(start), Literal(length[0]))
	}
	return Func("SUBSTRING", expr, Literal(start))
}

// Now returns NOW().
func Now() *Expr { return Func("NOW") }

// CurrentDate returns CURRENT_DATE().
func CurrentDate() *Expr { return Func("CURRENT_DATE") }

// CurrentTimestamp returns CURRENT_TIMESTAMP().
func CurrentTimestamp() *Expr { return Func("CURRENT_TIMESTAMP") }

// Extract returns EXTRACT(field FROM expr). The field is raw text, for
// example "YEAR" or "EPOCH".
func Extract(field string, expr any) *Expr {
	operand := extractOperand{field: strings.ToUpper(field), from: ToExpression(expr)}
	return &Expr{kind: kindFunc, name: "EXTRACT", args: []*Expr{{kind: kindWrap, inner: operand}}}
}

// DateTrunc returns DATE_TRUNC(precision, expr).
func DateTrunc(precision string, expr any) *Expr {
	return Func("DATE_TRUNC", Literal(precision), expr)
}

// Coalesce returns COALESCE(args...).
func Coalesce(args ...any) *Expr { return Func("COALESCE", args...) }

// Abs returns ABS(expr).
func Abs(expr any) *Expr { return Func("ABS", expr) }

// Round returns ROUND(expr[, precision]).
func Round(expr any, precision ...int) *Expr {
	if len(precision) > 0 {
		return Func("ROUND", expr, Literal(precision[0]))
	}
	return Func("ROUND", expr)
}

// RowNumber returns the ROW_NUMBER() window function.
func RowNumber() *Expr { return Func("ROW_NUMBER") }

// Rank returns the RANK() window function.
func Rank() *Expr { return Func("RANK") }

// DenseRank returns the DENSE_RANK() window function.
func DenseRank() *Expr { return Func("DENSE_RANK") }

// Lag returns LAG(expr, offset[, default]).
func Lag(expr any, offset int, def ...any) *Expr {
	if len(def) > 0 {
		return Func("LAG", expr, Literal(offset), def[0])
	}
	return Func("LAG", expr, Literal(offset))
}

// Lead returns LEAD(expr, offset[, default]).
func Lead(expr any, offset int, def ...any) *Expr {
	if len(def) > 0 {
		return Func("LEAD", expr, Literal(offset), def[0])
	}
	return Func("LEAD", expr, Literal(offset))
}
