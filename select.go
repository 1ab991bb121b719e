// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strconv"
)

// JoinKind is the kind of a join clause.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinNatural
)

// String returns the SQL token of the join kind, without the JOIN keyword.
func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "INNER"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL OUTER"
	case JoinCross:
		return "CROSS"
	case JoinNatural:
		return "NATURAL"
	}
	return "UNKNOWN"
}

// requiresCondition reports whether the join kind requires an ON condition.
// CROSS and NATURAL joins forbid one instead.
func (k JoinKind) requiresCondition() bool {
	switch k {
	case JoinCross, JoinNatural:
		return false
	}
	return true
}

// Select builds a SELECT statement on a base table. Clause methods append in
// place and return the receiver for chaining; Build renders without mutating,
// so a builder can be corrected and rebuilt after a failure.
type Select struct {
	table    *Table
	cols     []Expression
	distinct bool
	joins    []*Join
	wheres   []*Cond
	groupBys []Expression
	havings  []*Cond
	orderBys []Expression

	limit, offset       int
	hasLimit, hasOffset bool

	err error
}

// Marker method for Expression, letting a Select be used as a subquery.
func (s *Select) expression() {}

// Select starts a SELECT statement on the table. With no columns the
// statement renders SELECT *.
func (t *Table) Select(cols ...any) *Select {
	s := &Select{table: t}
	return s.Select(cols...)
}

// setErr records the first deferred error; Build reports it.
func (s *Select) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// resolveSelectable coerces a select/group/order list argument: a string
// column reference (optionally dotted), a column or any other expression.
func (s *Select) resolveSelectable(col any) (Expression, error) {
	switch v := col.(type) {
	case string:
		target, field, err := s.table.resolveColumn(v)
		if err != nil {
			return nil, err
		}
		return target.C(field), nil
	case Expression:
		return v, nil
	}
	return nil, invalidArgumentError("cannot select value of type %T", col)
}

// Select appends columns to the select list. Arguments are string column
// references validated against the known columns, or typed expressions.
func (s *Select) Select(cols ...any) *Select {
	for _, col := range cols {
		expr, err := s.resolveSelectable(col)
		if err != nil {
			s.setErr(err)
			continue
		}
		s.cols = append(s.cols, expr)
	}
	return s
}

// Distinct marks the statement as SELECT DISTINCT.
func (s *Select) Distinct() *Select {
	s.distinct = true
	return s
}

// Count replaces the select list with a single COUNT(*) expression. Any
// prior Select calls are discarded.
func (s *Select) Count() *Select {
	s.cols = []Expression{Count()}
	return s
}

// resolveTable coerces a join target: a *Table, or a registered table name.
func (s *Select) resolveTable(table any) (*Table, error) {
	switch v := table.(type) {
	case *Table:
		return v, nil
	case string:
		return s.table.lookupRegistry().Lookup(v)
	}
	return nil, invalidArgumentError("cannot join value of type %T", table)
}

// JoinWith registers a join of the given kind and returns its sub-builder.
// Kinds that require a condition must be completed with On; attaching a
// condition to a CROSS or NATURAL join is a build-time error.
func (s *Select) JoinWith(kind JoinKind, table any) *Join {
	target, err := s.resolveTable(table)
	if err != nil {
		s.setErr(err)
	}
	j := &Join{sel: s, kind: kind, table: target}
	s.joins = append(s.joins, j)
	return j
}

// Join registers an INNER JOIN and returns its sub-builder; chain On to get
// back to the Select.
func (s *Select) Join(table any) *Join { return s.JoinWith(JoinInner, table) }

// LeftJoin registers a LEFT JOIN and returns its sub-builder.
func (s *Select) LeftJoin(table any) *Join { return s.JoinWith(JoinLeft, table) }

// RightJoin registers a RIGHT JOIN and returns its sub-builder.
func (s *Select) RightJoin(table any) *Join { return s.JoinWith(JoinRight, table) }

// FullJoin registers a FULL OUTER JOIN and returns its sub-builder.
func (s *Select) FullJoin(table any) *Join { return s.JoinWith(JoinFull, table) }

// CrossJoin registers a CROSS JOIN. No condition is allowed, so the Select
// itself is returned.
func (s *Select) CrossJoin(table any) *Select {
	s.JoinWith(JoinCross, table)
	return s
}

// NaturalJoin registers a NATURAL JOIN. No condition is allowed, so the
// Select itself is returned.
func (s *Select) NaturalJoin(table any) *Select {
	s.JoinWith(JoinNatural, table)
	return s
}

// Where appends a condition. Conditions from separate Where calls are always
// AND combined, each wrapped in parentheses; precedence inside a single call
// is determined by the condition's own tree.
func (s *Select) Where(cond *Cond) *Select {
	if cond == nil {
		s.setErr(invalidArgumentError("nil WHERE condition"))
		return s
	}
	s.wheres = append(s.wheres, cond)
	return s
}

// GroupBy appends grouping expressions.
func (s *Select) GroupBy(cols ...any) *Select {
	for _, col := range cols {
		expr, err := s.resolveSelectable(col)
		if err != nil {
			s.setErr(err)
			continue
		}
		s.groupBys = append(s.groupBys, expr)
	}
	return s
}

// Having appends a HAVING condition; multiple calls are AND combined like
// Where.
func (s *Select) Having(cond *Cond) *Select {
	if cond == nil {
		s.setErr(invalidArgumentError("nil HAVING condition"))
		return s
	}
	s.havings = append(s.havings, cond)
	return s
}

// OrderBy appends ordering expressions; use Asc or Desc on an expression to
// set an explicit direction.
func (s *Select) OrderBy(cols ...any) *Select {
	for _, col := range cols {
		expr, err := s.resolveSelectable(col)
		if err != nil {
			s.setErr(err)
			continue
		}
		s.orderBys = append(s.orderBys, expr)
	}
	return s
}

// Limit sets the LIMIT clause. Negative counts are rejected.
func (s *Select) Limit(n int) *Select {
	if n < 0 {
		s.setErr(fmt.Errorf("%w: LIMIT %d", ErrNegativeBound, n))
		return s
	}
	s.limit, s.hasLimit = n, true
	return s
}

// Offset sets the OFFSET clause. Negative counts are rejected.
func (s *Select) Offset(n int) *Select {
	if n < 0 {
		s.setErr(fmt.Errorf("%w: OFFSET %d", ErrNegativeBound, n))
		return s
	}
	s.offset, s.hasOffset = n, true
	return s
}

// Build renders the statement and its parameter list. Clause order is fixed:
// SELECT, FROM, joins, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, OFFSET;
// parameters accumulate in the same textual order.
func (s *Select) Build() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	if err := s.checkTableRefs(); err != nil {
		return "", nil, err
	}

	w := &sqlWriter{}
	w.write("SELECT ")
	if s.distinct {
		w.write("DISTINCT ")
	}
	if len(s.cols) == 0 {
		w.write("*")
	} else if err := w.writeExprList(s.cols); err != nil {
		return "", nil, err
	}
	w.write(" FROM " + s.table.name)

	for _, j := range s.joins {
		w.write(" ")
		if err := j.write(w); err != nil {
			return "", nil, err
		}
	}

	if len(s.wheres) > 0 {
		w.write(" WHERE ")
		if err := w.writeConditions(s.wheres); err != nil {
			return "", nil, err
		}
	}

	if len(s.groupBys) > 0 {
		w.write(" GROUP BY ")
		if err := w.writeExprList(s.groupBys); err != nil {
			return "", nil, err
		}
	}

	if len(s.havings) > 0 {
		w.write(" HAVING ")
		if err := w.writeConditions(s.havings); err != nil {
			return "", nil, err
		}
	}

	if len(s.orderBys) > 0 {
		w.write(" ORDER BY ")
		if err := w.writeExprList(s.orderBys); err != nil {
			return "", nil, err
		}
	}

	if s.hasLimit {
		w.write(" LIMIT " + strconv.Itoa(s.limit))
	}
	if s.hasOffset {
		w.write(" OFFSET " + strconv.Itoa(s.offset))
	}

	return w.sql(), w.params, nil
}

// String renders the statement for debugging purposes.
func (s *Select) String() string {
	sql, _, err := s.Build()
	if err != nil {
		return "Select[!" + err.Error() + "]"
	}
	return sql
}

// checkTableRefs verifies that every column referenced in the select and
// order lists belongs to the base table or a joined table.
func (s *Select) checkTableRefs() error {
	allowed := map[string]bool{s.table.name: true}
	for _, j := range s.joins {
		if j.table != nil {
			allowed[j.table.name] = true
		}
	}
	referenced := map[string]bool{}
	for _, col := range s.cols {
		collectColumnTables(col, referenced)
	}
	for _, col := range s.orderBys {
		collectColumnTables(col, referenced)
	}
	for name := range referenced {
		if !allowed[name] {
			return unjoinedTableError(name)
		}
	}
	return nil
}

// collectColumnTables walks an expression tree recording the table names of
// every column reference found.
func collectColumnTables(e Expression, tables map[string]bool) {
	switch v := e.(type) {
	case *Expr:
		switch v.kind {
		case kindColumn:
			tables[v.table] = true
		case kindBinary:
			collectColumnTables(v.left, tables)
			collectColumnTables(v.right, tables)
		case kindUnary, kindAlias, kindOrder:
			collectColumnTables(v.left, tables)
		case kindFunc:
			for _, arg := range v.args {
				collectColumnTables(arg, tables)
			}
			if v.filter != nil {
				collectColumnTables(v.filter, tables)
			}
		case kindCase:
			for _, when := range v.whens {
				collectColumnTables(when.cond, tables)
				collectColumnTables(when.value, tables)
			}
			if v.els != nil {
				collectColumnTables(v.els, tables)
			}
		case kindWrap:
			collectColumnTables(v.inner, tables)
		}
	case *Cond:
		switch v.kind {
		case condCompare:
			collectColumnTables(v.left, tables)
			if v.right != nil {
				collectColumnTables(v.right, tables)
			}
		case condTree:
			collectColumnTables(v.lc, tables)
			collectColumnTables(v.rc, tables)
		case condNot:
			collectColumnTables(v.inner, tables)
		}
	case grouped:
		collectColumnTables(v.inner, tables)
	case betweenRange:
		collectColumnTables(v.lo, tables)
		collectColumnTables(v.hi, tables)
	case extractOperand:
		collectColumnTables(v.from, tables)
	}
}

// Join is the sub-builder of a single join clause, owned by exactly one
// Select.
type Join struct {
	sel   *Select
	table *Table
	kind  JoinKind
	on    *Cond
}

// On attaches the join condition and returns the parent Select.
func (j *Join) On(cond *Cond) *Select {
	j.on = cond
	return j.sel
}

// write validates the join and appends its clause.
func (j *Join) write(w *sqlWriter) error {
	switch {
	case j.kind.requiresCondition() && j.on == nil:
		return fmt.Errorf("%w on %s JOIN %s", ErrMissingJoinCondition, j.kind, j.table.name)
	case !j.kind.requiresCondition() && j.on != nil:
		return fmt.Errorf("%w: %s JOIN %s cannot carry an ON condition", ErrIllegalJoinCondition, j.kind, j.table.name)
	}
	w.write(j.kind.String() + " JOIN " + j.table.name)
	if j.on != nil {
		w.write(" ON ")
		return w.writeExpr(j.on)
	}
	return nil
}
