// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"
)

// Update builds an UPDATE statement. A WHERE condition is mandatory; a
// full-table update must be requested explicitly with UpdateAll.
type Update struct {
	table     *Table
	row       any
	hasRow    bool
	cols      []string
	overrides map[string]any
	joins     []*UpdateJoin
	wheres    []*Cond
	returning []any

	err error
}

// Update starts an UPDATE statement on the table. The row is a value of the
// table's row struct type supplying the SET values; by default every
// non-primary-key column is set. A nil row is allowed when all assignments
// come from Override.
func (t *Table) Update(row any) *Update {
	u := &Update{table: t}
	if row != nil {
		u.row, u.hasRow = row, true
	}
	return u
}

func (u *Update) setErr(err error) {
	if u.err == nil {
		u.err = err
	}
}

// Columns restricts the assigned columns. Unlike the default set, the list
// may name primary key columns explicitly.
func (u *Update) Columns(cols ...any) *Update {
	var fields []string
	for _, col := range cols {
		field, err := u.table.resolveFieldName(col)
		if err != nil {
			u.setErr(err)
			return u
		}
		fields = append(fields, field)
	}
	u.cols = fields
	return u
}

// Override sets the named columns directly, replacing any value the row
// supplies for them. Expression values render inline; anything else becomes a
// parameter.
func (u *Update) Override(values M) *Update {
	for key, val := range values {
		field, err := u.table.resolveFieldName(key)
		if err != nil {
			u.setErr(err)
			return u
		}
		if u.overrides == nil {
			u.overrides = map[string]any{}
		}
		u.overrides[field] = val
	}
	return u
}

// Join adds a joined table to the FROM list and returns the join sub-builder;
// complete it with On. The ON condition is folded into the WHERE clause,
// after any explicit conditions, and satisfies the mandatory WHERE guard.
func (u *Update) Join(table any) *UpdateJoin {
	var target *Table
	switch v := table.(type) {
	case *Table:
		target = v
	case string:
		t, err := u.table.lookupRegistry().Lookup(v)
		if err != nil {
			u.setErr(err)
		}
		target = t
	default:
		u.setErr(invalidArgumentError("cannot join value of type %T", table))
	}
	j := &UpdateJoin{upd: u, table: target}
	u.joins = append(u.joins, j)
	return j
}

// Where appends a condition; multiple calls are AND combined, each wrapped in
// parentheses.
func (u *Update) Where(cond *Cond) *Update {
	if cond == nil {
		u.setErr(invalidArgumentError("nil WHERE condition"))
		return u
	}
	u.wheres = append(u.wheres, cond)
	return u
}

// UpdateAll requests a full-table update, bypassing the mandatory WHERE guard
// with an always-true condition.
func (u *Update) UpdateAll() *Update {
	u.wheres = append(u.wheres, tautology())
	return u
}

// Returning sets the RETURNING clause. With no arguments, or any "*"
// argument, every column is returned.
func (u *Update) Returning(cols ...any) *Update {
	u.returning = cols
	if len(cols) == 0 {
		u.returning = []any{"*"}
	}
	return u
}

// assignments resolves the SET list: the configured columns (every
// non-primary-key column of the row by default) in order, plus override-only
// columns appended in lexical order.
func (u *Update) assignments() ([]string, map[string]any, error) {
	cols := u.cols
	if cols == nil && u.hasRow {
		pks := map[string]bool{}
		for _, pk := range u.table.PrimaryKeys() {
			pks[pk] = true
		}
		for _, col := range u.table.Columns() {
			if !pks[col] {
				cols = append(cols, col)
			}
		}
	}

	values := map[string]any{}
	if u.hasRow {
		var dumpCols []string
		for _, col := range cols {
			if _, ok := u.overrides[col]; !ok {
				dumpCols = append(dumpCols, col)
			}
		}
		dumped, err := u.table.dumpRow(u.row, dumpCols)
		if err != nil {
			return nil, nil, err
		}
		for col, val := range dumped {
			values[col] = val
		}
	}

	seen := map[string]bool{}
	for _, col := range cols {
		seen[col] = true
	}
	for _, key := range sortedKeys(u.overrides) {
		values[key] = u.overrides[key]
		if !seen[key] {
			cols = append(cols, key)
		}
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%w in UPDATE %s", ErrEmptySet, u.table.name)
	}
	return cols, values, nil
}

// whereList gathers the effective WHERE conditions: explicit conditions
// first, then the ON conditions of the FROM-list joins.
func (u *Update) whereList() ([]*Cond, error) {
	conds := append([]*Cond(nil), u.wheres...)
	for _, j := range u.joins {
		if j.on == nil {
			return nil, fmt.Errorf("%w on UPDATE %s joining %s", ErrMissingJoinCondition, u.table.name, j.table.name)
		}
		conds = append(conds, j.on)
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("%w: UPDATE %s without a condition; use UpdateAll to update every row", ErrMissingWhere, u.table.name)
	}
	return conds, nil
}

// Build renders the statement and its parameter list: SET values first in
// assignment order, then WHERE parameters.
func (u *Update) Build() (string, []any, error) {
	if u.err != nil {
		return "", nil, u.err
	}

	cols, values, err := u.assignments()
	if err != nil {
		return "", nil, err
	}
	conds, err := u.whereList()
	if err != nil {
		return "", nil, err
	}

	w := &sqlWriter{}
	w.write("UPDATE " + u.table.name + " SET ")
	for i, col := range cols {
		if i != 0 {
			w.write(", ")
		}
		w.write(col + " = ")
		if err := w.writeValue(values[col]); err != nil {
			return "", nil, err
		}
	}

	if len(u.joins) > 0 {
		names := make([]string, len(u.joins))
		for i, j := range u.joins {
			names[i] = j.table.name
		}
		w.write(" FROM " + strings.Join(names, ", "))
	}

	w.write(" WHERE ")
	if err := w.writeConditions(conds); err != nil {
		return "", nil, err
	}

	if u.returning != nil {
		returning, err := resolveReturning(u.table, u.returning)
		if err != nil {
			return "", nil, err
		}
		w.writeReturning(returning)
	}

	return w.sql(), w.params, nil
}

// String renders the statement for debugging purposes.
func (u *Update) String() string {
	sql, _, err := u.Build()
	if err != nil {
		return "Update[!" + err.Error() + "]"
	}
	return sql
}

// UpdateJoin is the sub-builder of a single FROM-list join, owned by exactly
// one Update.
type UpdateJoin struct {
	upd   *Update
	table *Table
	on    *Cond
}

// On attaches the join condition and returns the parent Update.
func (j *UpdateJoin) On(cond *Cond) *Update {
	j.on = cond
	return j.upd
}
