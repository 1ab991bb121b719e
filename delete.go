// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"
)

// Delete builds a DELETE statement. A WHERE condition is mandatory; a
// full-table delete must be requested explicitly with DeleteAll.
type Delete struct {
	table     *Table
	joins     []*DeleteJoin
	wheres    []*Cond
	returning []any

	err error
}

// Delete starts a DELETE statement on the table.
func (t *Table) Delete() *Delete {
	return &Delete{table: t}
}

func (d *Delete) setErr(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Join adds a joined table to the USING list and returns the join
// sub-builder; complete it with On. The ON condition is folded into the WHERE
// clause, after any explicit conditions, and satisfies the mandatory WHERE
// guard.
func (d *Delete) Join(table any) *DeleteJoin {
	var target *Table
	switch v := table.(type) {
	case *Table:
		target = v
	case string:
		t, err := d.table.lookupRegistry().Lookup(v)
		if err != nil {
			d.setErr(err)
		}
		target = t
	default:
		d.setErr(invalidArgumentError("cannot join value of type %T", table))
	}
	j := &DeleteJoin{del: d, table: target}
	d.joins = append(d.joins, j)
	return j
}

// Where appends a condition; multiple calls are AND combined, each wrapped in
// parentheses.
func (d *Delete) Where(cond *Cond) *Delete {
	if cond == nil {
		d.setErr(invalidArgumentError("nil WHERE condition"))
		return d
	}
	d.wheres = append(d.wheres, cond)
	return d
}

// DeleteAll requests a full-table delete, bypassing the mandatory WHERE guard
// with an always-true condition.
func (d *Delete) DeleteAll() *Delete {
	d.wheres = append(d.wheres, tautology())
	return d
}

// Returning sets the RETURNING clause. With no arguments, or any "*"
// argument, every column is returned.
func (d *Delete) Returning(cols ...any) *Delete {
	d.returning = cols
	if len(cols) == 0 {
		d.returning = []any{"*"}
	}
	return d
}

// Build renders the statement and its parameter list.
func (d *Delete) Build() (string, []any, error) {
	if d.err != nil {
		return "", nil, d.err
	}

	conds := append([]*Cond(nil), d.wheres...)
	for _, j := range d.joins {
		if j.on == nil {
			return "", nil, fmt.Errorf("%w on DELETE FROM %s joining %s", ErrMissingJoinCondition, d.table.name, j.table.name)
		}
		conds = append(conds, j.on)
	}
	if len(conds) == 0 {
		return "", nil, fmt.Errorf("%w: DELETE FROM %s without a condition; use DeleteAll to delete every row", ErrMissingWhere, d.table.name)
	}

	w := &sqlWriter{}
	w.write("DELETE FROM " + d.table.name)

	if len(d.joins) > 0 {
		names := make([]string, len(d.joins))
		for i, j := range d.joins {
			names[i] = j.table.name
		}
		w.write(" USING " + strings.Join(names, ", "))
	}

	w.write(" WHERE ")
	if err := w.writeConditions(conds); err != nil {
		return "", nil, err
	}

	if d.returning != nil {
		returning, err := resolveReturning(d.table, d.returning)
		if err != nil {
			return "", nil, err
		}
		w.writeReturning(returning)
	}

	return w.sql(), w.params, nil
}

// String renders the statement for debugging purposes.
func (d *Delete) String() string {
	sql, _, err := d.Build()
	if err != nil {
		return "Delete[!" + err.Error() + "]"
	}
	return sql
}

// DeleteJoin is the sub-builder of a single USING-list join, owned by exactly
// one Delete.
type DeleteJoin struct {
	del   *Delete
	table *Table
	on    *Cond
}

// On attaches the join condition and returns the parent Delete.
func (j *DeleteJoin) On(cond *Cond) *Delete {
	j.on = cond
	return j.del
}
