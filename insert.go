// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"
)

// Insert builds an INSERT statement. Rows are values of the table's row
// struct type; each contributes one VALUES group in order. Alternatively the
// inserted rows can come from a SELECT via FromSelect.
type Insert struct {
	table      *Table
	rows       []any
	cols       []string
	overrides  map[string]any
	fromSelect *Select
	conflict   *OnConflict
	returning  []any

	err error
}

// Insert starts an INSERT statement on the table. Each row is a value of the
// table's row struct type; by default every column of the row is inserted.
func (t *Table) Insert(rows ...any) *Insert {
	return &Insert{table: t, rows: rows}
}

func (ins *Insert) setErr(err error) {
	if ins.err == nil {
		ins.err = err
	}
}

// Columns restricts the inserted columns. Arguments are column names or
// references; qualified references are validated against their owning table
// but always rendered bare.
func (ins *Insert) Columns(cols ...any) *Insert {
	var fields []string
	for _, col := range cols {
		field, err := ins.table.resolveFieldName(col)
		if err != nil {
			ins.setErr(err)
			return ins
		}
		fields = append(fields, field)
	}
	ins.cols = fields
	return ins
}

// Override replaces the values of the named columns in every inserted row.
// Expression values render inline; anything else becomes a parameter. Later
// calls override earlier ones key by key.
func (ins *Insert) Override(values M) *Insert {
	for key, val := range values {
		field, err := ins.table.resolveFieldName(key)
		if err != nil {
			ins.setErr(err)
			return ins
		}
		if ins.overrides == nil {
			ins.overrides = map[string]any{}
		}
		ins.overrides[field] = val
	}
	return ins
}

// FromSelect turns the statement into INSERT ... SELECT, feeding the inserted
// rows from the subquery. It cannot be combined with row values.
func (ins *Insert) FromSelect(sel *Select) *Insert {
	if len(ins.rows) > 0 {
		ins.setErr(invalidArgumentError("cannot combine row values with FromSelect"))
		return ins
	}
	ins.fromSelect = sel
	return ins
}

// OnConflict opens an ON CONFLICT clause for the given target columns and
// returns its sub-builder; complete it with DoNothing or DoUpdate.
func (ins *Insert) OnConflict(cols ...any) *OnConflict {
	var targets []string
	for _, col := range cols {
		name, err := ins.table.resolveQualifiedName(col)
		if err != nil {
			ins.setErr(err)
			continue
		}
		targets = append(targets, name)
	}
	oc := &OnConflict{ins: ins, targets: targets}
	ins.conflict = oc
	return oc
}

// Returning sets the RETURNING clause. With no arguments, or any "*"
// argument, every column is returned.
func (ins *Insert) Returning(cols ...any) *Insert {
	ins.returning = cols
	if len(cols) == 0 {
		ins.returning = []any{"*"}
	}
	return ins
}

// columnList resolves the effective column list: the configured columns (all
// columns of the row struct by default), plus any override-only columns
// appended in lexical order.
func (ins *Insert) columnList() []string {
	cols := ins.cols
	if cols == nil {
		cols = ins.table.Columns()
	}
	seen := map[string]bool{}
	for _, col := range cols {
		seen[col] = true
	}
	for _, key := range sortedKeys(ins.overrides) {
		if !seen[key] {
			cols = append(cols, key)
		}
	}
	return cols
}

// Build renders the statement and its parameter list. Parameters accumulate
// row by row in column order, followed by conflict clause parameters.
func (ins *Insert) Build() (string, []any, error) {
	if ins.err != nil {
		return "", nil, ins.err
	}
	if len(ins.rows) == 0 && ins.fromSelect == nil {
		return "", nil, invalidArgumentError("INSERT INTO %s requires rows or a SELECT source", ins.table.name)
	}

	cols := ins.columnList()

	w := &sqlWriter{}
	w.write("INSERT INTO " + ins.table.name + " (" + strings.Join(cols, ", ") + ")")

	if ins.fromSelect != nil {
		w.write(" ")
		if err := w.writeExpr(ins.fromSelect); err != nil {
			return "", nil, err
		}
	} else {
		w.write(" VALUES ")
		for i, row := range ins.rows {
			vals, err := ins.rowValues(row, cols)
			if err != nil {
				return "", nil, err
			}
			if i != 0 {
				w.write(", ")
			}
			w.write("(")
			for j, val := range vals {
				if j != 0 {
					w.write(", ")
				}
				if err := w.writeValue(val); err != nil {
					return "", nil, err
				}
			}
			w.write(")")
		}
	}

	if ins.conflict != nil {
		w.write(" ")
		if err := ins.conflict.write(w); err != nil {
			return "", nil, err
		}
	}

	if ins.returning != nil {
		returning, err := resolveReturning(ins.table, ins.returning)
		if err != nil {
			return "", nil, err
		}
		w.writeReturning(returning)
	}

	return w.sql(), w.params, nil
}

// String renders the statement for debugging purposes.
func (ins *Insert) String() string {
	sql, _, err := ins.Build()
	if err != nil {
		return "Insert[!" + err.Error() + "]"
	}
	return sql
}

// rowValues dumps one row restricted to cols, with overrides applied on top.
func (ins *Insert) rowValues(row any, cols []string) ([]any, error) {
	var dumpCols []string
	for _, col := range cols {
		if _, ok := ins.overrides[col]; !ok {
			dumpCols = append(dumpCols, col)
		}
	}
	dumped, err := ins.table.dumpRow(row, dumpCols)
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	for i, col := range cols {
		if val, ok := ins.overrides[col]; ok {
			vals[i] = val
		} else {
			vals[i] = dumped[col]
		}
	}
	return vals, nil
}

// conflictAction enumerates the ON CONFLICT resolutions.
type conflictAction int

const (
	conflictUnset conflictAction = iota
	conflictNothing
	conflictUpdate
)

// OnConflict is the sub-builder of an ON CONFLICT clause, owned by exactly
// one Insert.
type OnConflict struct {
	ins     *Insert
	targets []string
	action  conflictAction
	set     map[string]any
}

// DoNothing resolves conflicts by skipping the conflicting rows and returns
// the parent Insert.
func (oc *OnConflict) DoNothing() *Insert {
	oc.action = conflictNothing
	return oc.ins
}

// DoUpdate resolves conflicts by updating the named columns and returns the
// parent Insert. Expression values render inline with their parameters;
// anything else becomes a parameter.
func (oc *OnConflict) DoUpdate(set M) *Insert {
	oc.action = conflictUpdate
	oc.set = map[string]any{}
	for key, val := range set {
		field, err := oc.ins.table.resolveFieldName(key)
		if err != nil {
			oc.ins.setErr(err)
			continue
		}
		oc.set[field] = val
	}
	return oc.ins
}

// write validates the clause and appends it. Conflict targets render
// qualified; SET columns render bare.
func (oc *OnConflict) write(w *sqlWriter) error {
	if oc.action == conflictUnset {
		return invalidArgumentError("ON CONFLICT on %s requires DoNothing or DoUpdate", oc.ins.table.name)
	}
	w.write("ON CONFLICT")
	if len(oc.targets) > 0 {
		w.write(" (" + strings.Join(oc.targets, ", ") + ")")
	}
	if oc.action == conflictNothing {
		w.write(" DO NOTHING")
		return nil
	}
	if len(oc.set) == 0 {
		return fmt.Errorf("%w in ON CONFLICT DO UPDATE on %s", ErrEmptySet, oc.ins.table.name)
	}
	w.write(" DO UPDATE SET ")
	for i, key := range sortedKeys(oc.set) {
		if i != 0 {
			w.write(", ")
		}
		w.write(key + " = ")
		if err := w.writeValue(oc.set[key]); err != nil {
			return err
		}
	}
	return nil
}
