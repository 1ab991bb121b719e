// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// M is a convenience type used to pass column to value mappings to Override
// and DoUpdate. M is not a special type, it is only a named map.
//
// Example:
//
//	users.Update(nil).
//		Override(sqlbuild.M{"last_login": sqlbuild.Now()}).
//		Where(users.C("id").Eq(7))
type M map[string]any

// sqlWriter accumulates generated SQL piece by piece together with the
// parameters matching its placeholders, in occurrence order.
type sqlWriter struct {
	buf    bytes.Buffer
	params []any
}

// write appends raw SQL text.
func (w *sqlWriter) write(sql string) {
	w.buf.WriteString(sql)
}

// writeExpr builds the expression and appends its SQL and parameters.
func (w *sqlWriter) writeExpr(e Expression) error {
	sql, params, err := e.Build()
	if err != nil {
		return err
	}
	w.buf.WriteString(sql)
	w.params = append(w.params, params...)
	return nil
}

// writeExprList builds and appends a comma separated expression list.
func (w *sqlWriter) writeExprList(exprs []Expression) error {
	for i, e := range exprs {
		if i != 0 {
			w.buf.WriteString(", ")
		}
		if err := w.writeExpr(e); err != nil {
			return err
		}
	}
	return nil
}

// writeConditions appends the conditions, each parenthesized, joined with
// AND. This is the rendering shared by WHERE and HAVING clause lists.
func (w *sqlWriter) writeConditions(conds []*Cond) error {
	for i, cond := range conds {
		if i != 0 {
			w.buf.WriteString(" AND ")
		}
		w.buf.WriteString("(")
		if err := w.writeExpr(cond); err != nil {
			return err
		}
		w.buf.WriteString(")")
	}
	return nil
}

// writeValue appends a SET or VALUES cell: expression nodes render inline
// with their own parameters, anything else becomes a placeholder.
func (w *sqlWriter) writeValue(val any) error {
	if e, ok := val.(Expression); ok {
		return w.writeExpr(e)
	}
	w.buf.WriteString(Placeholder)
	w.params = append(w.params, val)
	return nil
}

// writeReturning appends a RETURNING clause. A single "*" entry renders as
// RETURNING *.
func (w *sqlWriter) writeReturning(cols []string) {
	if len(cols) == 0 {
		return
	}
	w.buf.WriteString(" RETURNING ")
	w.buf.WriteString(strings.Join(cols, ", "))
}

// sql returns the accumulated SQL text.
func (w *sqlWriter) sql() string {
	return w.buf.String()
}

// resolveReturning resolves the arguments of a Returning call against the
// statement's base table. No arguments, or any "*" argument, selects every
// column.
func resolveReturning(t *Table, cols []any) ([]string, error) {
	if len(cols) == 0 {
		return []string{"*"}, nil
	}
	var fields []string
	for _, col := range cols {
		if s, ok := col.(string); ok && s == "*" {
			return []string{"*"}, nil
		}
		field, err := t.resolveFieldName(col)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// sortedKeys returns the map keys in lexical order, used to render mapping
// arguments deterministically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FormatSQL substitutes each placeholder in sql with the literal textual
// representation of its corresponding parameter, in order. The result is for
// logging and diagnostics only: values are not escaped and the text must
// never be executed.
func FormatSQL(sql string, params []any) string {
	var b strings.Builder
	i := 0
	for _, param := range params {
		j := strings.Index(sql[i:], Placeholder)
		if j < 0 {
			break
		}
		b.WriteString(sql[i : i+j])
		b.WriteString(formatParam(param))
		i += j + len(Placeholder)
	}
	b.WriteString(sql[i:])
	return b.String()
}

func formatParam(param any) string {
	switch v := param.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + v + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprintf("%v", param)
}
