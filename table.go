// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"strings"

	"github.com/quarterpath/sqlbuild/internal/typeinfo"
)

// Table is a table descriptor: a stable table name plus the column metadata
// extracted once from a tagged row struct. Columns are the struct fields
// carrying a `db` tag; the "pk" tag option marks primary key columns:
//
//	type User struct {
//		ID    int64  `db:"id,pk"`
//		Email string `db:"email"`
//		Age   int    `db:"age"`
//	}
//	users := sqlbuild.MustTable("users", User{})
//
// A Table is immutable after creation and safe for concurrent use.
type Table struct {
	name string
	info *typeinfo.Info

	// registry is the registry this table was registered in, used to resolve
	// dotted column references. It is set by Registry.Register.
	registry *Registry
}

// NewTable creates a table descriptor named name with the columns of the
// tagged struct sample. The sample value is only used for type information.
func NewTable(name string, sample any) (*Table, error) {
	if name == "" {
		return nil, invalidArgumentError("table name cannot be empty")
	}
	info, err := typeinfo.GetTypeInfo(sample)
	if err != nil {
		return nil, invalidArgumentError("cannot derive columns for table %q: %s", name, err)
	}
	return &Table{name: name, info: info}, nil
}

// MustTable is the same as NewTable except that it panics on error.
func MustTable(name string, sample any) *Table {
	t, err := NewTable(name, sample)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns the column names in row struct declaration order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.info.Tags...)
}

// PrimaryKeys returns the primary key column names in declaration order.
func (t *Table) PrimaryKeys() []string {
	return t.info.PrimaryKeys()
}

// C returns a column reference expression rendering as the qualified
// "table.field" identifier. An unknown field is recorded in the node and
// surfaces when the statement is built.
func (t *Table) C(field string) *Expr {
	if !t.info.HasTag(field) {
		return errExpr(unknownColumnError(t.name, field))
	}
	return &Expr{kind: kindColumn, table: t.name, field: field}
}

func (t *Table) hasColumn(field string) bool {
	return t.info.HasTag(field)
}

// lookupRegistry returns the registry dotted references resolve through: the
// one the table was registered in, or the process-wide default.
func (t *Table) lookupRegistry() *Registry {
	if t.registry != nil {
		return t.registry
	}
	return defaultRegistry
}

// resolveColumn resolves a string column reference against the table. A
// dotted "table.field" prefix is followed through the registry; a bare name
// is checked against this table's columns. It returns the owning table and
// the bare field name.
func (t *Table) resolveColumn(ref string) (*Table, string, error) {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		tableName, field := ref[:i], ref[i+1:]
		target, err := t.lookupRegistry().Lookup(tableName)
		if err != nil {
			return nil, "", unresolvedTableError(tableName)
		}
		if !target.hasColumn(field) {
			return nil, "", unknownColumnError(tableName, field)
		}
		return target, field, nil
	}
	if !t.hasColumn(ref) {
		return nil, "", unknownColumnError(t.name, ref)
	}
	return t, ref, nil
}

// resolveFieldName resolves a column argument (a string, possibly dotted, or
// a column expression) to a bare field name. Dotted and typed references are
// validated against their owning table; rendering always uses the bare name.
func (t *Table) resolveFieldName(col any) (string, error) {
	switch v := col.(type) {
	case string:
		_, field, err := t.resolveColumn(v)
		if err != nil {
			return "", err
		}
		return field, nil
	case *Expr:
		if v.err != nil {
			return "", v.err
		}
		if v.kind != kindColumn {
			return "", invalidArgumentError("expected a column reference, got %s", v)
		}
		return v.field, nil
	}
	return "", invalidArgumentError("expected a column name or reference, got %T", col)
}

// resolveQualifiedName is like resolveFieldName but returns the qualified
// "table.field" identifier.
func (t *Table) resolveQualifiedName(col any) (string, error) {
	switch v := col.(type) {
	case string:
		target, field, err := t.resolveColumn(v)
		if err != nil {
			return "", err
		}
		return target.name + "." + field, nil
	case *Expr:
		if v.err != nil {
			return "", v.err
		}
		if v.kind != kindColumn {
			return "", invalidArgumentError("expected a column reference, got %s", v)
		}
		return v.table + "." + v.field, nil
	}
	return "", invalidArgumentError("expected a column name or reference, got %T", col)
}

// dumpRow extracts the named column values from a row value of the table's
// row struct type.
func (t *Table) dumpRow(row any, fields []string) (map[string]any, error) {
	for _, field := range fields {
		if !t.hasColumn(field) {
			return nil, unknownColumnError(t.name, field)
		}
	}
	vals, err := t.info.DumpSubset(row, fields)
	if err != nil {
		return nil, invalidArgumentError("cannot read row for table %q: %s", t.name, err)
	}
	return vals, nil
}
