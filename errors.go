package sqlbuild

import (
	"errors"
	"fmt"
)

// The errors below are the sentinels behind every failure mode of the
// builders. They are wrapped with contextual detail before being returned, so
// check for them with errors.Is.
var (
	// ErrUnknownColumn is returned when a referenced field name is absent
	// from the resolved table's columns.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnresolvedTable is returned when the table prefix of a dotted column
	// reference does not resolve in the table registry.
	ErrUnresolvedTable = errors.New("unresolved table")

	// ErrUnjoinedTable is returned at build time when a selected or ordered
	// column belongs to a table that is neither the statement's base table
	// nor a join target.
	ErrUnjoinedTable = errors.New("unjoined table")

	// ErrMissingJoinCondition is returned at build time when a join kind that
	// requires an ON condition has none attached.
	ErrMissingJoinCondition = errors.New("missing join condition")

	// ErrIllegalJoinCondition is returned at build time when a CROSS or
	// NATURAL join has an ON condition attached.
	ErrIllegalJoinCondition = errors.New("illegal join condition")

	// ErrMissingWhere is returned when an UPDATE or DELETE is built with no
	// WHERE condition and no explicit full-table bypass.
	ErrMissingWhere = errors.New("missing WHERE clause")

	// ErrEmptySet is returned when an UPDATE or an ON CONFLICT DO UPDATE
	// resolves to zero SET assignments.
	ErrEmptySet = errors.New("empty SET clause")

	// ErrEmptyCase is returned when a CASE expression is built with zero WHEN
	// branches.
	ErrEmptyCase = errors.New("CASE expression has no WHEN clause")

	// ErrInvalidArgument is returned when a combinator receives a value of a
	// type it cannot coerce.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNegativeBound is returned when LIMIT or OFFSET is given a negative
	// count.
	ErrNegativeBound = errors.New("negative bound")

	// ErrAlreadyRegistered is returned when registering a table under a name
	// that is already taken.
	ErrAlreadyRegistered = errors.New("table already registered")

	// ErrNotRegistered is returned when looking up a table name that has not
	// been registered.
	ErrNotRegistered = errors.New("table not registered")
)

func unknownColumnError(table, field string) error {
	return fmt.Errorf("%w %q in table %q", ErrUnknownColumn, field, table)
}

func unresolvedTableError(name string) error {
	return fmt.Errorf("%w %q", ErrUnresolvedTable, name)
}

func unjoinedTableError(name string) error {
	return fmt.Errorf("%w: column of table %q referenced but %q is not joined", ErrUnjoinedTable, name, name)
}

func invalidArgumentError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
