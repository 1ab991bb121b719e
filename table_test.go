// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild_test

import (
	"errors"

	. "gopkg.in/check.v1"

	"github.com/quarterpath/sqlbuild"
)

type TableSuite struct{}

var _ = Suite(&TableSuite{})

func (s *TableSuite) TestNewTable(c *C) {
	users, err := sqlbuild.NewTable("users", UserRow{})
	c.Assert(err, IsNil)
	c.Assert(users.Name(), Equals, "users")
	c.Assert(users.Columns(), DeepEquals, []string{"id", "email", "first_name", "last_name", "age", "salary"})
	c.Assert(users.PrimaryKeys(), DeepEquals, []string{"id"})
}

func (s *TableSuite) TestNewTableErrors(c *C) {
	_, err := sqlbuild.NewTable("", UserRow{})
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)

	_, err = sqlbuild.NewTable("users", 42)
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)

	type untagged struct {
		ID int64
	}
	_, err = sqlbuild.NewTable("users", untagged{})
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)
}

func (s *TableSuite) TestMustTablePanics(c *C) {
	c.Assert(func() { sqlbuild.MustTable("users", 42) }, PanicMatches, ".*can only reflect struct type.*")
}

func (s *TableSuite) TestColumnReference(c *C) {
	users := sqlbuild.MustTable("users", UserRow{})
	sql, params, err := users.C("email").Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "users.email")
	c.Assert(params, HasLen, 0)
}

func (s *TableSuite) TestUnknownColumnReference(c *C) {
	users := sqlbuild.MustTable("users", UserRow{})
	_, _, err := users.C("nope").Build()
	c.Assert(errors.Is(err, sqlbuild.ErrUnknownColumn), Equals, true)
	c.Assert(err, ErrorMatches, `unknown column "nope" in table "users"`)
}

func (s *TableSuite) TestColumnsReturnsCopy(c *C) {
	users := sqlbuild.MustTable("users", UserRow{})
	cols := users.Columns()
	cols[0] = "mutated"
	c.Assert(users.Columns()[0], Equals, "id")
}

func (s *TableSuite) TestSharedRowType(c *C) {
	// Two tables may be declared over the same row struct.
	active := sqlbuild.MustTable("active_users", UserRow{})
	archived := sqlbuild.MustTable("archived_users", UserRow{})

	sql, _, err := active.C("email").Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "active_users.email")

	sql, _, err = archived.C("email").Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "archived_users.email")
}
