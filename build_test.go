// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild_test

import (
	. "gopkg.in/check.v1"

	"github.com/quarterpath/sqlbuild"
)

type FormatSuite struct {
	users *sqlbuild.Table
}

var _ = Suite(&FormatSuite{})

func (s *FormatSuite) SetUpTest(c *C) {
	s.users, _ = newTables(c)
}

func (s *FormatSuite) TestFormatSQL(c *C) {
	tests := []struct {
		summary  string
		sql      string
		params   []any
		expected string
	}{{
		summary:  "no parameters",
		sql:      "SELECT * FROM users",
		expected: "SELECT * FROM users",
	}, {
		summary:  "integer and string",
		sql:      "SELECT * FROM users WHERE (users.age > %s) AND (users.email = %s)",
		params:   []any{18, "kiri@example.com"},
		expected: "SELECT * FROM users WHERE (users.age > 18) AND (users.email = 'kiri@example.com')",
	}, {
		summary:  "nil renders NULL",
		sql:      "UPDATE users SET email = %s WHERE (users.id = %s)",
		params:   []any{nil, 7},
		expected: "UPDATE users SET email = NULL WHERE (users.id = 7)",
	}, {
		summary:  "booleans render keywords",
		sql:      "VALUES (%s, %s)",
		params:   []any{true, false},
		expected: "VALUES (TRUE, FALSE)",
	}, {
		summary:  "extra parameters are ignored",
		sql:      "WHERE a = %s",
		params:   []any{1, 2},
		expected: "WHERE a = 1",
	}, {
		summary:  "missing parameters leave placeholders",
		sql:      "WHERE a = %s AND b = %s",
		params:   []any{1},
		expected: "WHERE a = 1 AND b = %s",
	}}

	for _, t := range tests {
		c.Logf("test: %s", t.summary)
		c.Assert(sqlbuild.FormatSQL(t.sql, t.params), Equals, t.expected)
	}
}

func (s *FormatSuite) TestFormatBuiltStatement(c *C) {
	sql, params, err := s.users.Select("id").
		Where(s.users.C("email").Eq("kiri@example.com")).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sqlbuild.FormatSQL(sql, params), Equals,
		"SELECT users.id FROM users WHERE (users.email = 'kiri@example.com')")
}
