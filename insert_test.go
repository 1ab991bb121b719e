// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild_test

import (
	"errors"

	. "gopkg.in/check.v1"

	"github.com/quarterpath/sqlbuild"
)

type InsertSuite struct {
	users, posts *sqlbuild.Table
}

var _ = Suite(&InsertSuite{})

func (s *InsertSuite) SetUpTest(c *C) {
	s.users, s.posts = newTables(c)
}

func (s *InsertSuite) TestSingleRow(c *C) {
	row := UserRow{ID: 1, Email: "kiri@example.com", FirstName: "Kiri", LastName: "Ngata", Age: 32, Salary: 1200.5}
	sql, params, err := s.users.Insert(row).Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (id, email, first_name, last_name, age, salary) VALUES (%s, %s, %s, %s, %s, %s)")
	c.Assert(params, DeepEquals, []any{int64(1), "kiri@example.com", "Kiri", "Ngata", 32, 1200.5})
}

func (s *InsertSuite) TestBulkRows(c *C) {
	sql, params, err := s.posts.Insert(
		PostRow{ID: 1, UserID: 1, Title: "first", Views: 10},
		PostRow{ID: 2, UserID: 1, Title: "second", Views: 20},
	).Columns("user_id", "title", "views").Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO posts (user_id, title, views) VALUES (%s, %s, %s), (%s, %s, %s)")
	c.Assert(params, DeepEquals, []any{int64(1), "first", 10, int64(1), "second", 20})
}

func (s *InsertSuite) TestColumnsAcceptQualifiedReferences(c *C) {
	// Qualified and typed references are validated but rendered bare.
	sql, params, err := s.users.Insert(UserRow{Email: "a@example.com", Age: 20}).
		Columns("users.email", s.users.C("age")).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email, age) VALUES (%s, %s)")
	c.Assert(params, DeepEquals, []any{"a@example.com", 20})
}

func (s *InsertSuite) TestOverride(c *C) {
	// Override replaces the dumped value; override-only columns are appended
	// in lexical order. Expression values render inline.
	sql, params, err := s.users.Insert(UserRow{Email: "a@example.com"}).
		Columns("email").
		Override(sqlbuild.M{"age": 18, "salary": sqlbuild.Raw("DEFAULT")}).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email, age, salary) VALUES (%s, %s, DEFAULT)")
	c.Assert(params, DeepEquals, []any{"a@example.com", 18})
}

func (s *InsertSuite) TestOverrideAppliesToEveryRow(c *C) {
	sql, params, err := s.posts.Insert(
		PostRow{ID: 1, UserID: 7, Title: "a"},
		PostRow{ID: 2, UserID: 7, Title: "b"},
	).Columns("user_id", "title").
		Override(sqlbuild.M{"views": 0}).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO posts (user_id, title, views) VALUES (%s, %s, %s), (%s, %s, %s)")
	c.Assert(params, DeepEquals, []any{int64(7), "a", 0, int64(7), "b", 0})
}

func (s *InsertSuite) TestFromSelect(c *C) {
	sql, params, err := s.users.Insert().
		Columns("email").
		FromSelect(s.posts.Select("title").Where(s.posts.C("views").Gt(100))).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email) SELECT posts.title FROM posts WHERE (posts.views > %s)")
	c.Assert(params, DeepEquals, []any{100})
}

func (s *InsertSuite) TestFromSelectRejectsRows(c *C) {
	_, _, err := s.users.Insert(UserRow{}).
		FromSelect(s.posts.Select("title")).
		Build()
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)
}

func (s *InsertSuite) TestNoRowsNoSelect(c *C) {
	_, _, err := s.users.Insert().Build()
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)
}

func (s *InsertSuite) TestOnConflictDoNothing(c *C) {
	sql, params, err := s.users.Insert(UserRow{Email: "a@example.com"}).
		Columns("email").
		OnConflict("email").DoNothing().
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email) VALUES (%s) ON CONFLICT (users.email) DO NOTHING")
	c.Assert(params, DeepEquals, []any{"a@example.com"})
}

func (s *InsertSuite) TestOnConflictDoUpdate(c *C) {
	// The conflict target renders qualified, the SET column bare; SET
	// parameters follow the row values.
	sql, params, err := s.users.Insert(UserRow{Email: "a@example.com", FirstName: "Ana"}).
		Columns("email", "first_name").
		OnConflict("email").DoUpdate(sqlbuild.M{"first_name": "Ana"}).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email, first_name) VALUES (%s, %s) ON CONFLICT (users.email) DO UPDATE SET first_name = %s")
	c.Assert(params, DeepEquals, []any{"a@example.com", "Ana", "Ana"})
}

func (s *InsertSuite) TestOnConflictDoUpdateExpression(c *C) {
	sql, params, err := s.posts.Insert(PostRow{ID: 3, UserID: 1, Title: "t"}).
		Columns("user_id", "title").
		OnConflict("id").DoUpdate(sqlbuild.M{"views": s.posts.C("views").Add(1)}).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO posts (user_id, title) VALUES (%s, %s) ON CONFLICT (posts.id) DO UPDATE SET views = (posts.views + %s)")
	c.Assert(params, DeepEquals, []any{int64(1), "t", 1})
}

func (s *InsertSuite) TestOnConflictEmptySet(c *C) {
	_, _, err := s.users.Insert(UserRow{}).
		OnConflict("email").DoUpdate(sqlbuild.M{}).
		Build()
	c.Assert(errors.Is(err, sqlbuild.ErrEmptySet), Equals, true)
}

func (s *InsertSuite) TestOnConflictWithoutAction(c *C) {
	ins := s.users.Insert(UserRow{})
	ins.OnConflict("email")
	_, _, err := ins.Build()
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)
}

func (s *InsertSuite) TestReturning(c *C) {
	sql, _, err := s.users.Insert(UserRow{}).Columns("email").Returning().Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email) VALUES (%s) RETURNING *")

	sql, _, err = s.users.Insert(UserRow{}).Columns("email").Returning("id", s.users.C("email")).Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (email) VALUES (%s) RETURNING id, email")
}

func (s *InsertSuite) TestUnknownColumn(c *C) {
	_, _, err := s.users.Insert(UserRow{}).Columns("nope").Build()
	c.Assert(errors.Is(err, sqlbuild.ErrUnknownColumn), Equals, true)

	_, _, err = s.users.Insert(UserRow{}).Override(sqlbuild.M{"nope": 1}).Build()
	c.Assert(errors.Is(err, sqlbuild.ErrUnknownColumn), Equals, true)
}
