// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild_test

import (
	"errors"

	. "gopkg.in/check.v1"

	"github.com/quarterpath/sqlbuild"
)

type DeleteSuite struct {
	users, posts *sqlbuild.Table
}

var _ = Suite(&DeleteSuite{})

func (s *DeleteSuite) SetUpTest(c *C) {
	s.users, s.posts = newTables(c)
}

func (s *DeleteSuite) TestBuild(c *C) {
	sql, params, err := s.users.Delete().
		Where(s.users.C("age").Lt(18)).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users WHERE (users.age < %s)")
	c.Assert(params, DeepEquals, []any{18})
}

func (s *DeleteSuite) TestMultipleWheres(c *C) {
	sql, params, err := s.users.Delete().
		Where(s.users.C("age").Lt(18)).
		Where(s.users.C("email").IsNull()).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users WHERE (users.age < %s) AND (users.email IS NULL)")
	c.Assert(params, DeepEquals, []any{18})
}

func (s *DeleteSuite) TestJoinUsing(c *C) {
	// The joined table lands in the USING list; its ON condition is folded
	// into WHERE after the explicit conditions.
	sql, params, err := s.users.Delete().
		Join(s.posts).On(s.posts.C("user_id").Eq(s.users.C("id"))).
		Where(s.posts.C("views").Eq(0)).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users USING posts WHERE (posts.views = %s) AND (posts.user_id = users.id)")
	c.Assert(params, DeepEquals, []any{0})
}

func (s *DeleteSuite) TestJoinByName(c *C) {
	sql, _, err := s.users.Delete().
		Join("posts").On(s.posts.C("user_id").Eq(s.users.C("id"))).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users USING posts WHERE (posts.user_id = users.id)")
}

func (s *DeleteSuite) TestJoinWithoutCondition(c *C) {
	del := s.users.Delete()
	del.Join(s.posts)
	_, _, err := del.Build()
	c.Assert(errors.Is(err, sqlbuild.ErrMissingJoinCondition), Equals, true)
}

func (s *DeleteSuite) TestMissingWhere(c *C) {
	_, _, err := s.users.Delete().Build()
	c.Assert(errors.Is(err, sqlbuild.ErrMissingWhere), Equals, true)
}

func (s *DeleteSuite) TestDeleteAllBypassesGuard(c *C) {
	sql, params, err := s.users.Delete().DeleteAll().Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users WHERE (1 = 1)")
	c.Assert(params, HasLen, 0)
}

func (s *DeleteSuite) TestReturning(c *C) {
	sql, _, err := s.users.Delete().
		Where(s.users.C("id").Eq(1)).
		Returning().
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users WHERE (users.id = %s) RETURNING *")

	sql, _, err = s.users.Delete().
		Where(s.users.C("id").Eq(1)).
		Returning("email").
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "DELETE FROM users WHERE (users.id = %s) RETURNING email")
}

func (s *DeleteSuite) TestUnknownTableJoin(c *C) {
	del := s.users.Delete()
	del.Join("comments")
	_, _, err := del.Build()
	c.Assert(errors.Is(err, sqlbuild.ErrNotRegistered), Equals, true)
}
