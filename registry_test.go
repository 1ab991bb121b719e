// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild_test

import (
	"errors"
	"fmt"

	. "gopkg.in/check.v1"

	"github.com/quarterpath/sqlbuild"
)

type RegistrySuite struct{}

var _ = Suite(&RegistrySuite{})

func (s *RegistrySuite) TestRegisterAndLookup(c *C) {
	reg := sqlbuild.NewRegistry()
	users := sqlbuild.MustTable("users", UserRow{})
	c.Assert(reg.Register(users), IsNil)

	found, err := reg.Lookup("users")
	c.Assert(err, IsNil)
	c.Assert(found, Equals, users)
}

func (s *RegistrySuite) TestDuplicateRegistration(c *C) {
	reg := sqlbuild.NewRegistry()
	c.Assert(reg.Register(sqlbuild.MustTable("users", UserRow{})), IsNil)

	err := reg.Register(sqlbuild.MustTable("users", UserRow{}))
	c.Assert(errors.Is(err, sqlbuild.ErrAlreadyRegistered), Equals, true)
	c.Assert(err, ErrorMatches, `table already registered under name "users"`)
}

func (s *RegistrySuite) TestLookupMissing(c *C) {
	reg := sqlbuild.NewRegistry()
	_, err := reg.Lookup("users")
	c.Assert(errors.Is(err, sqlbuild.ErrNotRegistered), Equals, true)
}

func (s *RegistrySuite) TestRegisterNil(c *C) {
	reg := sqlbuild.NewRegistry()
	err := reg.Register(nil)
	c.Assert(errors.Is(err, sqlbuild.ErrInvalidArgument), Equals, true)
}

func (s *RegistrySuite) TestDottedResolutionUsesOwnRegistry(c *C) {
	// Two registries may hold different tables under the same name; dotted
	// references resolve through the registry the base table lives in.
	regA := sqlbuild.NewRegistry()
	usersA := sqlbuild.MustTable("users", UserRow{})
	postsA := sqlbuild.MustTable("posts", PostRow{})
	c.Assert(regA.Register(usersA), IsNil)
	c.Assert(regA.Register(postsA), IsNil)

	sql, _, err := usersA.Select("email", "posts.title").
		Join("posts").On(postsA.C("user_id").Eq(usersA.C("id"))).
		Build()
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "SELECT users.email, posts.title FROM users INNER JOIN posts ON posts.user_id = users.id")

	// An isolated registry without posts cannot resolve the reference.
	regB := sqlbuild.NewRegistry()
	usersB := sqlbuild.MustTable("users", UserRow{})
	c.Assert(regB.Register(usersB), IsNil)
	_, _, err = usersB.Select("posts.title").Build()
	c.Assert(errors.Is(err, sqlbuild.ErrUnresolvedTable), Equals, true)
}

func (s *RegistrySuite) TestDefaultRegistry(c *C) {
	// Use a unique name so repeated runs in one process do not clash.
	name := fmt.Sprintf("default_reg_table_%p", c)
	type row struct {
		ID int64 `db:"id,pk"`
	}
	t := sqlbuild.MustTable(name, row{})
	c.Assert(sqlbuild.Register(t), IsNil)

	found, err := sqlbuild.Lookup(name)
	c.Assert(err, IsNil)
	c.Assert(found, Equals, t)
	c.Assert(sqlbuild.DefaultRegistry(), NotNil)
}
