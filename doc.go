/*
Package sqlbuild composes SQL statements from typed expression trees instead of strings.

Statements are assembled from table descriptors derived once from tagged Go structs.
Building a statement produces the SQL text with one positional placeholder per parameter and the matching parameter list in order of occurrence, ready to hand to a database driver.
Column names are validated against the declared tables when the statement is constructed, so a typo fails the build instead of the database round trip.

# Basics

A table descriptor is declared from a struct whose fields carry `db` tags; the "pk" option marks primary key columns:

	type User struct {
		ID    int64  `db:"id,pk"`
		Email string `db:"email"`
		Age   int    `db:"age"`
	}
	users := sqlbuild.MustTable("users", User{})

Column references are obtained with C and combined into conditions with ordinary method calls:

	sql, params, err := users.Select("id", "email").
		Where(users.C("age").Gt(18)).
		Build()

which yields:

	SELECT users.id, users.email FROM users WHERE (users.age > %s)

with params [18]. The placeholder token is always %s; callers targeting drivers with a different convention rewrite it before execution.

# Statements

Select supports joins, grouping, ordering and pagination. Insert accepts row struct values directly, dumps their tagged fields, and supports multi-row VALUES, INSERT ... SELECT and ON CONFLICT clauses. Update and Delete refuse to build without a WHERE condition; whole-table statements must be requested explicitly with UpdateAll or DeleteAll.

Invalid constructions, an unknown column for example, are carried inside the affected node and reported by Build, so fluent chains never fail midway.

# Debugging

FormatSQL interpolates a parameter list into the generated text for logging.
The result is not escaped and must never be executed.
*/
package sqlbuild
