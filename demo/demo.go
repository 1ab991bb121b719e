package demo

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quarterpath/sqlbuild"
)

type Person struct {
	ID       int64  `db:"id,pk"`
	Name     string `db:"name"`
	Height   int    `db:"height_cm"`
	HomeTown string `db:"home_town"`
}

type Place struct {
	Name       string `db:"town_name"`
	Population int    `db:"population"`
}

// driverSQL rewrites the generated placeholders to the ? convention of the
// sqlite3 driver.
func driverSQL(text string) string {
	return strings.ReplaceAll(text, sqlbuild.Placeholder, "?")
}

func example() error {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}

	reg := sqlbuild.NewRegistry()
	people := sqlbuild.MustTable("people", Person{})
	places := sqlbuild.MustTable("places", Place{})
	if err := reg.Register(people); err != nil {
		return err
	}
	if err := reg.Register(places); err != nil {
		return err
	}

	_, err = sqldb.Exec(`
		CREATE TABLE people (
			id integer primary key,
			name text,
			height_cm integer,
			home_town text
		);
		CREATE TABLE places (
			town_name text,
			population integer
		);`,
	)
	if err != nil {
		return err
	}

	// Insert the people and places.
	insertPeople := people.Insert(
		Person{1, "Jim", 150, "Kabul"},
		Person{2, "Saba", 162, "Berlin"},
		Person{3, "Dave", 169, "Brasília"},
		Person{4, "Sophie", 174, "Berlin"},
		Person{5, "Kiri", 168, "Cape Town"},
	)
	insertPlaces := places.Insert(
		Place{"Kabul", 13000000},
		Place{"Berlin", 3677472},
		Place{"Brasília", 3039444},
		Place{"Cape Town", 4710000},
	)
	for _, stmt := range []interface {
		Build() (string, []any, error)
	}{insertPeople, insertPlaces} {
		text, params, err := stmt.Build()
		if err != nil {
			return err
		}
		fmt.Println(sqlbuild.FormatSQL(text, params))
		if _, err := sqldb.Exec(driverSQL(text), params...); err != nil {
			return err
		}
	}

	// Find people taller than Jim.
	jim := 150
	text, params, err := people.Select("name").
		Where(people.C("height_cm").Gt(jim)).
		OrderBy(people.C("height_cm").Desc()).
		Build()
	if err != nil {
		return err
	}
	fmt.Println(sqlbuild.FormatSQL(text, params))
	rows, err := sqldb.Query(driverSQL(text), params...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		fmt.Printf("%s is taller than Jim.\n", name)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	// Find home towns of tall people, with a join.
	text, params, err = people.Select("places.town_name", "places.population").
		Distinct().
		Join(places).On(people.C("home_town").Eq(places.C("town_name"))).
		Where(people.C("height_cm").Gt(jim)).
		Build()
	if err != nil {
		return err
	}
	fmt.Println(sqlbuild.FormatSQL(text, params))
	rows, err = sqldb.Query(driverSQL(text), params...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var town string
		var population int
		if err := rows.Scan(&town, &population); err != nil {
			rows.Close()
			return err
		}
		fmt.Printf("%s (population %d) has a person taller than Jim.\n", town, population)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	// Shrink everybody from Berlin.
	text, params, err = people.Update(nil).
		Override(sqlbuild.M{"height_cm": people.C("height_cm").Sub(1)}).
		Where(people.C("home_town").Eq("Berlin")).
		Build()
	if err != nil {
		return err
	}
	fmt.Println(sqlbuild.FormatSQL(text, params))
	if _, err := sqldb.Exec(driverSQL(text), params...); err != nil {
		return err
	}

	// Forget the short people.
	text, params, err = people.Delete().
		Where(people.C("height_cm").Lt(160)).
		Build()
	if err != nil {
		return err
	}
	fmt.Println(sqlbuild.FormatSQL(text, params))
	if _, err := sqldb.Exec(driverSQL(text), params...); err != nil {
		return err
	}

	return nil
}

func main() {
	err := example()
	if err != nil {
		panic(err)
	}
}
