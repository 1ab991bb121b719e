package typeinfo

import (
	"fmt"
	"reflect"
)

// Field represents a single tagged field on a row struct.
type Field struct {
	// Name is the name of the Go struct field.
	Name string

	// Index of this field in the structure.
	Index int

	// PrimaryKey is true if the tag carries the "pk" option.
	PrimaryKey bool

	// Type is the Go type of the field.
	Type reflect.Type
}

// Info holds the column metadata extracted from a row struct type.
type Info struct {
	// Type is the struct type the metadata was generated from.
	Type reflect.Type

	// TagToField maps "db" tag names to their fields.
	TagToField map[string]Field

	// Tags holds the tag names in struct declaration order.
	Tags []string
}

// HasTag reports whether the named column exists on the type.
func (i *Info) HasTag(tag string) bool {
	_, ok := i.TagToField[tag]
	return ok
}

// PrimaryKeys returns the tags of the primary key columns in declaration
// order.
func (i *Info) PrimaryKeys() []string {
	var pks []string
	for _, tag := range i.Tags {
		if i.TagToField[tag].PrimaryKey {
			pks = append(pks, tag)
		}
	}
	return pks
}

// Dump extracts the values of every tagged field of value as a tag to value
// mapping. The value must be of the type the Info was generated from.
func (i *Info) Dump(value any) (map[string]any, error) {
	return i.DumpSubset(value, i.Tags)
}

// DumpSubset extracts the values of the named tagged fields of value. An
// unknown tag is an error.
func (i *Info) DumpSubset(value any, tags []string) (map[string]any, error) {
	v := reflect.Indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		return nil, fmt.Errorf("cannot dump nil value")
	}
	if v.Type() != i.Type {
		return nil, fmt.Errorf("cannot dump value of type %s as %s", v.Type(), i.Type)
	}

	vals := make(map[string]any, len(tags))
	for _, tag := range tags {
		field, ok := i.TagToField[tag]
		if !ok {
			return nil, fmt.Errorf("type %s has no %q column", i.Type.Name(), tag)
		}
		vals[tag] = v.Field(field.Index).Interface()
	}
	return vals, nil
}
