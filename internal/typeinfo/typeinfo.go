// Copyright 2025 Quarterpath Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*Info)

// GetTypeInfo returns the Info of a given struct type, generating and caching
// as required. The value is only used for its type; pointers are dereferenced.
func GetTypeInfo(value any) (*Info, error) {
	if value == (any)(nil) {
		return nil, fmt.Errorf("cannot reflect nil value")
	}

	v := reflect.Indirect(reflect.ValueOf(value))

	cacheMutex.RLock()
	info, found := cache[v.Type()]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(v)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	cache[v.Type()] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces the column metadata for the input reflect.Value. Only
// struct fields carrying a "db" tag are considered columns; everything else on
// the struct is outside of our remit.
func generate(value reflect.Value) (*Info, error) {
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("can only reflect struct type, got %s", value.Kind())
	}

	info := Info{
		TagToField: make(map[string]Field),
		Type:       value.Type(),
	}

	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("db")
		if tag == "" {
			continue
		}
		tag, primaryKey, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %s", field.Name, typ.Name(), err)
		}
		if _, ok := info.TagToField[tag]; ok {
			return nil, fmt.Errorf("db tag %q of %s is not unique", tag, typ.Name())
		}
		info.TagToField[tag] = Field{
			Name:       field.Name,
			Index:      i,
			PrimaryKey: primaryKey,
			Type:       field.Type,
		}
		info.Tags = append(info.Tags, tag)
	}

	if len(info.Tags) == 0 {
		return nil, fmt.Errorf("no \"db\" tags found in struct %s", typ.Name())
	}

	return &info, nil
}

// This expression should be aligned with the column references accepted by the
// statement builders.
var validColNameRx = regexp.MustCompile(`^([a-zA-Z_])+([a-zA-Z_0-9])*$`)

// parseTag parses the input tag string and returns its name and whether it
// carries the "pk" option marking a primary key column.
func parseTag(tag string) (string, bool, error) {
	options := strings.Split(tag, ",")

	var primaryKey bool
	// Refuse to parse if there are more than 2 items.
	if len(options) > 2 {
		return "", false, fmt.Errorf("too many options in 'db' tag")
	}
	if len(options) == 2 {
		if strings.ToLower(options[1]) != "pk" {
			return "", false, fmt.Errorf("unexpected tag value %q", options[1])
		}
		primaryKey = true
	}

	name := options[0]
	if len(name) == 0 {
		return "", false, fmt.Errorf("empty db tag")
	}

	if !validColNameRx.MatchString(name) {
		return "", false, fmt.Errorf("invalid column name in 'db' tag")
	}

	return name, primaryKey, nil
}
