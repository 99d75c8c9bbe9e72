/*
 *
 * browser-api - native Rebel browser features for Go and JavaScript
 * Copyright (C) 2021 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package common

import (
	"bytes"
	"reflect"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/guregu/null.v3"
)

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Extra holds the fields of a host object that this package does not know
// about. They are kept so that newer browser versions can add fields without
// them being lost on the way to the observers.
type Extra map[string]any

func (e Extra) clone() Extra {
	if e == nil {
		return nil
	}
	c := make(Extra, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

var knownFieldsCache sync.Map //nolint:gochecknoglobals

// knownFields returns the JSON names of the fields of the struct v points to.
func knownFields(v any) map[string]struct{} {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{}) //nolint:forcetypeassert
	}

	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		fields[name] = struct{}{}
	}
	knownFieldsCache.Store(t, fields)

	return fields
}

// unmarshalWithExtra decodes data into v and stores the fields v has no
// place for in extra.
func unmarshalWithExtra(data []byte, v any, extra *Extra) error {
	if err := jsonc.Unmarshal(data, v); err != nil {
		return err //nolint:wrapcheck
	}

	var all map[string]any
	if err := jsonc.Unmarshal(data, &all); err != nil {
		return err //nolint:wrapcheck
	}
	known := knownFields(v)
	for k, val := range all {
		if _, ok := known[k]; ok {
			continue
		}
		if *extra == nil {
			*extra = make(Extra)
		}
		(*extra)[k] = val
	}

	return nil
}

// marshalWithExtra encodes v and adds the fields in extra that v does not
// already define.
func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	b, err := jsonc.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err //nolint:wrapcheck
	}

	var all map[string]any
	if err := jsonc.Unmarshal(b, &all); err != nil {
		return nil, err //nolint:wrapcheck
	}
	for k, val := range extra {
		if _, ok := all[k]; !ok {
			all[k] = val
		}
	}

	return jsonc.Marshal(all) //nolint:wrapcheck
}

func isNullJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func stringOr(v null.String, d string) string {
	if v.Valid {
		return v.String
	}
	return d
}

func intOr(v null.Int, d int) int {
	if v.Valid {
		return int(v.Int64)
	}
	return d
}

func floatOr(v null.Float, d float64) float64 {
	if v.Valid {
		return v.Float64
	}
	return d
}
