package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// decodeObject fills the payload struct dst from fields. Keys match json tags
// exactly; encoding/json would also accept them in any letter case.
// Nullable fields must be present even when their value is null.
func decodeObject(fields map[string]json.RawMessage, dst reflect.Value, path string) []FieldError {
	var errs []FieldError
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		at := joinPath(path, name)
		raw, ok := fields[name]
		if !ok {
			if sf.Tag.Get("nullable") == "true" {
				errs = append(errs, FieldError{Path: at, Constraint: "required"})
			}
			continue
		}
		errs = append(errs, decodeValue(raw, dst.Field(i), at)...)
	}
	return errs
}

// decodeValue reports every type mismatch below path instead of stopping at
// the first one. A mismatched value is left at its zero value.
func decodeValue(raw json.RawMessage, dst reflect.Value, path string) []FieldError {
	kind := jsonKind(raw)
	mismatch := func(want string) []FieldError {
		return []FieldError{{Path: path, Constraint: "type=" + want, Received: kind}}
	}

	switch dst.Kind() {
	case reflect.Pointer:
		if kind == "null" {
			return nil
		}
		elem := reflect.New(dst.Type().Elem())
		dst.Set(elem)
		return decodeValue(raw, elem.Elem(), path)

	case reflect.Struct:
		var fields map[string]json.RawMessage
		if kind != "object" || json.Unmarshal(raw, &fields) != nil {
			return mismatch("object")
		}
		return decodeObject(fields, dst, path)

	case reflect.Slice:
		if kind == "null" {
			return nil
		}
		var items []json.RawMessage
		if kind != "array" || json.Unmarshal(raw, &items) != nil {
			return mismatch("array")
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		var errs []FieldError
		for i, item := range items {
			errs = append(errs, decodeValue(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i))...)
		}
		dst.Set(out)
		return errs

	case reflect.String:
		var s string
		if kind != "string" || json.Unmarshal(raw, &s) != nil {
			return mismatch("string")
		}
		dst.SetString(s)

	case reflect.Bool:
		var b bool
		if kind != "boolean" || json.Unmarshal(raw, &b) != nil {
			return mismatch("boolean")
		}
		dst.SetBool(b)

	case reflect.Int64:
		n, ok := wholeNumber(raw)
		if kind != "number" || !ok {
			return mismatch("integer")
		}
		dst.SetInt(n)

	default:
		return []FieldError{{Path: path, Constraint: "type=" + jsonTypeName(dst.Type()), Received: kind}}
	}
	return nil
}

// wholeNumber accepts any JSON number with no fractional part, so 3, 3.0 and
// 3e0 all decode to 3.
func wholeNumber(raw json.RawMessage) (int64, bool) {
	text := strings.TrimSpace(string(raw))
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// covers reports whether a decode diagnostic already explains path, either at
// path itself or at one of its parents.
func covers(errs []FieldError, path string) bool {
	for _, e := range errs {
		if e.Path == path ||
			strings.HasPrefix(path, e.Path+".") ||
			strings.HasPrefix(path, e.Path+"[") {
			return true
		}
	}
	return false
}
