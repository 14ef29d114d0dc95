// Package validation checks untrusted payloads, client requests and generator
// output alike, against the fixed plan and request shapes. Every violated field
// is reported, not only the first one.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

// ValidationError lists every field that failed a constraint.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Constraint)
			continue
		}
		parts = append(parts, f.Field+": "+f.Constraint)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Decode parses raw JSON into an untyped object. Anything other than a JSON
// object is reported as a ValidationError.
func Decode(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Constraint: "body must be valid JSON"}}}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Fields: []FieldError{{Constraint: "body must be a JSON object"}}}
	}
	return obj, nil
}

// checker accumulates field errors. Only the first failure of a field is kept so
// a missing value does not also show up as out of range.
type checker struct {
	errs   []FieldError
	failed map[string]bool
}

func (c *checker) fail(field, format string, args ...any) {
	if c.failed == nil {
		c.failed = make(map[string]bool)
	}
	if c.failed[field] || c.parentFailed(field) {
		return
	}
	c.failed[field] = true
	c.errs = append(c.errs, FieldError{Field: field, Constraint: fmt.Sprintf(format, args...)})
}

func (c *checker) parentFailed(field string) bool {
	for f := range c.failed {
		if f == "" {
			continue
		}
		if strings.HasPrefix(field, f+".") || strings.HasPrefix(field, f+"[") {
			return true
		}
	}
	return false
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.errs}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

//
// Type and presence checks on untyped values.
//

func (c *checker) object(v any, path string) map[string]any {
	if v == nil {
		c.fail(path, "required")
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "must be an object")
		return nil
	}
	return obj
}

func (c *checker) str(obj map[string]any, path, key string, required bool) string {
	field := join(path, key)
	v, ok := obj[key]
	if !ok || v == nil {
		if required {
			c.fail(field, "required")
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(field, "must be a string")
		return ""
	}
	return s
}

// text accepts a string or a number, returning the number in its shortest
// decimal form. Models routinely emit reps as 12 instead of "12".
func (c *checker) text(obj map[string]any, path, key string) string {
	field := join(path, key)
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		c.fail(field, "required")
	default:
		c.fail(field, "must be a string or a number")
	}
	return ""
}

func (c *checker) integer(obj map[string]any, path, key string, required bool) int {
	field := join(path, key)
	v, ok := obj[key]
	if !ok || v == nil {
		if required {
			c.fail(field, "required")
		}
		return 0
	}
	n, ok := v.(float64)
	if !ok {
		c.fail(field, "must be a number")
		return 0
	}
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		c.fail(field, "must be a whole number")
		return 0
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		c.fail(field, "out of range")
		return 0
	}
	return int(n)
}

func (c *checker) list(obj map[string]any, path, key string) []any {
	field := join(path, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(field, "required")
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		c.fail(field, "must be an array")
		return nil
	}
	return items
}

func (c *checker) stringList(obj map[string]any, path, key string) []string {
	field := join(path, key)
	items := c.list(obj, path, key)
	if items == nil {
		if c.failed[field] {
			return nil
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			c.fail(index(field, i), "must be a string")
			continue
		}
		out = append(out, s)
	}
	return out
}

//
// Constraint checks on typed values.
//

func (c *checker) length(field, s string, min, max int) {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		if min == 0 {
			c.fail(field, "must be at most %d characters", max)
			return
		}
		c.fail(field, "must be between %d and %d characters", min, max)
	}
}

func (c *checker) between(field string, n, min, max int) {
	if n < min || n > max {
		c.fail(field, "must be between %d and %d", min, max)
	}
}

func (c *checker) count(field string, n, min, max int) {
	switch {
	case min == max && n != min:
		c.fail(field, "must contain exactly %d items", min)
	case n < min:
		c.fail(field, "must contain at least %d items", min)
	case n > max:
		c.fail(field, "must contain at most %d items", max)
	}
}

func (c *checker) oneOf(field, s string, allowed []string) {
	for _, a := range allowed {
		if s == a {
			return
		}
	}
	c.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
}

func (c *checker) eachLength(field string, items []string, min, max int) {
	for i, s := range items {
		c.length(index(field, i), s, min, max)
	}
}
