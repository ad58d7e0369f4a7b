package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kendall-kelly/printshop-orders/validation"
)

// Change records one field modified by an Apply call.
type Change struct {
	Field string
	Old   interface{}
	New   interface{}
}

// Optional is an update to a nullable column. Set distinguishes "leave as is"
// from "clear" (Set with a nil Value).
type Optional[T any] struct {
	Value *T
	Set   bool
}

// Some returns an Optional that sets v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: &v, Set: true}
}

// Null returns an Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON marks the field as present. Dates accept YYYY-MM-DD as well
// as RFC 3339.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if d, ok := any(&v).(*time.Time); ok {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := validation.ParseDate(s)
		if err != nil {
			if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
				parsed = &t
			} else {
				return err
			}
		}
		if parsed == nil {
			o.Value = nil
			return nil
		}
		*d = *parsed
		o.Value = &v
		return nil
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

type changeSet []Change

func setValue[T comparable](c *changeSet, field string, dst *T, src *T) {
	if src == nil {
		return
	}
	if *dst != *src {
		*c = append(*c, Change{Field: field, Old: *dst, New: *src})
	}
	*dst = *src
}

func setOptional[T comparable](c *changeSet, field string, dst **T, src Optional[T]) {
	if !src.Set {
		return
	}
	old := *dst
	switch {
	case old == nil && src.Value == nil:
		return
	case old != nil && src.Value != nil && *old == *src.Value:
		return
	}

	*c = append(*c, Change{Field: field, Old: deref(old), New: deref(src.Value)})
	if src.Value == nil {
		*dst = nil
		return
	}
	v := *src.Value
	*dst = &v
}

// setDate stores calendar dates at UTC midnight so range queries compare
// like with like across drivers.
func setDate(c *changeSet, field string, dst **time.Time, src Optional[time.Time]) {
	if !src.Set {
		return
	}
	var next *time.Time
	if src.Value != nil {
		d := validation.DateOnly(*src.Value)
		next = &d
	}
	if sameDate(*dst, next) {
		return
	}
	*c = append(*c, Change{Field: field, Old: formatDate(*dst), New: formatDate(next)})
	*dst = next
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return validation.DateOnly(*a).Equal(validation.DateOnly(*b))
}

func formatDate(d *time.Time) interface{} {
	if d == nil {
		return nil
	}
	return d.Format(validation.DateLayout)
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
