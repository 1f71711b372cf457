package draft

import (
	"fmt"
	"strconv"
	"strings"
)

// Field holds a numeric form value as raw text so that an in-progress edit
// (including a cleared input) survives without being coerced to zero.
// Coercion happens once, at payload build time.
type Field struct {
	raw string
}

// IntField returns a Field holding n.
func IntField(n int) Field {
	return Field{raw: strconv.Itoa(n)}
}

// FloatField returns a Field holding f.
func FloatField(f float64) Field {
	return Field{raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Set replaces the raw value.
func (f *Field) Set(raw string) {
	f.raw = strings.TrimSpace(raw)
}

// Empty reports whether the field holds no value.
func (f Field) Empty() bool {
	return f.raw == ""
}

// String returns the raw text, suitable for redisplay in a form.
func (f Field) String() string {
	return f.raw
}

// Int coerces the field to a non-negative integer.
func (f Field) Int() (int, error) {
	if f.raw == "" {
		return 0, fmt.Errorf("value is empty")
	}
	n, err := strconv.Atoi(f.raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", f.raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

// Float coerces the field to a non-negative number.
func (f Field) Float() (float64, error) {
	if f.raw == "" {
		return 0, fmt.Errorf("value is empty")
	}
	v, err := strconv.ParseFloat(f.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", f.raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%v is negative", v)
	}
	return v, nil
}
