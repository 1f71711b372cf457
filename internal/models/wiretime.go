package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// WireTime handles the workout API timestamp format: minute-precision local
// wall-clock time with no offset ("2006-01-02T15:04"), matching what a
// browser datetime-local input produces. Parsing also accepts second
// precision and RFC 3339, since stored workouts come back in either shape.
type WireTime struct {
	time.Time
}

const (
	WireTimeLayout       = "2006-01-02T15:04"
	wireTimeSecondLayout = "2006-01-02T15:04:05"
)

func (t *WireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

// MarshalJSON emits local wall-clock time truncated to the minute. The remote
// API stores the string verbatim, so the offset adjustment the original
// client applied reduces to formatting in the local zone.
func (t WireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t WireTime) String() string {
	return t.Local().Format(WireTimeLayout)
}

// Parse parses a wire time string, trying minute precision first, then
// second precision, then RFC 3339.
func (t *WireTime) Parse(s string) error {
	for _, layout := range []string{WireTimeLayout, wireTimeSecondLayout, time.RFC3339} {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse wire time %q", s)
}

// ParseWireTime parses a wire time string into a time.Time.
func ParseWireTime(s string) (time.Time, error) {
	var t WireTime
	if err := t.Parse(s); err != nil {
		return time.Time{}, err
	}
	return t.Time, nil
}
