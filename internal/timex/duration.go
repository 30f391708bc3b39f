// Package timex provides a time.Duration wrapper for JSON config files.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration unmarshals either from a duration string ("30s", "720h") or from
// integer nanoseconds, and marshals back to the string form.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(value)
	default:
		return errors.New("invalid duration")
	}

	return nil
}
