// Package timex provides a time.Duration that reads naturally from JSON.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Duration accepts either a Go duration string ("3s", "1m30s") or an
// integer number of nanoseconds when unmarshalled from JSON, and always
// marshals back as a string.
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
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}
