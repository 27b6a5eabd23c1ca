package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a time.Time that accepts the wire's mixed representations.
// Servers and optimistic local echoes disagree on the format: creation
// times arrive as RFC3339 strings, epoch seconds, or epoch milliseconds.
// All of them normalize to one comparable instant.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a wire timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, perr := time.Parse(layout, s); perr == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("unrecognized time string %q", s)
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected time string or epoch number, got %s", data)
	}
	// Epoch seconds run out of 12 digits around the year 33658; anything
	// that large is milliseconds.
	if n >= 1e12 {
		t.Time = time.UnixMilli(int64(n)).UTC()
	} else {
		t.Time = time.Unix(int64(n), 0).UTC()
	}
	return nil
}
