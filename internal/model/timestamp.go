package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are the wire formats the backend is known to send.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a tolerant JSON time. A zero Timestamp means the backend
// sent nothing usable and renders as "Unknown".
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s with every known layout. Date-only values are
// taken as UTC midnight.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Valid reports whether the timestamp carries a time.
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// Or returns t if valid, otherwise fallback.
func (t Timestamp) Or(fallback Timestamp) Timestamp {
	if t.Valid() {
		return t
	}
	return fallback
}

// UnmarshalJSON accepts strings in any known layout, null and "".
// Unparseable strings decode to the zero Timestamp instead of failing the
// whole collection.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = parsed
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// DateString formats the timestamp as an HTML date input value.
func (t Timestamp) DateString() string {
	if !t.Valid() {
		return ""
	}
	return t.Time.Format("2006-01-02")
}
