package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NotificationType tags what kind of event a notification describes.
type NotificationType string

const (
	NotificationJobPosted           NotificationType = "job_posted"
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationStatus   NotificationType = "application_status"
)

// Notification is a server-generated record of an event relevant to the
// signed-in user. The client only reads it; the backend owns every field.
type Notification struct {
	// ID is the opaque, immutable identifier assigned by the backend.
	ID ID `json:"id"`

	// Type selects how RelatedID is interpreted and where a click leads.
	Type NotificationType `json:"type"`

	// RelatedID points at a job (job_posted, application_status) or an
	// application (application_received).
	RelatedID RelatedID `json:"related_id"`

	// Title is the short heading shown in the list.
	Title string `json:"title"`

	// Message is the body text shown under the title.
	Message string `json:"message"`

	// IsRead is flipped by the backend on mark-read / mark-all-read.
	IsRead bool `json:"is_read"`

	// CreatedAt is only used to render a relative timestamp.
	CreatedAt Timestamp `json:"created_at"`
}

// CountUnread returns how many notifications in the list are unread.
func CountUnread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// ID is an opaque identifier that may arrive as a JSON number or string.
type ID string

// UnmarshalJSON accepts 17, "17" and "abc".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as sent by the backend.
func (id ID) String() string { return string(id) }

// RelatedID is a nullable integer foreign key. Valid is false when the
// backend sent null or something that is not a number.
type RelatedID struct {
	Value int64
	Valid bool
}

// NewRelatedID returns a valid RelatedID holding v.
func NewRelatedID(v int64) RelatedID {
	return RelatedID{Value: v, Valid: true}
}

// Navigable reports whether the id can be used as a navigation target.
// Zero is treated the same as null: the backend zeroes the reference when
// the target entity is deleted.
func (r RelatedID) Navigable() bool {
	return r.Valid && r.Value != 0
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// decodes to an invalid id rather than an error so a single malformed
// entry never poisons the whole list.
func (r *RelatedID) UnmarshalJSON(data []byte) error {
	*r = RelatedID{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*r = NewRelatedID(v)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil &&
		!math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) {
		*r = NewRelatedID(int64(f))
	}
	return nil
}

// MarshalJSON writes null for invalid ids.
func (r RelatedID) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(r.Value, 10)), nil
}

// String renders the id for logs.
func (r RelatedID) String() string {
	if !r.Valid {
		return "null"
	}
	return strconv.FormatInt(r.Value, 10)
}

// timestampLayouts lists the formats the backend has been seen to emit.
// Flask's jsonify uses RFC 1123; isoformat() omits the zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// Timestamp is a time.Time that tolerates the backend's date formats.
// Zone-less values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses any of timestampLayouts.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseTimestamp parses s with the first matching layout.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
