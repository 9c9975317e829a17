package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateKind records which wire shape a DateValue was decoded from.
type DateKind uint8

const (
	DateAbsent DateKind = iota
	DateNative
	DateISO
	DateEpoch
	DateEnvelope
)

func (k DateKind) String() string {
	switch k {
	case DateNative:
		return "native"
	case DateISO:
		return "iso"
	case DateEpoch:
		return "epoch"
	case DateEnvelope:
		return "envelope"
	default:
		return "absent"
	}
}

// DateValue is a publication timestamp that tolerates every shape the
// article documents use: a native date, an ISO string, a numeric epoch in
// milliseconds, or an extended-JSON envelope ({"$date": ...}). Values that
// cannot be interpreted decode as absent rather than failing the document.
type DateValue struct {
	Kind DateKind
	At   time.Time
}

// DateFromTime wraps a native timestamp.
func DateFromTime(t time.Time) DateValue {
	if t.IsZero() {
		return DateValue{}
	}

	return DateValue{Kind: DateNative, At: t.UTC()}
}

// IsZero reports whether the value is absent.
func (d DateValue) IsZero() bool {
	return d.Kind == DateAbsent
}

// Time returns the normalized instant and whether one is present.
func (d DateValue) Time() (time.Time, bool) {
	if d.Kind == DateAbsent {
		return time.Time{}, false
	}

	return d.At, true
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// envelopeString handles {"$date": "<string>"}: a run of digits is an epoch
// in milliseconds (relaxed extended JSON), anything else an ISO string.
func envelopeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromMillis(ms), true
	}

	return parseISO(s)
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	if d.Kind == DateAbsent {
		return []byte("null"), nil
	}

	return json.Marshal(d.At.UTC().Format(time.RFC3339Nano))
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	*d = DateValue{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		if t, ok := parseISO(s); ok {
			*d = DateValue{Kind: DateISO, At: t}
		}

		return nil
	case '{':
		var env struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}

		if t, ok := decodeJSONEnvelope(env.Date); ok {
			*d = DateValue{Kind: DateEnvelope, At: t}
		}

		return nil
	default:
		ms, ok := jsonMillis(data)
		if ok {
			*d = DateValue{Kind: DateEpoch, At: fromMillis(ms)}
		}

		return nil
	}
}

func decodeJSONEnvelope(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}

		return envelopeString(s)
	case '{':
		var long struct {
			NumberLong string `json:"$numberLong"`
		}
		if err := json.Unmarshal(raw, &long); err != nil {
			return time.Time{}, false
		}

		ms, err := strconv.ParseInt(strings.TrimSpace(long.NumberLong), 10, 64)
		if err != nil {
			return time.Time{}, false
		}

		return fromMillis(ms), true
	default:
		ms, ok := jsonMillis(raw)
		if !ok {
			return time.Time{}, false
		}

		return fromMillis(ms), true
	}
}

func jsonMillis(data []byte) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, false
	}

	if ms, err := n.Int64(); err == nil {
		return ms, true
	}

	f, err := n.Float64()
	if err != nil {
		return 0, false
	}

	return int64(f), true
}

func (d DateValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.Kind == DateAbsent {
		return bsontype.Null, nil, nil
	}

	return bson.MarshalValue(primitive.NewDateTimeFromTime(d.At))
}

func (d *DateValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*d = DateValue{}
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Null, bsontype.Undefined:
		return nil
	case bsontype.DateTime:
		*d = DateValue{Kind: DateNative, At: fromMillis(raw.DateTime())}
	case bsontype.String:
		if parsed, ok := parseISO(raw.StringValue()); ok {
			*d = DateValue{Kind: DateISO, At: parsed}
		}
	case bsontype.Int32:
		*d = DateValue{Kind: DateEpoch, At: fromMillis(int64(raw.Int32()))}
	case bsontype.Int64:
		*d = DateValue{Kind: DateEpoch, At: fromMillis(raw.Int64())}
	case bsontype.Double:
		*d = DateValue{Kind: DateEpoch, At: fromMillis(int64(raw.Double()))}
	case bsontype.EmbeddedDocument:
		inner, err := raw.Document().LookupErr("$date")
		if err != nil {
			return nil
		}

		if parsed, ok := bsonEnvelope(inner); ok {
			*d = DateValue{Kind: DateEnvelope, At: parsed}
		}
	}

	return nil
}

func bsonEnvelope(inner bson.RawValue) (time.Time, bool) {
	switch inner.Type {
	case bsontype.String:
		return envelopeString(inner.StringValue())
	case bsontype.DateTime:
		return fromMillis(inner.DateTime()), true
	case bsontype.Int32:
		return fromMillis(int64(inner.Int32())), true
	case bsontype.Int64:
		return fromMillis(inner.Int64()), true
	case bsontype.Double:
		return fromMillis(int64(inner.Double())), true
	case bsontype.EmbeddedDocument:
		long, err := inner.Document().LookupErr("$numberLong")
		if err != nil || long.Type != bsontype.String {
			return time.Time{}, false
		}

		ms, err := strconv.ParseInt(strings.TrimSpace(long.StringValue()), 10, 64)
		if err != nil {
			return time.Time{}, false
		}

		return fromMillis(ms), true
	default:
		return time.Time{}, false
	}
}
