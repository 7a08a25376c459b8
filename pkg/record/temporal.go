package record

import (
	"fmt"
	"strings"
	"time"
)

const (
	isoSecondsLayout = "2006-01-02T15:04:05"
	isoDateLayout    = "2006-01-02"
	isoOffsetLayout  = "-07:00"
)

// textLayouts are the textual date-time forms accepted for temporal
// fields. Fractional seconds are accepted by every layout when parsing.
var textLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
}

// FormatISO renders t as ISO-8601: YYYY-MM-DDTHH:MM:SS, then .ffffff when
// the sub-second part is non-zero, then ±HH:MM when the offset from UTC is
// non-zero. Precision below one microsecond is dropped.
func FormatISO(t time.Time) string {
	var sb strings.Builder
	sb.WriteString(t.Format(isoSecondsLayout))
	if us := t.Nanosecond() / 1000; us != 0 {
		fmt.Fprintf(&sb, ".%06d", us)
	}
	if _, offset := t.Zone(); offset != 0 {
		sb.WriteString(t.Format(isoOffsetLayout))
	}
	return sb.String()
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ParseTemporal parses a textual date or date-time. dateOnly reports that
// s carried no time of day.
func ParseTemporal(s string) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, true
		}
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

// isZeroDate reports MySQL's "zero" dates, which carry no instant.
func isZeroDate(s string) bool {
	return strings.HasPrefix(s, "0000-00-00")
}

// temporalValue converts a scanned value of a temporal field to its
// ISO-8601 text. Values that are neither times nor parseable text are
// returned unchanged.
func temporalValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return FormatISO(x)
	case string:
		if isZeroDate(x) {
			return nil
		}
		t, dateOnly, ok := ParseTemporal(x)
		if !ok {
			return x
		}
		if dateOnly {
			return FormatDate(t)
		}
		return FormatISO(t)
	default:
		return v
	}
}

// NormalizeTemporal rewrites the named fields of rec to ISO-8601 text.
// Null fields stay null and absent fields are ignored; every other field
// passes through untouched.
func NormalizeTemporal(rec *Record, names ...string) {
	for _, name := range names {
		v, ok := rec.Get(name)
		if !ok || v == nil {
			continue
		}
		rec.Set(name, temporalValue(v))
	}
}
