package scalar

import "time"

// Layouts used to render extension kinds into responses.
const (
	TimestampLayout = time.RFC3339Nano
	DateLayout      = time.DateOnly
)

// timestampParseLayouts are tried in order when a timestamp arrives as text,
// from an argument or from a driver that stores times as strings.
var timestampParseLayouts = [...]string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampParseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	// Drivers may hand back a DATE column as midnight of a timestamp.
	if t, ok := parseTimestamp(s); ok {
		return truncateDate(t), true
	}
	return time.Time{}, false
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
