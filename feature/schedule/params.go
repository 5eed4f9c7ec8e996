package schedule

import (
	"fmt"
	"strings"
	"time"
)

// parseBound reads an RFC 3339 timestamp or a YYYY-MM-DD date, the latter
// taken as midnight in loc.
func parseBound(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", v)
}
