package aggregator

import (
	"time"

	"github.com/guilherme-santos/calmeetings/internal"
)

func describeRange(r internal.DateRange) string {
	if r.IsZero() {
		return "always"
	}
	return formatBound(r.Start, "-inf") + ".." + formatBound(r.End, "+inf")
}

func formatBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format(time.RFC3339)
}
