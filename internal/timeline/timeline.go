// Package timeline derives a traffic-light status from a task's due time.
// The status is computed per request and never stored.
package timeline

import "time"

type Status string

const (
	Red   Status = "red"
	Amber Status = "amber"
	Green Status = "green"
)

// Classify maps the time left until due to a status.
// Ranges are checked in order: <=3h red, <=24h amber, >=72h green,
// anything between 24h and 72h falls through to amber.
func Classify(due, now time.Time) Status {
	hoursRemaining := due.Sub(now).Hours()

	if hoursRemaining <= 3 {
		return Red
	}
	if hoursRemaining <= 24 {
		return Amber
	}
	if hoursRemaining >= 72 {
		return Green
	}
	return Amber
}
