// Package morning computes the delay until the next morning boundary.
package morning

import "time"

// DefaultHour is the hour of day breaks resume after "until-morning".
const DefaultHour = 6

// Resolver reports the time until the next Hour:00 in local time.
type Resolver struct {
	Hour int
	Now  func() time.Time
}

// New returns a resolver for hour using the wall clock.
// Hours outside 0-23 fall back to DefaultHour.
func New(hour int) *Resolver {
	if hour < 0 || hour > 23 {
		hour = DefaultHour
	}
	return &Resolver{Hour: hour, Now: time.Now}
}

// UntilMorning returns the time until the next morning boundary. At or after
// today's boundary, tomorrow's is used.
func (resolver *Resolver) UntilMorning() time.Duration {
	now := time.Now()
	if resolver.Now != nil {
		now = resolver.Now()
	}
	return Next(now, resolver.Hour).Sub(now)
}

// Next returns the first hour:00 in now's location strictly after now.
func Next(now time.Time, hour int) time.Time {
	boundary := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !now.Before(boundary) {
		boundary = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, now.Location())
	}
	return boundary
}
