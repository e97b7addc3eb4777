// Package filter selects candidate videos by visibility, publication window,
// and duration. Predicates are pure and evaluated in a fixed order so a
// rejection always has a single reason.
package filter

import (
	"time"

	"ytfetch/youtube"
)

// Reason identifies which predicate rejected a candidate.
type Reason string

const (
	ReasonPrivacy  Reason = "not_public"
	ReasonDate     Reason = "outside_date_range"
	ReasonDuration Reason = "duration_out_of_bounds"
)

// Criteria holds the acceptance predicates for one run.
type Criteria struct {
	// Now anchors the date window.
	Now time.Time

	// MonthsBack is the calendar-month lookback. Subtraction follows
	// time.AddDate normalization (Mar 31 minus 1 month lands on Mar 3).
	MonthsBack int

	// MinDuration and MaxDuration bound the video length in seconds.
	// Zero means unbounded on that side.
	MinDuration int
	MaxDuration int
}

// Cutoff returns the earliest acceptable publication time.
func (c Criteria) Cutoff() time.Time {
	return c.Now.AddDate(0, -c.MonthsBack, 0)
}

// Check evaluates the predicates in order: privacy, date window, duration.
// It returns whether the video is accepted and, if not, the rejection reason.
func (c Criteria) Check(v youtube.Video) (bool, Reason) {
	if v.Privacy != youtube.PrivacyPublic {
		return false, ReasonPrivacy
	}
	if v.Published.Before(c.Cutoff()) || v.Published.After(c.Now) {
		return false, ReasonDate
	}
	if c.MinDuration > 0 && v.Duration < c.MinDuration {
		return false, ReasonDuration
	}
	if c.MaxDuration > 0 && v.Duration > c.MaxDuration {
		return false, ReasonDuration
	}
	return true, ""
}

// Apply filters candidates in order, returning the accepted subset and a
// tally of rejections by reason. An empty accepted set is not an error.
func Apply(videos []youtube.Video, c Criteria) ([]youtube.Video, map[Reason]int) {
	accepted := make([]youtube.Video, 0, len(videos))
	rejected := make(map[Reason]int)

	for _, v := range videos {
		ok, reason := c.Check(v)
		if !ok {
			rejected[reason]++
			continue
		}
		accepted = append(accepted, v)
	}
	return accepted, rejected
}
