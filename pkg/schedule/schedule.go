// Package schedule evaluates weekly operating hours against a location's
// timezone. A week holds seven slots keyed by weekday index (0 = Sunday),
// each either the literal "closed" or a window "HH:MM-HH:MM". A window whose
// close time is textually ≤ its open time spans midnight into the next day.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Closed marks a weekday slot with no operating hours.
const Closed = "closed"

// Week is a full weekly schedule, indexed by time.Weekday (Sunday = 0).
type Week [7]string

// Status is the outcome of evaluating a schedule at an instant.
type Status struct {
	Open bool
	// Window is the textual slot governing the instant: yesterday's slot
	// when an overnight shift is still running, today's slot otherwise.
	Window string
}

// Evaluate reports whether the location is open at the given instant.
// tzName must be an IANA timezone identifier.
//
// Window boundaries are compared as zero-padded "HH:MM" strings to detect
// overnight slots; the final open/closed decision compares real instants in
// the location's timezone.
func Evaluate(week Week, tzName string, now time.Time) (Status, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Status{}, fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	local := now.In(loc)

	today := int(local.Weekday())
	yesterday := (today + 6) % 7
	wallClock := local.Format("15:04")

	window := week[today]

	// A shift opened yesterday that runs past midnight keeps the location
	// open until its close time, under yesterday's window. A close time of
	// exactly "00:00" closes at midnight and never carries over.
	if slot := week[yesterday]; slot != Closed {
		openAt, closeAt, err := splitWindow(slot)
		if err != nil {
			return Status{}, fmt.Errorf("weekday %d: %w", yesterday, err)
		}
		if closeAt <= openAt && closeAt != "00:00" && wallClock < closeAt {
			return Status{Open: true, Window: slot}, nil
		}
	}

	if window == Closed {
		return Status{Open: false, Window: Closed}, nil
	}

	openStr, closeStr, err := splitWindow(window)
	if err != nil {
		return Status{}, fmt.Errorf("weekday %d: %w", today, err)
	}
	openH, openM, err := parseClock(openStr)
	if err != nil {
		return Status{}, fmt.Errorf("weekday %d: %w", today, err)
	}
	openAt := time.Date(local.Year(), local.Month(), local.Day(), openH, openM, 0, 0, loc)

	var closeAt time.Time
	if closeStr <= openStr {
		// Overnight window opened today: treat close as 24:00 of today.
		closeAt = time.Date(local.Year(), local.Month(), local.Day(), 24, 0, 0, 0, loc)
	} else {
		closeH, closeM, err := parseClock(closeStr)
		if err != nil {
			return Status{}, fmt.Errorf("weekday %d: %w", today, err)
		}
		closeAt = time.Date(local.Year(), local.Month(), local.Day(), closeH, closeM, 0, 0, loc)
	}

	open := !local.Before(openAt) && !local.After(closeAt)
	return Status{Open: open, Window: window}, nil
}

// Valid reports whether s is "closed" or a well-formed "HH:MM-HH:MM" window.
func Valid(s string) bool {
	if s == Closed {
		return true
	}
	openStr, closeStr, err := splitWindow(s)
	if err != nil {
		return false
	}
	if _, _, err := parseClock(openStr); err != nil {
		return false
	}
	if _, _, err := parseClock(closeStr); err != nil {
		return false
	}
	return true
}

func splitWindow(s string) (openStr, closeStr string, err error) {
	openStr, closeStr, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", fmt.Errorf("malformed window %q", s)
	}
	return openStr, closeStr, nil
}

func parseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	return hour, minute, nil
}
