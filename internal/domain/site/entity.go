package site

import (
	"strings"
	"time"
)

// Site is a dated work engagement. EmployeeNames is the free-text roster of
// dispatched employees as typed in by the user, e.g. "Tanaka, Suzuki".
type Site struct {
	ID            string
	UserID        string
	Name          string
	ClientName    *string
	Address       *string
	SiteDate      time.Time
	EmployeeNames string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assignment links a site to an employee record (site_employees table).
type Assignment struct {
	SiteID     string
	EmployeeID string

	// Joined fields
	EmployeeName *string
}

// HasRosterMember reports whether the roster text contains name.
// The test is a case-sensitive substring match, so "Sato" also matches a
// roster listing "Satoshi". An empty name matches nothing.
func (s Site) HasRosterMember(name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(s.EmployeeNames, name)
}

// OccursWithin reports whether the site date falls in [start, end], both ends
// inclusive, comparing calendar dates only.
func (s Site) OccursWithin(start, end time.Time) bool {
	d := dateOnly(s.SiteDate)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
