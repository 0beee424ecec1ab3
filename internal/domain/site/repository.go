package site

import (
	"context"
	"time"
)

// SiteRepository defines data access methods for sites.
// All methods take userID to keep one user's sites invisible to another.
type SiteRepository interface {
	GetByID(ctx context.Context, id string, userID string) (Site, error)
	List(ctx context.Context, userID string, filter SiteFilter) ([]Site, int64, error)
	// ListByDateRange returns sites dated within [start, end] ordered by
	// site_date, created_at, id.
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]Site, error)
	Create(ctx context.Context, newSite Site) (Site, error)
	Update(ctx context.Context, userID string, req UpdateSiteRequest) (Site, error)
	Delete(ctx context.Context, id string, userID string) error

	// Assignments
	ReplaceAssignments(ctx context.Context, siteID string, userID string, employeeIDs []string) error
	GetAssignments(ctx context.Context, siteID string, userID string) ([]Assignment, error)
}

// Resolver finds the sites an employee worked during a period. Payroll depends
// on this interface only, so the roster text match can be replaced by the
// site_employees relation without touching the calculator.
type Resolver interface {
	ResolveSitesForEmployee(ctx context.Context, userID string, employeeName string, start, end time.Time) ([]Site, error)
}
