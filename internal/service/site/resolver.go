package site

import (
	"context"
	"time"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
)

type rosterResolver struct {
	siteRepo site.SiteRepository
}

// NewRosterResolver returns a site.Resolver that matches an employee by the
// free-text roster on each site.
func NewRosterResolver(siteRepo site.SiteRepository) site.Resolver {
	return &rosterResolver{siteRepo: siteRepo}
}

func (r *rosterResolver) ResolveSitesForEmployee(ctx context.Context, userID string, employeeName string, start, end time.Time) ([]site.Site, error) {
	if employeeName == "" || start.After(end) {
		return []site.Site{}, nil
	}

	candidates, err := r.siteRepo.ListByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	matched := make([]site.Site, 0, len(candidates))
	for _, s := range candidates {
		if s.OccursWithin(start, end) && s.HasRosterMember(employeeName) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}
