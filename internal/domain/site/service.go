package site

import "context"

type SiteService interface {
	GetSite(ctx context.Context, userID string, id string) (SiteDetailResponse, error)
	ListSites(ctx context.Context, userID string, filter SiteFilter) (ListSiteResponse, error)
	CreateSite(ctx context.Context, userID string, req CreateSiteRequest) (SiteDetailResponse, error)
	UpdateSite(ctx context.Context, userID string, req UpdateSiteRequest) (SiteDetailResponse, error)
	DeleteSite(ctx context.Context, userID string, id string) error
}
