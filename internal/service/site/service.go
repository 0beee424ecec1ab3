package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type SiteServiceImpl struct {
	transactor database.Transactor
	siteRepo   site.SiteRepository
	logger     *slog.Logger
}

func NewSiteService(transactor database.Transactor, siteRepo site.SiteRepository, logger *slog.Logger) site.SiteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteServiceImpl{
		transactor: transactor,
		siteRepo:   siteRepo,
		logger:     logger,
	}
}

// GetSite implements site.SiteService.
func (s *SiteServiceImpl) GetSite(ctx context.Context, userID string, id string) (site.SiteDetailResponse, error) {
	if userID == "" {
		return site.SiteDetailResponse{}, auth.ErrUnauthorized
	}
	if !validator.IsValidUUID(id) {
		return site.SiteDetailResponse{}, site.ErrSiteNotFound
	}

	var (
		siteData    site.Site
		assignments []site.Assignment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		siteData, err = s.siteRepo.GetByID(gCtx, id, userID)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.siteRepo.GetAssignments(gCtx, id, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return site.SiteDetailResponse{}, err
	}

	return mapToDetailResponse(siteData, assignments), nil
}

// ListSites implements site.SiteService.
func (s *SiteServiceImpl) ListSites(ctx context.Context, userID string, filter site.SiteFilter) (site.ListSiteResponse, error) {
	if userID == "" {
		return site.ListSiteResponse{}, auth.ErrUnauthorized
	}
	if err := filter.Validate(); err != nil {
		return site.ListSiteResponse{}, err
	}

	sites, totalCount, err := s.siteRepo.List(ctx, userID, filter)
	if err != nil {
		return site.ListSiteResponse{}, err
	}

	data := make([]site.SiteResponse, 0, len(sites))
	for _, st := range sites {
		data = append(data, mapToResponse(st))
	}

	return site.ListSiteResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// CreateSite implements site.SiteService.
func (s *SiteServiceImpl) CreateSite(ctx context.Context, userID string, req site.CreateSiteRequest) (site.SiteDetailResponse, error) {
	if userID == "" {
		return site.SiteDetailResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return site.SiteDetailResponse{}, err
	}
	siteDate, _ := validator.IsValidDate(req.SiteDate)

	var (
		created     site.Site
		assignments []site.Assignment
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.siteRepo.Create(txCtx, site.Site{
			UserID:        userID,
			Name:          req.Name,
			ClientName:    req.ClientName,
			Address:       req.Address,
			SiteDate:      siteDate,
			EmployeeNames: req.EmployeeNames,
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}

		if len(req.EmployeeIDs) > 0 {
			if err := s.siteRepo.ReplaceAssignments(txCtx, created.ID, userID, req.EmployeeIDs); err != nil {
				return err
			}
		}

		assignments, err = s.siteRepo.GetAssignments(txCtx, created.ID, userID)
		return err
	})
	if err != nil {
		return site.SiteDetailResponse{}, err
	}

	s.logger.InfoContext(ctx, "site created",
		slog.String("site_id", created.ID),
		slog.String("site_date", created.SiteDate.Format(validator.DateLayout)),
	)

	return mapToDetailResponse(created, assignments), nil
}

// UpdateSite implements site.SiteService.
func (s *SiteServiceImpl) UpdateSite(ctx context.Context, userID string, req site.UpdateSiteRequest) (site.SiteDetailResponse, error) {
	if userID == "" {
		return site.SiteDetailResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return site.SiteDetailResponse{}, err
	}

	var (
		updated     site.Site
		assignments []site.Assignment
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if req.HasColumnChanges() {
			updated, err = s.siteRepo.Update(txCtx, userID, req)
		} else {
			updated, err = s.siteRepo.GetByID(txCtx, req.ID, userID)
		}
		if err != nil {
			return err
		}

		if req.EmployeeIDs != nil {
			if err := s.siteRepo.ReplaceAssignments(txCtx, updated.ID, userID, *req.EmployeeIDs); err != nil {
				return err
			}
		}

		assignments, err = s.siteRepo.GetAssignments(txCtx, updated.ID, userID)
		return err
	})
	if err != nil {
		return site.SiteDetailResponse{}, err
	}

	return mapToDetailResponse(updated, assignments), nil
}

// DeleteSite implements site.SiteService.
func (s *SiteServiceImpl) DeleteSite(ctx context.Context, userID string, id string) error {
	if userID == "" {
		return auth.ErrUnauthorized
	}
	if !validator.IsValidUUID(id) {
		return site.ErrSiteNotFound
	}
	return s.siteRepo.Delete(ctx, id, userID)
}

func mapToResponse(st site.Site) site.SiteResponse {
	return site.SiteResponse{
		ID:            st.ID,
		Name:          st.Name,
		ClientName:    st.ClientName,
		Address:       st.Address,
		SiteDate:      st.SiteDate.Format(validator.DateLayout),
		EmployeeNames: st.EmployeeNames,
		Notes:         st.Notes,
		CreatedAt:     st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     st.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToDetailResponse(st site.Site, assignments []site.Assignment) site.SiteDetailResponse {
	resp := site.SiteDetailResponse{
		SiteResponse: mapToResponse(st),
		Assignments:  make([]site.AssignmentResponse, 0, len(assignments)),
	}
	for _, a := range assignments {
		name := ""
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		resp.Assignments = append(resp.Assignments, site.AssignmentResponse{
			EmployeeID:   a.EmployeeID,
			EmployeeName: name,
		})
	}
	return resp
}
