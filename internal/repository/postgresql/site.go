package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
)

type siteRepositoryImpl struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepositoryImpl{db: db}
}

const siteColumns = `id, user_id, name, client_name, address, site_date, employee_names, notes, created_at, updated_at`

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.ClientName, &s.Address, &s.SiteDate,
		&s.EmployeeNames, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func collectSites(rows pgx.Rows) ([]site.Site, error) {
	defer rows.Close()

	sites := []site.Site{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// GetByID implements site.SiteRepository.
func (r *siteRepositoryImpl) GetByID(ctx context.Context, id string, userID string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSite(q.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, database.StorageError("get site", err)
	}
	return s, nil
}

// List implements site.SiteRepository.
func (r *siteRepositoryImpl) List(ctx context.Context, userID string, filter site.SiteFilter) ([]site.Site, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := " FROM sites WHERE user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.StartDate != nil {
		whereClause += fmt.Sprintf(" AND site_date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		whereClause += fmt.Sprintf(" AND site_date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR client_name ILIKE $%d OR employee_names ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Search))+"%")
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, 0, database.StorageError("count sites", err)
	}

	query := "SELECT " + siteColumns + whereClause + " ORDER BY site_date DESC, created_at DESC, id DESC"
	if filter.Limit > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, database.StorageError("list sites", err)
	}
	sites, err := collectSites(rows)
	if err != nil {
		return nil, 0, database.StorageError("scan sites", err)
	}
	return sites, totalCount, nil
}

// ListByDateRange implements site.SiteRepository.
func (r *siteRepositoryImpl) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE user_id = $1 AND site_date BETWEEN $2::date AND $3::date
		ORDER BY site_date ASC, created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, database.StorageError("list sites by date range", err)
	}
	sites, err := collectSites(rows)
	if err != nil {
		return nil, database.StorageError("scan sites", err)
	}
	return sites, nil
}

// Create implements site.SiteRepository.
func (r *siteRepositoryImpl) Create(ctx context.Context, newSite site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sites (user_id, name, client_name, address, site_date, employee_names, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + siteColumns

	created, err := scanSite(q.QueryRow(ctx, query,
		newSite.UserID, newSite.Name, newSite.ClientName, newSite.Address,
		newSite.SiteDate, newSite.EmployeeNames, newSite.Notes,
	))
	if err != nil {
		return site.Site{}, database.StorageError("create site", err)
	}
	return created, nil
}

// Update implements site.SiteRepository.
func (r *siteRepositoryImpl) Update(ctx context.Context, userID string, req site.UpdateSiteRequest) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, userID}
	argIdx := 3

	add := func(column string, value interface{}, cast string) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d%s", column, argIdx, cast))
		args = append(args, value)
		argIdx++
	}
	if req.Name != nil {
		add("name", *req.Name, "")
	}
	if req.ClientName != nil {
		add("client_name", *req.ClientName, "")
	}
	if req.Address != nil {
		add("address", *req.Address, "")
	}
	if req.SiteDate != nil {
		add("site_date", *req.SiteDate, "::date")
	}
	if req.EmployeeNames != nil {
		add("employee_names", *req.EmployeeNames, "")
	}
	if req.Notes != nil {
		add("notes", *req.Notes, "")
	}

	query := fmt.Sprintf(`
		UPDATE sites SET %s
		WHERE id = $1 AND user_id = $2
		RETURNING %s
	`, strings.Join(setParts, ", "), siteColumns)

	updated, err := scanSite(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, database.StorageError("update site", err)
	}
	return updated, nil
}

// Delete implements site.SiteRepository.
func (r *siteRepositoryImpl) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM sites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return database.StorageError("delete site", err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrSiteNotFound
	}
	return nil
}

// ReplaceAssignments implements site.SiteRepository. Every employee must
// belong to userID; run it inside a transaction so a rejected list leaves the
// previous assignments intact.
func (r *siteRepositoryImpl) ReplaceAssignments(ctx context.Context, siteID string, userID string, employeeIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `
		DELETE FROM site_employees se
		USING sites s
		WHERE se.site_id = s.id AND s.id = $1 AND s.user_id = $2
	`, siteID, userID); err != nil {
		return database.StorageError("clear site assignments", err)
	}

	if len(employeeIDs) == 0 {
		return nil
	}

	tag, err := q.Exec(ctx, `
		INSERT INTO site_employees (site_id, employee_id)
		SELECT s.id, e.id
		FROM sites s
		JOIN employees e ON e.user_id = s.user_id
		WHERE s.id = $1 AND s.user_id = $3 AND e.id = ANY($2::uuid[])
		ON CONFLICT DO NOTHING
	`, siteID, uniqueStrings(employeeIDs), userID)
	if err != nil {
		return database.StorageError("insert site assignments", err)
	}
	if tag.RowsAffected() != int64(len(uniqueStrings(employeeIDs))) {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// GetAssignments implements site.SiteRepository.
func (r *siteRepositoryImpl) GetAssignments(ctx context.Context, siteID string, userID string) ([]site.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT se.site_id, se.employee_id, e.name
		FROM site_employees se
		JOIN sites s ON se.site_id = s.id
		JOIN employees e ON se.employee_id = e.id
		WHERE se.site_id = $1 AND s.user_id = $2
		ORDER BY e.name ASC, e.id ASC
	`, siteID, userID)
	if err != nil {
		return nil, database.StorageError("get site assignments", err)
	}
	defer rows.Close()

	assignments := []site.Assignment{}
	for rows.Next() {
		var a site.Assignment
		if err := rows.Scan(&a.SiteID, &a.EmployeeID, &a.EmployeeName); err != nil {
			return nil, database.StorageError("scan site assignment", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, database.StorageError("get site assignments", err)
	}
	return assignments, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
