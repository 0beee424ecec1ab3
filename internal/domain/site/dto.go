package site

import (
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

type CreateSiteRequest struct {
	Name          string   `json:"name"`
	ClientName    *string  `json:"client_name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	SiteDate      string   `json:"site_date"`
	EmployeeNames string   `json:"employee_names"`
	EmployeeIDs   []string `json:"employee_ids,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r *CreateSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	validator.RequiredDate(&errs, "site_date", r.SiteDate)
	validateEmployeeIDs(&errs, r.EmployeeIDs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSiteRequest applies only the fields that are set. A non-nil
// EmployeeIDs replaces the whole assignment list.
type UpdateSiteRequest struct {
	ID            string    `json:"-"`
	Name          *string   `json:"name,omitempty"`
	ClientName    *string   `json:"client_name,omitempty"`
	Address       *string   `json:"address,omitempty"`
	SiteDate      *string   `json:"site_date,omitempty"`
	EmployeeNames *string   `json:"employee_names,omitempty"`
	EmployeeIDs   *[]string `json:"employee_ids,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

func (r *UpdateSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be blank"})
	}
	if r.SiteDate != nil {
		validator.RequiredDate(&errs, "site_date", *r.SiteDate)
	}
	if r.EmployeeIDs != nil {
		validateEmployeeIDs(&errs, *r.EmployeeIDs)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasColumnChanges reports whether any sites column would be updated.
func (r *UpdateSiteRequest) HasColumnChanges() bool {
	return r.Name != nil || r.ClientName != nil || r.Address != nil || r.SiteDate != nil ||
		r.EmployeeNames != nil || r.Notes != nil
}

func validateEmployeeIDs(errs *validator.ValidationErrors, ids []string) {
	for _, id := range ids {
		if !validator.IsValidUUID(id) {
			*errs = append(*errs, validator.ValidationError{Field: "employee_ids", Message: "each employee id must be a valid UUID"})
			return
		}
	}
}

type SiteFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Search    *string `json:"search,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *SiteFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.OptionalDate(&errs, "start_date", f.StartDate)
	validator.OptionalDate(&errs, "end_date", f.EndDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SiteResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ClientName    *string `json:"client_name,omitempty"`
	Address       *string `json:"address,omitempty"`
	SiteDate      string  `json:"site_date"`
	EmployeeNames string  `json:"employee_names"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type AssignmentResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

type SiteDetailResponse struct {
	SiteResponse
	Assignments []AssignmentResponse `json:"assignments"`
}

type ListSiteResponse struct {
	Data       []SiteResponse `json:"data"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}
