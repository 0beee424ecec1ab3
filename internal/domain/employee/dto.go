package employee

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

// maxRatePlaces matches the scale of the stored rate columns.
const maxRatePlaces = 2

type CreateEmployeeRequest struct {
	Name              string           `json:"name"`
	PhoneNumber       *string          `json:"phone_number,omitempty"`
	UnitPay           *decimal.Decimal `json:"unit_pay,omitempty"`
	HourlyOvertimePay *decimal.Decimal `json:"hourly_overtime_pay,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	if validator.IsNegative(r.UnitPay) {
		errs = append(errs, validator.ValidationError{Field: "unit_pay", Message: "must be non-negative"})
	}
	if validator.ExceedsPlaces(r.UnitPay, maxRatePlaces) {
		errs = append(errs, validator.ValidationError{Field: "unit_pay", Message: "must have at most 2 decimal places"})
	}
	if validator.IsNegative(r.HourlyOvertimePay) {
		errs = append(errs, validator.ValidationError{Field: "hourly_overtime_pay", Message: "must be non-negative"})
	}
	if validator.ExceedsPlaces(r.HourlyOvertimePay, maxRatePlaces) {
		errs = append(errs, validator.ValidationError{Field: "hourly_overtime_pay", Message: "must have at most 2 decimal places"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest applies only the fields that are set.
type UpdateEmployeeRequest struct {
	ID                string           `json:"-"`
	Name              *string          `json:"name,omitempty"`
	PhoneNumber       *string          `json:"phone_number,omitempty"`
	UnitPay           *decimal.Decimal `json:"unit_pay,omitempty"`
	HourlyOvertimePay *decimal.Decimal `json:"hourly_overtime_pay,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be blank"})
	}
	if r.Name != nil && len(*r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	if validator.IsNegative(r.UnitPay) {
		errs = append(errs, validator.ValidationError{Field: "unit_pay", Message: "must be non-negative"})
	}
	if validator.ExceedsPlaces(r.UnitPay, maxRatePlaces) {
		errs = append(errs, validator.ValidationError{Field: "unit_pay", Message: "must have at most 2 decimal places"})
	}
	if validator.IsNegative(r.HourlyOvertimePay) {
		errs = append(errs, validator.ValidationError{Field: "hourly_overtime_pay", Message: "must be non-negative"})
	}
	if validator.ExceedsPlaces(r.HourlyOvertimePay, maxRatePlaces) {
		errs = append(errs, validator.ValidationError{Field: "hourly_overtime_pay", Message: "must have at most 2 decimal places"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsEmpty reports whether the request would change nothing.
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.PhoneNumber == nil && r.UnitPay == nil && r.HourlyOvertimePay == nil && r.Notes == nil
}

type EmployeeFilter struct {
	Search *string `json:"search,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

type EmployeeResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	PhoneNumber       *string          `json:"phone_number,omitempty"`
	UnitPay           *decimal.Decimal `json:"unit_pay"`
	HourlyOvertimePay *decimal.Decimal `json:"hourly_overtime_pay"`
	Notes             *string          `json:"notes,omitempty"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}
