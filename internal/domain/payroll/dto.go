package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

// ========== CALCULATION DTOs ==========

// PeriodQuery identifies an employee and a closed date interval.
type PeriodQuery struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (q *PeriodQuery) Validate() error {
	var errs validator.ValidationErrors
	q.validateInto(&errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (q *PeriodQuery) validateInto(errs *validator.ValidationErrors) {
	if validator.IsEmpty(q.EmployeeID) {
		*errs = append(*errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidUUID(q.EmployeeID) {
		*errs = append(*errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	validator.RequiredDate(errs, "start_date", q.StartDate)
	validator.RequiredDate(errs, "end_date", q.EndDate)
}

type CalculatePayrollRequest struct {
	PeriodQuery
	WorkHours     *decimal.Decimal `json:"work_hours,omitempty"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	r.PeriodQuery.validateInto(&errs)

	if validator.IsNegative(r.WorkHours) {
		errs = append(errs, validator.ValidationError{Field: "work_hours", Message: "must be non-negative"})
	}
	if validator.IsNegative(r.OvertimeHours) {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeSnapshot struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	UnitPay           *decimal.Decimal `json:"unit_pay"`
	HourlyOvertimePay *decimal.Decimal `json:"hourly_overtime_pay"`
}

type SiteSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ClientName    *string `json:"client_name,omitempty"`
	SiteDate      string  `json:"site_date"`
	EmployeeNames string  `json:"employee_names"`
}

type SitesForEmployeeResponse struct {
	EmployeeID string        `json:"employee_id"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	SiteCount  int           `json:"site_count"`
	Sites      []SiteSummary `json:"sites"`
}

type BreakdownResponse struct {
	Employee          EmployeeSnapshot `json:"employee"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	SiteCount         int              `json:"site_count"`
	UnitPay           decimal.Decimal  `json:"unit_pay"`
	SitePay           decimal.Decimal  `json:"site_pay"`
	WorkHours         decimal.Decimal  `json:"work_hours"`
	OvertimeHours     decimal.Decimal  `json:"overtime_hours"`
	HourlyOvertimePay decimal.Decimal  `json:"hourly_overtime_pay"`
	Overtime          decimal.Decimal  `json:"overtime"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Sites             []SiteSummary    `json:"sites"`
}

// ========== PAYROLL RECORD DTOs ==========

// SavePayrollRequest carries figures computed by Calculate. They are stored
// as given; omitted numbers are stored as zero.
type SavePayrollRequest struct {
	EmployeeID        string           `json:"employee_id"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	WorkHours         *decimal.Decimal `json:"work_hours,omitempty"`
	OvertimeHours     *decimal.Decimal `json:"overtime_hours,omitempty"`
	SiteCount         *int             `json:"site_count,omitempty"`
	UnitPay           *decimal.Decimal `json:"unit_pay,omitempty"`
	SitePay           *decimal.Decimal `json:"site_pay,omitempty"`
	HourlyOvertimePay *decimal.Decimal `json:"hourly_overtime_pay,omitempty"`
	Overtime          *decimal.Decimal `json:"overtime,omitempty"`
	TotalAmount       *decimal.Decimal `json:"total_amount,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *SavePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	period := PeriodQuery{EmployeeID: r.EmployeeID, StartDate: r.StartDate, EndDate: r.EndDate}
	period.validateInto(&errs)

	if r.SiteCount != nil && *r.SiteCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "site_count", Message: "must be non-negative"})
	}
	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"work_hours", r.WorkHours},
		{"overtime_hours", r.OvertimeHours},
		{"unit_pay", r.UnitPay},
		{"site_pay", r.SitePay},
		{"hourly_overtime_pay", r.HourlyOvertimePay},
		{"overtime", r.Overtime},
		{"total_amount", r.TotalAmount},
	}
	for _, a := range amounts {
		if validator.IsNegative(a.value) {
			errs = append(errs, validator.ValidationError{Field: a.field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRecordResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      string          `json:"employee_name"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	WorkHours         decimal.Decimal `json:"work_hours"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	SiteCount         int             `json:"site_count"`
	UnitPay           decimal.Decimal `json:"unit_pay"`
	SitePay           decimal.Decimal `json:"site_pay"`
	HourlyOvertimePay decimal.Decimal `json:"hourly_overtime_pay"`
	Overtime          decimal.Decimal `json:"overtime"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Notes             *string         `json:"notes,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// PayrollFilter narrows the list. StartDate/EndDate bound the record's own
// start_date; all set conditions are AND-combined. Limit 0 returns every row.
type PayrollFilter struct {
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.OptionalDate(&errs, "start_date", f.StartDate)
	validator.OptionalDate(&errs, "end_date", f.EndDate)
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be non-negative"})
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// PayrollCSVRow is one line of the CSV export.
type PayrollCSVRow struct {
	ID                string `csv:"id"`
	EmployeeID        string `csv:"employee_id"`
	EmployeeName      string `csv:"employee_name"`
	StartDate         string `csv:"start_date"`
	EndDate           string `csv:"end_date"`
	WorkHours         string `csv:"work_hours"`
	OvertimeHours     string `csv:"overtime_hours"`
	SiteCount         int    `csv:"site_count"`
	UnitPay           string `csv:"unit_pay"`
	SitePay           string `csv:"site_pay"`
	HourlyOvertimePay string `csv:"hourly_overtime_pay"`
	Overtime          string `csv:"overtime"`
	TotalAmount       string `csv:"total_amount"`
	Status            string `csv:"status"`
	Notes             string `csv:"notes"`
	CreatedAt         string `csv:"created_at"`
}
