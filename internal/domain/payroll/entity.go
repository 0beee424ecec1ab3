package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "pending"
)

// Period is a closed date interval [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
}

// CalculationInput carries everything the calculator needs. Nil hours count as zero.
type CalculationInput struct {
	Employee      employee.Employee
	Sites         []site.Site
	WorkHours     *decimal.Decimal
	OvertimeHours *decimal.Decimal
	Period        Period
}

// Breakdown is a computed, unsaved payroll figure set.
//
// WorkHours is informational. Regular attendance is paid per site through
// UnitPay, only overtime hours are paid by the hour.
type Breakdown struct {
	Employee          employee.Employee
	Period            Period
	SiteCount         int
	UnitPay           decimal.Decimal
	SitePay           decimal.Decimal
	WorkHours         decimal.Decimal
	OvertimeHours     decimal.Decimal
	HourlyOvertimePay decimal.Decimal
	Overtime          decimal.Decimal
	TotalAmount       decimal.Decimal
	Sites             []site.Site
}

// PayrollRecord is a saved breakdown. Records are append-only: the repository
// offers no update path, so later rate or roster changes never alter them.
type PayrollRecord struct {
	ID                string
	EmployeeID        string
	UserID            string
	StartDate         time.Time
	EndDate           time.Time
	WorkHours         decimal.Decimal
	OvertimeHours     decimal.Decimal
	SiteCount         int
	UnitPay           decimal.Decimal
	SitePay           decimal.Decimal
	HourlyOvertimePay decimal.Decimal
	Overtime          decimal.Decimal
	TotalAmount       decimal.Decimal
	Notes             *string
	Status            PayrollStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	EmployeeName *string
}
