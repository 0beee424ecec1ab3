package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// GetSitesForEmployee runs the aggregation query on its own.
	GetSitesForEmployee(ctx context.Context, userID string, req PeriodQuery) (SitesForEmployeeResponse, error)
	// Calculate computes a breakdown without persisting anything.
	Calculate(ctx context.Context, userID string, req CalculatePayrollRequest) (BreakdownResponse, error)
	// Save stores an already computed breakdown as a new record.
	Save(ctx context.Context, userID string, req SavePayrollRequest) (PayrollRecordResponse, error)
	GetPayrollRecord(ctx context.Context, userID string, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, userID string, filter PayrollFilter) (ListPayrollRecordResponse, error)
	// ExportPayrollRecords writes the filtered list as CSV.
	ExportPayrollRecords(ctx context.Context, userID string, filter PayrollFilter, w io.Writer) error
}
