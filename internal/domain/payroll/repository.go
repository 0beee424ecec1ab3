package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All methods include userID parameter to prevent cross-user data access.
// There is deliberately no update or delete: saved records are snapshots.
type PayrollRepository interface {
	// CreatePayrollRecord appends one record. It returns
	// employee.ErrEmployeeNotFound when record.EmployeeID is not owned by
	// record.UserID, in which case nothing is written.
	CreatePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetPayrollRecordByID(ctx context.Context, id string, userID string) (PayrollRecord, error)
	ListPayrollRecords(ctx context.Context, userID string, filter PayrollFilter) ([]PayrollRecord, int64, error)
}
