package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeHasPayroll = errors.New("employee has saved payroll records and cannot be deleted")
)
