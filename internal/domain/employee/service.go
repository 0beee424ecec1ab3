package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	GetEmployee(ctx context.Context, userID string, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, userID string, filter EmployeeFilter) (ListEmployeeResponse, error)
	CreateEmployee(ctx context.Context, userID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, userID string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, userID string, id string) error
}
