package employee

import "context"

// EmployeeRepository defines data access methods for employees.
// Every method is scoped by the owning userID; an employee owned by another
// user is reported as ErrEmployeeNotFound.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, userID string) (Employee, error)
	List(ctx context.Context, userID string, filter EmployeeFilter) ([]Employee, int64, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, userID string, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id string, userID string) error
}
