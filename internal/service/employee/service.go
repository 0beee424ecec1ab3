package employee

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

const maxListLimit = 100

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	logger       *slog.Logger
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, logger *slog.Logger) employee.EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, userID string, id string) (employee.EmployeeResponse, error) {
	if userID == "" {
		return employee.EmployeeResponse{}, auth.ErrUnauthorized
	}
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, userID string, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if userID == "" {
		return employee.ListEmployeeResponse{}, auth.ErrUnauthorized
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Limit = int(math.Min(float64(filter.Limit), maxListLimit))
	if filter.Search != nil {
		trimmed := strings.TrimSpace(*filter.Search)
		if trimmed == "" {
			filter.Search = nil
		} else {
			filter.Search = &trimmed
		}
	}

	employees, totalCount, err := s.employeeRepo.List(ctx, userID, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	data := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		data = append(data, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, userID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if userID == "" {
		return employee.EmployeeResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		UserID:            userID,
		Name:              strings.TrimSpace(req.Name),
		PhoneNumber:       req.PhoneNumber,
		UnitPay:           req.UnitPay,
		HourlyOvertimePay: req.HourlyOvertimePay,
		Notes:             req.Notes,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.logger.InfoContext(ctx, "employee created", slog.String("employee_id", created.ID))
	return mapEmployeeToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService. Rate changes never touch
// saved payroll records.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, userID string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if userID == "" {
		return employee.EmployeeResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.IsEmpty() {
		return s.GetEmployee(ctx, userID, req.ID)
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	updated, err := s.employeeRepo.Update(ctx, userID, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, userID string, id string) error {
	if userID == "" {
		return auth.ErrUnauthorized
	}
	if !validator.IsValidUUID(id) {
		return employee.ErrEmployeeNotFound
	}
	if err := s.employeeRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "employee deleted", slog.String("employee_id", id))
	return nil
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:                emp.ID,
		Name:              emp.Name,
		PhoneNumber:       emp.PhoneNumber,
		UnitPay:           emp.UnitPay,
		HourlyOvertimePay: emp.HourlyOvertimePay,
		Notes:             emp.Notes,
		CreatedAt:         emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         emp.UpdatedAt.Format(time.RFC3339),
	}
}
