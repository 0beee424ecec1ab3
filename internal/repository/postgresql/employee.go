package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
)

const pgForeignKeyViolation = "23503"

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, user_id, name, phone_number, unit_pay, hourly_overtime_pay, notes, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.Name, &emp.PhoneNumber, &emp.UnitPay,
		&emp.HourlyOvertimePay, &emp.Notes, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND user_id = $2`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.StorageError("get employee", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository. Search is a case-insensitive
// match against name and phone number.
func (e *employeeRepositoryImpl) List(ctx context.Context, userID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	whereClause := " FROM employees WHERE user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR phone_number ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, 0, database.StorageError("count employees", err)
	}

	query := "SELECT " + employeeColumns + whereClause + " ORDER BY name ASC, id ASC"
	if filter.Limit > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, database.StorageError("list employees", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, database.StorageError("scan employee", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.StorageError("list employees", err)
	}

	return employees, totalCount, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (user_id, name, phone_number, unit_pay, hourly_overtime_pay, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.UserID, newEmployee.Name, newEmployee.PhoneNumber,
		newEmployee.UnitPay, newEmployee.HourlyOvertimePay, newEmployee.Notes,
	))
	if err != nil {
		return employee.Employee{}, database.StorageError("create employee", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, userID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, userID}
	argIdx := 3

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.PhoneNumber != nil {
		setParts = append(setParts, fmt.Sprintf("phone_number = $%d", argIdx))
		args = append(args, *req.PhoneNumber)
		argIdx++
	}
	if req.UnitPay != nil {
		setParts = append(setParts, fmt.Sprintf("unit_pay = $%d", argIdx))
		args = append(args, *req.UnitPay)
		argIdx++
	}
	if req.HourlyOvertimePay != nil {
		setParts = append(setParts, fmt.Sprintf("hourly_overtime_pay = $%d", argIdx))
		args = append(args, *req.HourlyOvertimePay)
		argIdx++
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *req.Notes)
	}

	query := fmt.Sprintf(`
		UPDATE employees SET %s
		WHERE id = $1 AND user_id = $2
		RETURNING %s
	`, strings.Join(setParts, ", "), employeeColumns)

	updated, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.StorageError("update employee", err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository. Employees referenced by a
// saved payroll record cannot be removed.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return employee.ErrEmployeeHasPayroll
		}
		return database.StorageError("delete employee", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
