package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.employee_id, pr.user_id, pr.start_date, pr.end_date,
	pr.work_hours, pr.overtime_hours, pr.site_count, pr.unit_pay, pr.site_pay,
	pr.hourly_overtime_pay, pr.overtime, pr.total_amount, pr.notes, pr.status,
	pr.created_at, pr.updated_at, e.name
`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.UserID, &rec.StartDate, &rec.EndDate,
		&rec.WorkHours, &rec.OvertimeHours, &rec.SiteCount, &rec.UnitPay, &rec.SitePay,
		&rec.HourlyOvertimePay, &rec.Overtime, &rec.TotalAmount, &rec.Notes, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	)
	return rec, err
}

// CreatePayrollRecord inserts only when the employee belongs to the record's
// user; the ownership check and the insert are one statement.
func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pr AS (
			INSERT INTO payroll_records (
				employee_id, user_id, start_date, end_date, work_hours, overtime_hours,
				site_count, unit_pay, site_pay, hourly_overtime_pay, overtime, total_amount,
				notes, status
			)
			SELECT e.id, e.user_id, $3::date, $4::date, $5::numeric, $6::numeric, $7::int,
				$8::numeric, $9::numeric, $10::numeric, $11::numeric, $12::numeric, $13::text, $14::text
			FROM employees e
			WHERE e.id = $1 AND e.user_id = $2
			RETURNING *
		)
		SELECT ` + payrollRecordColumns + `
		FROM pr
		JOIN employees e ON pr.employee_id = e.id
	`

	created, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.UserID, record.StartDate, record.EndDate,
		record.WorkHours, record.OvertimeHours, record.SiteCount, record.UnitPay,
		record.SitePay, record.HourlyOvertimePay, record.Overtime, record.TotalAmount,
		record.Notes, record.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollRecord{}, database.StorageError("create payroll record", err)
	}

	return created, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string, userID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1 AND pr.user_id = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, database.StorageError("get payroll record", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, userID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.user_id = $1
	`
	args := []interface{}{userID}
	argIdx := 2

	if filter.StartDate != nil {
		baseQuery += fmt.Sprintf(" AND pr.start_date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseQuery += fmt.Sprintf(" AND pr.start_date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, database.StorageError("count payroll records", err)
	}

	selectQuery := "SELECT " + payrollRecordColumns + baseQuery + " ORDER BY pr.created_at DESC, pr.id DESC"
	if filter.Limit > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, database.StorageError("list payroll records", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, database.StorageError("scan payroll record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.StorageError("list payroll records", err)
	}

	return records, totalCount, nil
}
