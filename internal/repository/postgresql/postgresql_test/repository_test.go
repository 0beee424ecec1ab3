package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew/sitecrew-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, user.User{Email: "owner@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.Create(ctx, user.User{Email: "owner@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ownerID := createTestUser(t, db, "owner@example.com")
	otherID := createTestUser(t, db, "other@example.com")
	repo := postgresql.NewEmployeeRepository(db)

	tanaka, err := repo.Create(ctx, employee.Employee{UserID: ownerID, Name: "Tanaka", UnitPay: dec("15000")})
	require.NoError(t, err)
	assert.Nil(t, tanaka.HourlyOvertimePay)
	assert.True(t, decimal.NewFromInt(15000).Equal(*tanaka.UnitPay))

	_, err = repo.Create(ctx, employee.Employee{UserID: ownerID, Name: "Suzuki"})
	require.NoError(t, err)

	t.Run("scoped lookup", func(t *testing.T) {
		_, err := repo.GetByID(ctx, tanaka.ID, otherID)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("search", func(t *testing.T) {
		search := "tana"
		list, total, err := repo.List(ctx, ownerID, employee.EmployeeFilter{Search: &search})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "Tanaka", list[0].Name)
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := repo.Update(ctx, ownerID, employee.UpdateEmployeeRequest{ID: tanaka.ID, HourlyOvertimePay: dec("2000")})
		require.NoError(t, err)
		assert.Equal(t, "Tanaka", updated.Name)
		assert.True(t, decimal.NewFromInt(2000).Equal(*updated.HourlyOvertimePay))

		_, err = repo.Update(ctx, otherID, employee.UpdateEmployeeRequest{ID: tanaka.ID, HourlyOvertimePay: dec("1")})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("delete blocked by payroll", func(t *testing.T) {
		_, err := postgresql.NewPayrollRepository(db).CreatePayrollRecord(ctx, payroll.PayrollRecord{
			EmployeeID: tanaka.ID, UserID: ownerID, StartDate: day(1), EndDate: day(31),
			Status: payroll.PayrollStatusPending,
		})
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Delete(ctx, tanaka.ID, ownerID), employee.ErrEmployeeHasPayroll)
		assert.ErrorIs(t, repo.Delete(ctx, tanaka.ID, otherID), employee.ErrEmployeeNotFound)
	})
}

func TestSiteRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ownerID := createTestUser(t, db, "owner@example.com")
	otherID := createTestUser(t, db, "other@example.com")
	repo := postgresql.NewSiteRepository(db)
	employees := postgresql.NewEmployeeRepository(db)

	for _, s := range []site.Site{
		{UserID: ownerID, Name: "Before", SiteDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), EmployeeNames: "Tanaka"},
		{UserID: ownerID, Name: "Late", SiteDate: day(20), EmployeeNames: "Tanaka"},
		{UserID: ownerID, Name: "Early", SiteDate: day(1), EmployeeNames: "Tanaka, Suzuki"},
		{UserID: ownerID, Name: "End", SiteDate: day(31), EmployeeNames: "Suzuki"},
		{UserID: otherID, Name: "Foreign", SiteDate: day(10), EmployeeNames: "Tanaka"},
	} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	t.Run("date range is inclusive and ordered", func(t *testing.T) {
		sites, err := repo.ListByDateRange(ctx, ownerID, day(1), day(31))
		require.NoError(t, err)

		names := make([]string, 0, len(sites))
		for _, s := range sites {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{"Early", "Late", "End"}, names)
		assert.Equal(t, day(1), sites[0].SiteDate.UTC())
	})

	t.Run("assignments", func(t *testing.T) {
		created, err := repo.Create(ctx, site.Site{UserID: ownerID, Name: "Tower", SiteDate: day(5)})
		require.NoError(t, err)
		mine, err := employees.Create(ctx, employee.Employee{UserID: ownerID, Name: "Tanaka"})
		require.NoError(t, err)
		theirs, err := employees.Create(ctx, employee.Employee{UserID: otherID, Name: "Sato"})
		require.NoError(t, err)

		require.NoError(t, repo.ReplaceAssignments(ctx, created.ID, ownerID, []string{mine.ID, mine.ID}))
		assignments, err := repo.GetAssignments(ctx, created.ID, ownerID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, "Tanaka", *assignments[0].EmployeeName)

		err = repo.ReplaceAssignments(ctx, created.ID, ownerID, []string{theirs.ID})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("update and delete are scoped", func(t *testing.T) {
		created, err := repo.Create(ctx, site.Site{UserID: ownerID, Name: "Temp", SiteDate: day(6)})
		require.NoError(t, err)

		newDate := "2024-03-07"
		updated, err := repo.Update(ctx, ownerID, site.UpdateSiteRequest{ID: created.ID, SiteDate: &newDate})
		require.NoError(t, err)
		assert.Equal(t, day(7), updated.SiteDate.UTC())

		assert.ErrorIs(t, repo.Delete(ctx, created.ID, otherID), site.ErrSiteNotFound)
		require.NoError(t, repo.Delete(ctx, created.ID, ownerID))
		_, err = repo.GetByID(ctx, created.ID, ownerID)
		assert.ErrorIs(t, err, site.ErrSiteNotFound)
	})
}

func TestPayrollRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ownerID := createTestUser(t, db, "owner@example.com")
	otherID := createTestUser(t, db, "other@example.com")
	employees := postgresql.NewEmployeeRepository(db)
	repo := postgresql.NewPayrollRepository(db)

	tanaka, err := employees.Create(ctx, employee.Employee{UserID: ownerID, Name: "Tanaka", UnitPay: dec("15000")})
	require.NoError(t, err)
	foreign, err := employees.Create(ctx, employee.Employee{UserID: otherID, Name: "Sato"})
	require.NoError(t, err)

	newRecord := func(start time.Time) payroll.PayrollRecord {
		return payroll.PayrollRecord{
			EmployeeID:  tanaka.ID,
			UserID:      ownerID,
			StartDate:   start,
			EndDate:     start.AddDate(0, 1, -1),
			SiteCount:   3,
			UnitPay:     decimal.NewFromInt(15000),
			SitePay:     decimal.NewFromInt(45000),
			Overtime:    decimal.NewFromInt(8000),
			TotalAmount: decimal.NewFromInt(53000),
			Status:      payroll.PayrollStatusPending,
		}
	}

	first, err := repo.CreatePayrollRecord(ctx, newRecord(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	second, err := repo.CreatePayrollRecord(ctx, newRecord(day(1)))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Tanaka", *second.EmployeeName)
	assert.True(t, decimal.NewFromInt(53000).Equal(second.TotalAmount))

	t.Run("foreign employee writes nothing", func(t *testing.T) {
		rec := newRecord(day(1))
		rec.EmployeeID = foreign.ID
		_, err := repo.CreatePayrollRecord(ctx, rec)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		_, total, err := repo.ListPayrollRecords(ctx, ownerID, payroll.PayrollFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("newest first", func(t *testing.T) {
		records, _, err := repo.ListPayrollRecords(ctx, ownerID, payroll.PayrollFilter{})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, second.ID, records[0].ID)
		assert.Equal(t, first.ID, records[1].ID)
	})

	t.Run("filters", func(t *testing.T) {
		from := "2024-03-01"
		records, total, err := repo.ListPayrollRecords(ctx, ownerID, payroll.PayrollFilter{StartDate: &from, EmployeeID: &tanaka.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, records, 1)
		assert.Equal(t, second.ID, records[0].ID)

		records, _, err = repo.ListPayrollRecords(ctx, ownerID, payroll.PayrollFilter{Limit: 1, Page: 2})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, first.ID, records[0].ID)
	})

	t.Run("rate changes do not alter saved records", func(t *testing.T) {
		_, err := employees.Update(ctx, ownerID, employee.UpdateEmployeeRequest{ID: tanaka.ID, UnitPay: dec("99999")})
		require.NoError(t, err)

		got, err := repo.GetPayrollRecordByID(ctx, second.ID, ownerID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(15000).Equal(got.UnitPay))
	})

	t.Run("scoped lookup", func(t *testing.T) {
		_, err := repo.GetPayrollRecordByID(ctx, second.ID, otherID)
		assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
	})

	t.Run("fractional figures are stored unrounded", func(t *testing.T) {
		rec := newRecord(day(1))
		rec.OvertimeHours = decimal.RequireFromString("1.125")
		rec.HourlyOvertimePay = decimal.RequireFromString("2000.55")
		rec.Overtime = rec.OvertimeHours.Mul(rec.HourlyOvertimePay)
		rec.TotalAmount = rec.SitePay.Add(rec.Overtime)

		created, err := repo.CreatePayrollRecord(ctx, rec)
		require.NoError(t, err)

		got, err := repo.GetPayrollRecordByID(ctx, created.ID, ownerID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1.125").Equal(got.OvertimeHours), "overtime_hours = %s", got.OvertimeHours)
		assert.True(t, decimal.RequireFromString("2250.61875").Equal(got.Overtime), "overtime = %s", got.Overtime)
		assert.True(t, got.OvertimeHours.Mul(got.HourlyOvertimePay).Equal(got.Overtime))
		assert.True(t, got.SitePay.Add(got.Overtime).Equal(got.TotalAmount))
	})
}
