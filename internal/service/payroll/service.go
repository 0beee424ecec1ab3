package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	siteResolver site.Resolver
	logger       *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	siteResolver site.Resolver,
	logger *slog.Logger,
) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		siteResolver: siteResolver,
		logger:       logger,
	}
}

// ========== AGGREGATION ==========

func (s *PayrollServiceImpl) GetSitesForEmployee(ctx context.Context, userID string, req payroll.PeriodQuery) (payroll.SitesForEmployeeResponse, error) {
	if userID == "" {
		return payroll.SitesForEmployeeResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return payroll.SitesForEmployeeResponse{}, err
	}

	_, period, sites, err := s.aggregate(ctx, userID, req)
	if err != nil {
		return payroll.SitesForEmployeeResponse{}, err
	}

	return payroll.SitesForEmployeeResponse{
		EmployeeID: req.EmployeeID,
		StartDate:  period.Start.Format(validator.DateLayout),
		EndDate:    period.End.Format(validator.DateLayout),
		SiteCount:  len(sites),
		Sites:      mapToSiteSummaries(sites),
	}, nil
}

// aggregate resolves the employee under userID and collects the sites their
// name appears on within the period. req must already be validated.
func (s *PayrollServiceImpl) aggregate(ctx context.Context, userID string, req payroll.PeriodQuery) (employee.Employee, payroll.Period, []site.Site, error) {
	period, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return employee.Employee{}, payroll.Period{}, nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, userID)
	if err != nil {
		return employee.Employee{}, payroll.Period{}, nil, err
	}

	sites, err := s.siteResolver.ResolveSitesForEmployee(ctx, userID, emp.Name, period.Start, period.End)
	if err != nil {
		return employee.Employee{}, payroll.Period{}, nil, fmt.Errorf("failed to resolve sites for employee: %w", err)
	}

	return emp, period, sites, nil
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, userID string, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error) {
	if userID == "" {
		return payroll.BreakdownResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return payroll.BreakdownResponse{}, err
	}

	emp, period, sites, err := s.aggregate(ctx, userID, req.PeriodQuery)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	breakdown := Calculate(payroll.CalculationInput{
		Employee:      emp,
		Sites:         sites,
		WorkHours:     req.WorkHours,
		OvertimeHours: req.OvertimeHours,
		Period:        period,
	})

	return mapToBreakdownResponse(breakdown), nil
}

// ========== PAYROLL RECORDS ==========

func (s *PayrollServiceImpl) Save(ctx context.Context, userID string, req payroll.SavePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if userID == "" {
		return payroll.PayrollRecordResponse{}, auth.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	period, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	siteCount := 0
	if req.SiteCount != nil {
		siteCount = *req.SiteCount
	}

	record := payroll.PayrollRecord{
		EmployeeID:        req.EmployeeID,
		UserID:            userID,
		StartDate:         period.Start,
		EndDate:           period.End,
		WorkHours:         valueOrZero(req.WorkHours),
		OvertimeHours:     valueOrZero(req.OvertimeHours),
		SiteCount:         siteCount,
		UnitPay:           valueOrZero(req.UnitPay),
		SitePay:           valueOrZero(req.SitePay),
		HourlyOvertimePay: valueOrZero(req.HourlyOvertimePay),
		Overtime:          valueOrZero(req.Overtime),
		TotalAmount:       valueOrZero(req.TotalAmount),
		Notes:             req.Notes,
		Status:            payroll.PayrollStatusPending,
	}

	created, err := s.payrollRepo.CreatePayrollRecord(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll record saved",
		slog.String("payroll_id", created.ID),
		slog.String("employee_id", created.EmployeeID),
		slog.String("total_amount", created.TotalAmount.String()),
	)

	return mapToRecordResponse(created), nil
}

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, userID string, id string) (payroll.PayrollRecordResponse, error) {
	if userID == "" {
		return payroll.PayrollRecordResponse{}, auth.ErrUnauthorized
	}
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, userID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, userID string, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if userID == "" {
		return payroll.ListPayrollRecordResponse{}, auth.ErrUnauthorized
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.ListPayrollRecords(ctx, userID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) ExportPayrollRecords(ctx context.Context, userID string, filter payroll.PayrollFilter, w io.Writer) error {
	list, err := s.ListPayrollRecords(ctx, userID, filter)
	if err != nil {
		return err
	}

	rows := make([]payroll.PayrollCSVRow, 0, len(list.Data))
	for _, r := range list.Data {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		rows = append(rows, payroll.PayrollCSVRow{
			ID:                r.ID,
			EmployeeID:        r.EmployeeID,
			EmployeeName:      r.EmployeeName,
			StartDate:         r.StartDate,
			EndDate:           r.EndDate,
			WorkHours:         r.WorkHours.String(),
			OvertimeHours:     r.OvertimeHours.String(),
			SiteCount:         r.SiteCount,
			UnitPay:           r.UnitPay.String(),
			SitePay:           r.SitePay.String(),
			HourlyOvertimePay: r.HourlyOvertimePay.String(),
			Overtime:          r.Overtime.String(),
			TotalAmount:       r.TotalAmount.String(),
			Status:            r.Status,
			Notes:             notes,
			CreatedAt:         r.CreatedAt,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write payroll csv: %w", err)
	}
	return nil
}

// ========== HELPERS ==========

func parsePeriod(startDate, endDate string) (payroll.Period, error) {
	start, err := time.Parse(validator.DateLayout, startDate)
	if err != nil {
		return payroll.Period{}, validator.ValidationErrors{{Field: "start_date", Message: "start_date must be a date in YYYY-MM-DD format"}}
	}
	end, err := time.Parse(validator.DateLayout, endDate)
	if err != nil {
		return payroll.Period{}, validator.ValidationErrors{{Field: "end_date", Message: "end_date must be a date in YYYY-MM-DD format"}}
	}
	return payroll.Period{Start: start, End: end}, nil
}

func mapToSiteSummaries(sites []site.Site) []payroll.SiteSummary {
	result := make([]payroll.SiteSummary, 0, len(sites))
	for _, st := range sites {
		result = append(result, payroll.SiteSummary{
			ID:            st.ID,
			Name:          st.Name,
			ClientName:    st.ClientName,
			SiteDate:      st.SiteDate.Format(validator.DateLayout),
			EmployeeNames: st.EmployeeNames,
		})
	}
	return result
}

func mapToBreakdownResponse(b payroll.Breakdown) payroll.BreakdownResponse {
	return payroll.BreakdownResponse{
		Employee: payroll.EmployeeSnapshot{
			ID:                b.Employee.ID,
			Name:              b.Employee.Name,
			UnitPay:           b.Employee.UnitPay,
			HourlyOvertimePay: b.Employee.HourlyOvertimePay,
		},
		StartDate:         b.Period.Start.Format(validator.DateLayout),
		EndDate:           b.Period.End.Format(validator.DateLayout),
		SiteCount:         b.SiteCount,
		UnitPay:           b.UnitPay,
		SitePay:           b.SitePay,
		WorkHours:         b.WorkHours,
		OvertimeHours:     b.OvertimeHours,
		HourlyOvertimePay: b.HourlyOvertimePay,
		Overtime:          b.Overtime,
		TotalAmount:       b.TotalAmount,
		Sites:             mapToSiteSummaries(b.Sites),
	}
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	employeeName := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}

	return payroll.PayrollRecordResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      employeeName,
		StartDate:         r.StartDate.Format(validator.DateLayout),
		EndDate:           r.EndDate.Format(validator.DateLayout),
		WorkHours:         r.WorkHours,
		OvertimeHours:     r.OvertimeHours,
		SiteCount:         r.SiteCount,
		UnitPay:           r.UnitPay,
		SitePay:           r.SitePay,
		HourlyOvertimePay: r.HourlyOvertimePay,
		Overtime:          r.Overtime,
		TotalAmount:       r.TotalAmount,
		Notes:             r.Notes,
		Status:            string(r.Status),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
