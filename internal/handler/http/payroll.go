package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/handler/http/middleware"
	"github.com/sitecrew/sitecrew-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Aggregation and calculation
	GetSitesForEmployee(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)

	// Payroll Records
	Save(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	ExportPayrollRecords(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== AGGREGATION ==========

func (h *payrollHandlerImpl) GetSitesForEmployee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := payroll.PeriodQuery{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	result, err := h.payrollService.GetSitesForEmployee(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req payroll.SavePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Save(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll record saved", result)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayrollRecord(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := payrollFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListPayrollRecords(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) ExportPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := payrollFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.payrollService.ExportPayrollRecords(r.Context(), middleware.UserIDFromContext(r.Context()), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("payroll-%s.csv", time.Now().Format("20060102"))
	response.CSV(w, filename, buf.Bytes())
}

func payrollFilterFromQuery(r *http.Request) (payroll.PayrollFilter, error) {
	page, limit, err := pagination(r)
	if err != nil {
		return payroll.PayrollFilter{}, err
	}

	return payroll.PayrollFilter{
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		EmployeeID: optionalQuery(r, "employee_id"),
		Page:       page,
		Limit:      limit,
	}, nil
}
