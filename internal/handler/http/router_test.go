package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/jwt"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	handlerTestUserID = "0193a0c4-8a5e-7c2b-9f3d-1a2b3c4d5e6f"
	handlerTestEmpID  = "0193a0c4-8a5e-7c2b-9f3d-aaaaaaaaaaaa"
)

// ===== FAKES =====

type fakeAuthService struct {
	RegisterFn func(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error)
	LoginFn    func(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error)
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	return f.RegisterFn(ctx, req)
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	return f.LoginFn(ctx, req)
}

type fakePayrollService struct {
	GetSitesForEmployeeFn func(ctx context.Context, userID string, req payroll.PeriodQuery) (payroll.SitesForEmployeeResponse, error)
	CalculateFn           func(ctx context.Context, userID string, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error)
	SaveFn                func(ctx context.Context, userID string, req payroll.SavePayrollRequest) (payroll.PayrollRecordResponse, error)
	GetPayrollRecordFn    func(ctx context.Context, userID string, id string) (payroll.PayrollRecordResponse, error)
	ListPayrollRecordsFn  func(ctx context.Context, userID string, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error)
	ExportFn              func(ctx context.Context, userID string, filter payroll.PayrollFilter, w io.Writer) error
}

func (f *fakePayrollService) GetSitesForEmployee(ctx context.Context, userID string, req payroll.PeriodQuery) (payroll.SitesForEmployeeResponse, error) {
	return f.GetSitesForEmployeeFn(ctx, userID, req)
}

func (f *fakePayrollService) Calculate(ctx context.Context, userID string, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error) {
	return f.CalculateFn(ctx, userID, req)
}

func (f *fakePayrollService) Save(ctx context.Context, userID string, req payroll.SavePayrollRequest) (payroll.PayrollRecordResponse, error) {
	return f.SaveFn(ctx, userID, req)
}

func (f *fakePayrollService) GetPayrollRecord(ctx context.Context, userID string, id string) (payroll.PayrollRecordResponse, error) {
	return f.GetPayrollRecordFn(ctx, userID, id)
}

func (f *fakePayrollService) ListPayrollRecords(ctx context.Context, userID string, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	return f.ListPayrollRecordsFn(ctx, userID, filter)
}

func (f *fakePayrollService) ExportPayrollRecords(ctx context.Context, userID string, filter payroll.PayrollFilter, w io.Writer) error {
	return f.ExportFn(ctx, userID, filter, w)
}

// ===== HELPERS =====

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
}

func newTestServer(t *testing.T, authSvc auth.AuthService, payrollSvc payroll.PayrollService) testServer {
	t.Helper()
	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(
		RouterConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), LogLevel: slog.LevelError},
		jwtSvc,
		NewAuthHandler(authSvc),
		NewEmployeeHandler(nil),
		NewSiteHandler(nil),
		NewPayrollHandler(payrollSvc),
	)
	return testServer{handler: router, jwt: jwtSvc}
}

func (s testServer) do(t *testing.T, method, target string, body []byte, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if authorized {
		token, _, err := s.jwt.GenerateAccessToken(handlerTestUserID, "owner@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ===== AUTH =====

func TestAuthHandler_Register_Success(t *testing.T) {
	authSvc := &fakeAuthService{
		RegisterFn: func(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
			assert.Equal(t, "owner@example.com", req.Email)
			return auth.TokenResponse{UserID: handlerTestUserID, AccessToken: "token", AccessTokenExpiresIn: 3600}, nil
		},
	}
	srv := newTestServer(t, authSvc, &fakePayrollService{})

	body := mustJSON(t, auth.RegisterRequest{Email: "owner@example.com", Password: "SecurePass123!", ConfirmPassword: "SecurePass123!"})
	w := srv.do(t, http.MethodPost, "/api/v1/auth/register", body, false)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "token", data["access_token"])
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakePayrollService{})

	w := srv.do(t, http.MethodPost, "/api/v1/auth/register", []byte("invalid json"), false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	authSvc := &fakeAuthService{
		RegisterFn: func(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
			return auth.TokenResponse{}, fmt.Errorf("register: %w", user.ErrUserEmailExists)
		},
	}
	srv := newTestServer(t, authSvc, &fakePayrollService{})

	body := mustJSON(t, auth.RegisterRequest{Email: "owner@example.com", Password: "SecurePass123!", ConfirmPassword: "SecurePass123!"})
	w := srv.do(t, http.MethodPost, "/api/v1/auth/register", body, false)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	authSvc := &fakeAuthService{
		LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, authSvc, &fakePayrollService{})

	body := mustJSON(t, auth.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", body, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody(t, w)
	assert.False(t, resp["success"].(bool))
}

// ===== AUTHENTICATION GATE =====

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakePayrollService{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/employees"},
		{http.MethodGet, "/api/v1/sites"},
		{http.MethodPost, "/api/v1/payrolls/calculate"},
		{http.MethodGet, "/api/v1/payrolls"},
		{http.MethodGet, "/api/v1/payrolls/export"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := srv.do(t, rt.method, rt.path, nil, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakePayrollService{})

	other := jwt.NewJWTService("another-secret", time.Hour)
	token, _, err := other.GenerateAccessToken(handlerTestUserID, "owner@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payrolls", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===== PAYROLL =====

func TestPayrollHandler_Calculate_Success(t *testing.T) {
	payrollSvc := &fakePayrollService{
		CalculateFn: func(ctx context.Context, userID string, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error) {
			assert.Equal(t, handlerTestUserID, userID)
			assert.Equal(t, handlerTestEmpID, req.EmployeeID)
			require.NotNil(t, req.OvertimeHours)
			assert.True(t, req.OvertimeHours.Equal(decimal.NewFromInt(4)))
			return payroll.BreakdownResponse{
				StartDate:   req.StartDate,
				EndDate:     req.EndDate,
				SiteCount:   3,
				SitePay:     decimal.NewFromInt(45000),
				Overtime:    decimal.NewFromInt(8000),
				TotalAmount: decimal.NewFromInt(53000),
				Sites:       []payroll.SiteSummary{},
			}, nil
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	body := []byte(`{"employee_id":"` + handlerTestEmpID + `","start_date":"2024-01-01","end_date":"2024-01-31","overtime_hours":"4"}`)
	w := srv.do(t, http.MethodPost, "/api/v1/payrolls/calculate", body, true)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["site_count"])
	assert.Equal(t, "53000", data["total_amount"])
}

func TestPayrollHandler_Calculate_ValidationError(t *testing.T) {
	payrollSvc := &fakePayrollService{
		CalculateFn: func(ctx context.Context, userID string, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error) {
			return payroll.BreakdownResponse{}, req.Validate()
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	body := []byte(`{"employee_id":"not-a-uuid","start_date":"2024-01-01"}`)
	w := srv.do(t, http.MethodPost, "/api/v1/payrolls/calculate", body, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := decodeBody(t, w)["error"].(map[string]interface{})
	details := errBody["details"].(map[string]interface{})
	assert.Contains(t, details, "employee_id")
	assert.Contains(t, details, "end_date")
}

func TestPayrollHandler_Calculate_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakePayrollService{})

	w := srv.do(t, http.MethodPost, "/api/v1/payrolls/calculate", []byte("{"), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_GetSitesForEmployee_RoutesBeforeID(t *testing.T) {
	var got payroll.PeriodQuery
	payrollSvc := &fakePayrollService{
		GetSitesForEmployeeFn: func(ctx context.Context, userID string, req payroll.PeriodQuery) (payroll.SitesForEmployeeResponse, error) {
			got = req
			return payroll.SitesForEmployeeResponse{EmployeeID: req.EmployeeID, SiteCount: 0, Sites: []payroll.SiteSummary{}}, nil
		},
		GetPayrollRecordFn: func(ctx context.Context, userID string, id string) (payroll.PayrollRecordResponse, error) {
			t.Fatalf("GetPayrollRecord called with id %q", id)
			return payroll.PayrollRecordResponse{}, nil
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls/sites?employee_id="+handlerTestEmpID+"&start_date=2024-01-01&end_date=2024-01-31", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handlerTestEmpID, got.EmployeeID)
	assert.Equal(t, "2024-01-01", got.StartDate)
	assert.Equal(t, "2024-01-31", got.EndDate)
}

func TestPayrollHandler_Save_Created(t *testing.T) {
	payrollSvc := &fakePayrollService{
		SaveFn: func(ctx context.Context, userID string, req payroll.SavePayrollRequest) (payroll.PayrollRecordResponse, error) {
			assert.Equal(t, handlerTestUserID, userID)
			require.NotNil(t, req.TotalAmount)
			return payroll.PayrollRecordResponse{
				ID:          "rec-1",
				EmployeeID:  req.EmployeeID,
				TotalAmount: *req.TotalAmount,
				Status:      string(payroll.PayrollStatusPending),
			}, nil
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	body := []byte(`{"employee_id":"` + handlerTestEmpID + `","start_date":"2024-01-01","end_date":"2024-01-31","total_amount":"53000"}`)
	w := srv.do(t, http.MethodPost, "/api/v1/payrolls", body, true)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "rec-1", data["id"])
	assert.Equal(t, "pending", data["status"])
}

func TestPayrollHandler_GetPayrollRecord_NotFound(t *testing.T) {
	payrollSvc := &fakePayrollService{
		GetPayrollRecordFn: func(ctx context.Context, userID string, id string) (payroll.PayrollRecordResponse, error) {
			assert.Equal(t, "missing", id)
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls/missing", nil, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayrollHandler_List_FilterAndMeta(t *testing.T) {
	var got payroll.PayrollFilter
	payrollSvc := &fakePayrollService{
		ListPayrollRecordsFn: func(ctx context.Context, userID string, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
			got = filter
			return payroll.ListPayrollRecordResponse{
				Data:       []payroll.PayrollRecordResponse{{ID: "rec-2"}, {ID: "rec-1"}},
				TotalCount: 12,
				Page:       filter.Page,
				Limit:      filter.Limit,
			}, nil
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls?employee_id="+handlerTestEmpID+"&start_date=2024-01-01&page=2&limit=5", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.EmployeeID)
	assert.Equal(t, handlerTestEmpID, *got.EmployeeID)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2024-01-01", *got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Limit)

	resp := decodeBody(t, w)
	assert.Len(t, resp["data"], 2)
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(12), meta["total_items"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestPayrollHandler_List_BlankFiltersIgnored(t *testing.T) {
	var got payroll.PayrollFilter
	payrollSvc := &fakePayrollService{
		ListPayrollRecordsFn: func(ctx context.Context, userID string, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
			got = filter
			return payroll.ListPayrollRecordResponse{Data: []payroll.PayrollRecordResponse{}}, filter.Validate()
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls?start_date=%20&end_date=%20%20&employee_id=", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Nil(t, got.EmployeeID)
}

func TestPayrollHandler_List_BadPagination(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakePayrollService{})

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls?limit=abc", nil, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPayrollHandler_Export_CSV(t *testing.T) {
	payrollSvc := &fakePayrollService{
		ExportFn: func(ctx context.Context, userID string, filter payroll.PayrollFilter, w io.Writer) error {
			_, err := io.WriteString(w, "id,employee_id\nrec-1,"+handlerTestEmpID+"\n")
			return err
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls/export", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"payroll-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "id,employee_id\n"))
}

func TestPayrollHandler_Export_ErrorIsJSON(t *testing.T) {
	payrollSvc := &fakePayrollService{
		ExportFn: func(ctx context.Context, userID string, filter payroll.PayrollFilter, w io.Writer) error {
			_, _ = io.WriteString(w, "id,employee_id\n")
			return database.StorageError("list payroll records", fmt.Errorf("connection reset"))
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, payrollSvc)

	w := srv.do(t, http.MethodGet, "/api/v1/payrolls/export?employee_id="+handlerTestEmpID, nil, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestPagination(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"", 0, 0, false},
		{"page=3&limit=20", 3, 20, false},
		{"limit=0", 0, 0, false},
		{"page=-1", 0, 0, true},
		{"page=x&limit=10", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			page, limit, err := pagination(r)
			if tc.wantErr {
				var vErrs validator.ValidationErrors
				assert.ErrorAs(t, err, &vErrs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}
