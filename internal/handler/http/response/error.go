package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUnauthorized):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeHasPayroll):
		Conflict(w, "Employee has saved payroll records")

	// Site domain errors
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")

	case errors.Is(err, database.ErrStorage):
		slog.Error("storage failure", slog.Any("error", err))
		InternalServerError(w, "A storage error occurred")

	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
