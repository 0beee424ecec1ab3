package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                string
	UserID            string
	Name              string
	PhoneNumber       *string
	UnitPay           *decimal.Decimal // paid per site dispatched to
	HourlyOvertimePay *decimal.Decimal
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
