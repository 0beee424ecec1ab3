package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
)

// Calculate turns attendance into pay:
//
//	sitePay     = siteCount * unitPay
//	overtime    = overtimeHours * hourlyOvertimePay
//	totalAmount = sitePay + overtime
//
// Unset rates and hours count as zero. WorkHours is carried through but is not
// paid; regular attendance is paid per site. Calculate has no side effects.
func Calculate(in payroll.CalculationInput) payroll.Breakdown {
	unitPay := valueOrZero(in.Employee.UnitPay)
	hourlyOvertimePay := valueOrZero(in.Employee.HourlyOvertimePay)
	workHours := valueOrZero(in.WorkHours)
	overtimeHours := valueOrZero(in.OvertimeHours)

	sites := make([]site.Site, len(in.Sites))
	copy(sites, in.Sites)
	siteCount := len(sites)

	sitePay := decimal.NewFromInt(int64(siteCount)).Mul(unitPay)
	overtime := overtimeHours.Mul(hourlyOvertimePay)

	return payroll.Breakdown{
		Employee:          in.Employee,
		Period:            in.Period,
		SiteCount:         siteCount,
		UnitPay:           unitPay,
		SitePay:           sitePay,
		WorkHours:         workHours,
		OvertimeHours:     overtimeHours,
		HourlyOvertimePay: hourlyOvertimePay,
		Overtime:          overtime,
		TotalAmount:       sitePay.Add(overtime),
		Sites:             sites,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
