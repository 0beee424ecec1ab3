package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

type calculateOptions struct {
	employeeID    string
	startDate     string
	endDate       string
	workHours     string
	overtimeHours string
	save          bool
	notes         string
}

func newCalculateCmd(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute an employee's pay for a period",
		Long: `Counts the sites whose roster names the employee between --start and
--end (inclusive) and prints the pay breakdown. Nothing is stored unless
--save is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.employeeID, "employee", "", "employee ID")
	cmd.Flags().StringVar(&opts.startDate, "start", "", "first day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.endDate, "end", "", "last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.workHours, "work-hours", "", "regular hours worked (informational)")
	cmd.Flags().StringVar(&opts.overtimeHours, "overtime-hours", "", "overtime hours to pay")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the breakdown as a payroll record")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "notes stored with --save")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func runCalculate(cmd *cobra.Command, root *rootOptions, opts *calculateOptions) error {
	workHours, err := optionalDecimal("work-hours", opts.workHours)
	if err != nil {
		return err
	}
	overtimeHours, err := optionalDecimal("overtime-hours", opts.overtimeHours)
	if err != nil {
		return err
	}

	svc, closeFn, err := root.open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	breakdown, err := svc.Calculate(cmd.Context(), root.userID, payroll.CalculatePayrollRequest{
		PeriodQuery: payroll.PeriodQuery{
			EmployeeID: opts.employeeID,
			StartDate:  opts.startDate,
			EndDate:    opts.endDate,
		},
		WorkHours:     workHours,
		OvertimeHours: overtimeHours,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printBreakdown(out, breakdown); err != nil {
		return err
	}
	if !opts.save {
		return nil
	}

	var notes *string
	if opts.notes != "" {
		notes = &opts.notes
	}
	record, err := svc.Save(cmd.Context(), root.userID, saveRequestFromBreakdown(breakdown, notes))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nsaved payroll record %s\n", record.ID)
	return err
}

func saveRequestFromBreakdown(b payroll.BreakdownResponse, notes *string) payroll.SavePayrollRequest {
	siteCount := b.SiteCount
	return payroll.SavePayrollRequest{
		EmployeeID:        b.Employee.ID,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		WorkHours:         &b.WorkHours,
		OvertimeHours:     &b.OvertimeHours,
		SiteCount:         &siteCount,
		UnitPay:           &b.UnitPay,
		SitePay:           &b.SitePay,
		HourlyOvertimePay: &b.HourlyOvertimePay,
		Overtime:          &b.Overtime,
		TotalAmount:       &b.TotalAmount,
		Notes:             notes,
	}
}

func printBreakdown(w io.Writer, b payroll.BreakdownResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Employee\t%s (%s)\n", b.Employee.Name, b.Employee.ID)
	fmt.Fprintf(tw, "Period\t%s .. %s\n", b.StartDate, b.EndDate)
	fmt.Fprintf(tw, "Sites\t%d\n", b.SiteCount)
	fmt.Fprintf(tw, "Site pay\t%s x %d = %s\n", b.UnitPay, b.SiteCount, b.SitePay)
	fmt.Fprintf(tw, "Overtime\t%s h x %s = %s\n", b.OvertimeHours, b.HourlyOvertimePay, b.Overtime)
	fmt.Fprintf(tw, "Work hours\t%s\n", b.WorkHours)
	fmt.Fprintf(tw, "Total\t%s\n", b.TotalAmount)
	for _, s := range b.Sites {
		fmt.Fprintf(tw, "  %s\t%s\n", s.SiteDate, s.Name)
	}
	return tw.Flush()
}

func optionalDecimal(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return &d, nil
}
