package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	employeeID string
	startDate  string
	endDate    string
	page       int
	limit      int
}

func (o *filterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.employeeID, "employee", "", "only records of this employee")
	cmd.Flags().StringVar(&o.startDate, "start", "", "only records whose period starts on or after this date")
	cmd.Flags().StringVar(&o.endDate, "end", "", "only records whose period starts on or before this date")
	cmd.Flags().IntVar(&o.page, "page", 1, "page number")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "records per page, 0 for all")
}

func (o *filterOptions) filter() payroll.PayrollFilter {
	return payroll.PayrollFilter{
		EmployeeID: nonEmpty(o.employeeID),
		StartDate:  nonEmpty(o.startDate),
		EndDate:    nonEmpty(o.endDate),
		Page:       o.page,
		Limit:      o.limit,
	}
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved payroll records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.ListPayrollRecords(cmd.Context(), root.userID, opts.filter())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMPLOYEE\tPERIOD\tSITES\tTOTAL\tSTATUS")
			for _, r := range result.Data {
				fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%d\t%s\t%s\n",
					r.ID, r.EmployeeName, r.StartDate, r.EndDate, r.SiteCount, r.TotalAmount, r.Status)
			}
			fmt.Fprintf(tw, "\n%d of %d records\n", len(result.Data), result.TotalCount)
			return tw.Flush()
		},
	}

	opts.register(cmd)
	return cmd
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
