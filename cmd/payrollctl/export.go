package main

import (
	"github.com/spf13/cobra"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved payroll records to stdout as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return svc.ExportPayrollRecords(cmd.Context(), root.userID, opts.filter(), cmd.OutOrStdout())
		},
	}

	opts.register(cmd)
	return cmd
}
