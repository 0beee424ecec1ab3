package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sitecrew/sitecrew-backend-go/internal/config"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/payroll"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew/sitecrew-backend-go/internal/repository/postgresql"
	payrollService "github.com/sitecrew/sitecrew-backend-go/internal/service/payroll"
	siteService "github.com/sitecrew/sitecrew-backend-go/internal/service/site"
	"github.com/spf13/cobra"
)

// serviceOpener returns a payroll service and a func releasing what it holds.
type serviceOpener func(ctx context.Context) (payroll.PayrollService, func(), error)

type rootOptions struct {
	userID string
	open   serviceOpener
}

func newRootCmd(open serviceOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "payrollctl",
		Short: "Calculate and inspect site payroll from the command line",
		Long: `payrollctl runs the payroll services directly against the database
configured through the environment (.env is honoured). Every command acts
on behalf of the account given with --user.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.userID, "user", "", "ID of the account that owns the employees")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(newCalculateCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// openFromEnv wires the postgres-backed payroll service the same way the API does.
func openFromEnv(ctx context.Context) (payroll.PayrollService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.App.SlogLevel() <= slog.LevelDebug {
		logger = slog.Default()
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	siteRepo := postgresql.NewSiteRepository(db)
	svc := payrollService.NewPayrollService(
		postgresql.NewPayrollRepository(db),
		postgresql.NewEmployeeRepository(db),
		siteService.NewRosterResolver(siteRepo),
		logger,
	)
	return svc, db.Close, nil
}
