package permissionscmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	entitiesrepo "github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	"github.com/zenGate-Global/haulage-backoffice/domains/permissions/be/service"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
)

// Command groups user permission helpers that run directly against a tenant database.
func Command() *cobra.Command {
	var (
		sqlServerURL string
		database     string
	)

	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Inspect and overwrite user menu permissions",
	}
	cmd.PersistentFlags().StringVar(&sqlServerURL, "sqlserver-url", "", "SQL Server URL without a database")
	cmd.PersistentFlags().StringVar(&database, "database", "", "Tenant database name")
	_ = cmd.MarkPersistentFlagRequired("sqlserver-url")
	_ = cmd.MarkPersistentFlagRequired("database")

	open := func() (service.Service, func(), error) {
		logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "backoffice-cli", Level: "warn", Format: "console"})
		if err != nil {
			return nil, nil, fmt.Errorf("init logger: %w", err)
		}
		tenantDB, err := persistence.NewTenantDB(persistence.TenantDBConfig{URL: sqlServerURL, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("init sql server: %w", err)
		}
		space := tenant.Space{Slug: database, Database: database}
		store := entitiesrepo.NewUserSecurity(tenantDB.Provider(space))
		return service.New(store, logger), func() {
			_ = tenantDB.Close()
			_ = logger.Sync()
		}, nil
	}

	cmd.AddCommand(applyRoleCommand(open))
	cmd.AddCommand(showCommand(open))
	return cmd
}

type opener func() (service.Service, func(), error)

func applyRoleCommand(open opener) *cobra.Command {
	var userID, role string

	c := &cobra.Command{
		Use:   "apply-role",
		Short: "Grant every menu key of a role template and deny all others",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := svc.ApplyRoleTemplate(context.Background(), userID, role)
			if err != nil {
				return fmt.Errorf("apply role %s to %s: %w", role, userID, err)
			}
			if !report.OK() {
				return fmt.Errorf("apply role %s to %s: %d key(s) failed: %v", role, userID, len(report.Failed), report.Failed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied role %s to %s (%d keys written).\n", role, userID, len(report.Saved))
			return nil
		},
	}

	c.Flags().StringVar(&userID, "user", "", "Target user id")
	c.Flags().StringVar(&role, "role", "", "Role template name")
	_ = c.MarkFlagRequired("user")
	_ = c.MarkFlagRequired("role")
	return c
}

func showCommand(open opener) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "show",
		Short: "List every menu key with the user's grant",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			perms, err := svc.UserPermissions(context.Background(), userID)
			if err != nil {
				return fmt.Errorf("load permissions for %s: %w", userID, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SECTION\tMENU KEY\tGRANTED\tDESCRIPTION")
			for _, p := range perms {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", p.Section, p.MenuKey, p.Granted, p.Description)
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVar(&userID, "user", "", "Target user id")
	_ = c.MarkFlagRequired("user")
	return c
}
