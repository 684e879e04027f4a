package tenantcmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/repo"
	"github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
)

// Command groups tenant registry helpers.
func Command() *cobra.Command {
	var (
		registryURL string
		schema      string
	)

	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Register, list and enable/disable tenant databases",
	}
	cmd.PersistentFlags().StringVar(&registryURL, "registry-url", "", "PostgreSQL connection string of the tenant registry")
	cmd.PersistentFlags().StringVar(&schema, "schema", persistence.DefaultRegistrySchema, "Registry schema name")
	_ = cmd.MarkPersistentFlagRequired("registry-url")

	open := func(ctx context.Context, checker service.DatabaseChecker) (*service.Service, func(), error) {
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: registryURL})
		if err != nil {
			return nil, nil, fmt.Errorf("init pool: %w", err)
		}
		store, err := persistence.NewTenantStore(pool, schema)
		if err != nil {
			persistence.ClosePool(pool)
			return nil, nil, fmt.Errorf("init tenant store: %w", err)
		}
		return service.New(repo.NewPostgresRepository(store), checker), func() { persistence.ClosePool(pool) }, nil
	}

	cmd.AddCommand(registerCommand(open))
	cmd.AddCommand(listCommand(open))
	cmd.AddCommand(setActiveCommand("enable", true, open))
	cmd.AddCommand(setActiveCommand("disable", false, open))
	return cmd
}

type opener func(ctx context.Context, checker service.DatabaseChecker) (*service.Service, func(), error)

func registerCommand(open opener) *cobra.Command {
	var (
		slug         string
		displayName  string
		database     string
		sqlServerURL string
	)

	c := &cobra.Command{
		Use:   "register",
		Short: "Register a tenant database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var checker service.DatabaseChecker
			if sqlServerURL != "" {
				tenantDB, err := persistence.NewTenantDB(persistence.TenantDBConfig{URL: sqlServerURL, Logger: zap.NewNop()})
				if err != nil {
					return fmt.Errorf("init sql server: %w", err)
				}
				defer tenantDB.Close()
				checker = tenantDB
			}

			svc, closeFn, err := open(ctx, checker)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.Register(ctx, service.RegisterInput{Slug: slug, DisplayName: displayName, Database: database})
			if err != nil {
				return fmt.Errorf("register tenant: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered tenant %s (%s) -> %s\n", t.Slug, t.ID, t.Database)
			return nil
		},
	}

	c.Flags().StringVar(&slug, "slug", "", "Tenant slug used at login")
	c.Flags().StringVar(&displayName, "name", "", "Display name shown on the login screen")
	c.Flags().StringVar(&database, "database", "", "SQL Server database name")
	c.Flags().StringVar(&sqlServerURL, "sqlserver-url", "", "Check the database through this server before registering")
	_ = c.MarkFlagRequired("slug")
	_ = c.MarkFlagRequired("database")

	return c
}

func listCommand(open opener) *cobra.Command {
	var all bool

	c := &cobra.Command{
		Use:   "list",
		Short: "List registered tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			svc, closeFn, err := open(ctx, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			tenants, err := svc.List(ctx, all)
			if err != nil {
				return fmt.Errorf("list tenants: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tDATABASE\tACTIVE")
			for _, t := range tenants {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", t.Slug, t.DisplayName, t.Database, t.Active)
			}
			return tw.Flush()
		},
	}

	c.Flags().BoolVar(&all, "all", false, "Include disabled tenants")
	return c
}

func setActiveCommand(use string, active bool, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: fmt.Sprintf("%s sign-in for a tenant", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			svc, closeFn, err := open(ctx, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.SetActive(ctx, args[0], active); err != nil {
				return fmt.Errorf("%s tenant %s: %w", use, args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s %sd.\n", args[0], use)
			return nil
		},
	}
}
