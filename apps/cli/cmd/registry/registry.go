package registry

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
)

// Command groups tenant registry maintenance.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Tenant registry database utilities",
	}

	cmd.AddCommand(bootstrapCommand())
	return cmd
}

func bootstrapCommand() *cobra.Command {
	var (
		databaseURL string
		schema      string
	)

	c := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the registry schema and tenants table (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.BootstrapRegistry(ctx, pool, schema); err != nil {
				return fmt.Errorf("bootstrap registry: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registry schema %q is ready.\n", schema)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "registry-url", "", "PostgreSQL connection string of the tenant registry")
	c.Flags().StringVar(&schema, "schema", persistence.DefaultRegistrySchema, "Registry schema name")
	_ = c.MarkFlagRequired("registry-url")

	return c
}
