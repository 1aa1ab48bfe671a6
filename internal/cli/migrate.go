package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"reserva/internal/infrastructure/mysql"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the catalog replica schema to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := mysql.NewConnection(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := mysql.Migrate(ctx, db); err != nil {
				return err
			}
			version, err := mysql.SchemaVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
}
