package cli

import (
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <statement>",
		Short: "Run a read statement against the read API",
		Long: `Query sends a SELECT statement to the read API and prints the rows as JSON.

Example:
  tableland query --chain base-sepolia "select * from healthbot_84532_1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			db, err := conn.Database()
			if err != nil {
				return err
			}
			rows, err := db.Query(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
}
