package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableland/pkg/polling"
)

func newExecCmd(a *app) *cobra.Command {
	var wf waitFlags
	cmd := &cobra.Command{
		Use:   "exec <statement>",
		Short: "Submit a mutating statement",
		Long: `Exec submits a CREATE, INSERT, UPDATE, DELETE or GRANT statement to the
registry. Table aliases recorded by earlier creates are substituted. With
--wait (or auto_wait in config.yaml) it waits for the receipt.

Example:
  tableland exec --chain local-tableland "create table pets (id integer, name text)"
  tableland exec --chain local-tableland --wait "insert into pets_31337_2 values (1, 'rex')"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("wait") {
				a.v.Set(cfgKeyAutoWait, wf.wait)
			}
			ctx := cmd.Context()
			conn, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			db, err := conn.DatabaseFacade()
			if err != nil {
				return err
			}

			var ctrl *polling.Controller
			if a.v.GetBool(cfgKeyAutoWait) {
				ctrl = wf.controller(a, db.ChainID())
			}
			res, err := db.ExecWith(ctx, args[0], ctrl)
			if res != nil && a.flags.jsonMode {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			} else if res != nil {
				w := cmd.OutOrStdout()
				if res.Receipt != nil {
					printReceipt(w, res.Receipt)
				} else {
					fmt.Fprintf(w, "Transaction:  %s\nChain:        %d\n", res.Hash, res.ChainID)
				}
			}
			return err
		},
	}
	wf.register(cmd, false)
	return cmd
}
