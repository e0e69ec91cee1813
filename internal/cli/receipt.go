package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

func newReceiptCmd(a *app) *cobra.Command {
	var wf waitFlags
	cmd := &cobra.Command{
		Use:   "receipt <transaction-hash>",
		Short: "Fetch the receipt of a submitted transaction",
		Long: `Receipt asks the read API for the receipt of a transaction. With --wait it
polls until the receipt appears, the timeout passes, or Ctrl-C aborts.

Example:
  tableland receipt --chain base-sepolia 0x8a3c...
  tableland receipt --chain local-tableland --wait --timeout 30s 0x8a3c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			chainID, err := chainIDOf(conn)
			if err != nil {
				return err
			}
			v, err := conn.Validator()
			if err != nil {
				return err
			}

			var r *types.Receipt
			if wf.wait {
				r, err = v.WaitForReceipt(ctx, chainID, args[0], wf.controller(a, chainID))
			} else {
				r, err = v.GetReceipt(ctx, chainID, args[0])
				if errors.Is(err, types.ErrReceiptNotFound) {
					if a.flags.jsonMode {
						return printJSON(cmd.OutOrStdout(), map[string]string{"status": "pending", "transaction_hash": args[0]})
					}
					fmt.Fprintln(cmd.OutOrStdout(), statusPending("the read API has not processed "+args[0]+" yet"))
					return nil
				}
			}
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), r)
			}
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		},
	}
	wf.register(cmd, false)
	return cmd
}
