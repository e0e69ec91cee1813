package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableland/pkg/tableland"
)

const modulePath = "github.com/mesh-intelligence/tableland"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tableland version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tableland v%s\nmodule: %s\n", tableland.Version, modulePath)
			return nil
		},
	}
}
