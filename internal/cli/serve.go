package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableland/internal/localnode"
	"github.com/mesh-intelligence/tableland/internal/paths"
	"github.com/mesh-intelligence/tableland/pkg/tableland"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		dataDir string
		memory  bool
		listen  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local read API backed by SQLite",
		Long: `Serve runs a local stand-in for the read API under /api/v1. State is kept
in the data directory (--data-dir > data_dir in config.yaml >
TABLELAND_DATA_DIR > platform default) unless --memory is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if !memory {
				var err error
				dir, err = paths.ResolveDataDir(dataDir, a.v.GetString(cfgKeyDataDir))
				if err != nil {
					return err
				}
			}
			if listen == "" {
				listen = a.v.GetString(cfgKeyListen)
			}

			node := localnode.New(localnode.WithVersion(tableland.Version), localnode.WithLogger(a.logger))
			if err := node.Attach(dir); err != nil {
				return err
			}
			defer node.Detach()

			return node.ListenAndServe(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "local node data directory")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep local node state in memory")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default 127.0.0.1:8080)")
	return cmd
}
