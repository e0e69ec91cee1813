package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type infoOutput struct {
	Network  string   `json:"network,omitempty"`
	ChainID  int64    `json:"chain_id,omitempty"`
	Signer   string   `json:"signer,omitempty"`
	Registry bool     `json:"registry"`
	BaseURL  string   `json:"base_url,omitempty"`
	Healthy  bool     `json:"healthy"`
	ReadOnly bool     `json:"read_only"`
	Problems []string `json:"problems,omitempty"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show which resources the configuration provides",
		Long: `Info prepares a connection from the current configuration and reports
the network, signer, registry and read API it resolved. Missing resources are
listed with the configuration that would provide them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			var out infoOutput
			w := cmd.OutOrStdout()
			lines := make([][2]string, 0, 5)

			if n, err := conn.Network(); err != nil {
				out.Problems = append(out.Problems, err.Error())
				lines = append(lines, [2]string{"Network", statusFail(err)})
			} else {
				out.Network, out.ChainID = n.Name, n.ChainID
				lines = append(lines, [2]string{"Network", statusOK(fmt.Sprintf("%s (%d)", n.Name, n.ChainID))})
			}

			if s, err := conn.Signer(); err != nil {
				out.Problems = append(out.Problems, err.Error())
				lines = append(lines, [2]string{"Signer", statusFail(err)})
			} else {
				out.Signer = s.Address()
				lines = append(lines, [2]string{"Signer", statusOK(s.Address())})
			}

			if _, err := conn.Registry(); err != nil {
				lines = append(lines, [2]string{"Registry", statusFail(err)})
			} else {
				out.Registry = true
				lines = append(lines, [2]string{"Registry", statusOK("")})
			}

			if v, err := conn.Validator(); err != nil {
				out.Problems = append(out.Problems, err.Error())
				lines = append(lines, [2]string{"Read API", statusFail(err)})
			} else {
				out.BaseURL = v.BaseURL()
				if err := v.Health(ctx); err != nil {
					lines = append(lines, [2]string{"Read API", statusFail(err)})
				} else {
					out.Healthy = true
					lines = append(lines, [2]string{"Read API", statusOK(v.BaseURL())})
				}
			}

			if db, err := conn.Database(); err == nil {
				out.ReadOnly = db.ReadOnly()
			}

			if a.flags.jsonMode {
				return printJSON(w, out)
			}
			for _, l := range lines {
				fmt.Fprintf(w, "%-10s %s\n", l[0]+":", l[1])
			}
			if out.ReadOnly {
				fmt.Fprintln(w, "Mode:      read-only")
			}
			return nil
		},
	}
}
