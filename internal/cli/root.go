// Package cli implements the tableland command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tableland/internal/logging"
	"github.com/mesh-intelligence/tableland/internal/paths"
	"github.com/mesh-intelligence/tableland/pkg/polling"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
	exitAborted   = 130
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	jsonMode  bool
}

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	flags  rootFlags
	v      *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "tableland" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tableland",
		Short: "Submit statements and read results from Tableland networks",
		Long: `tableland submits SQL statements to the on-chain registry, waits for the
read API to confirm them, and queries table data.

Configuration is read from config.yaml in the config directory, from
TABLELAND_* environment variables, and from flags, in increasing precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.String(cfgKeyChain, "", "network name or chain id")
	pf.String(flagBaseURL, "", "read API base url (default: the network's)")
	pf.String(flagProviderURL, "", "EVM provider url (default: the network's)")
	pf.String(flagPrivateKey, "", "hex private key (prefer TABLELAND_PRIVATE_KEY)")
	pf.String(flagLogLevel, "", "log level: trace, debug, info, warn, error")
	pf.String(flagLogFormat, "", "log format: text or json")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInfoCmd(a))
	root.AddCommand(newReceiptCmd(a))
	root.AddCommand(newExecCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir, cmd)
	if err != nil {
		return err
	}
	a.v = v

	logger, err := logging.Setup(v.GetString(cfgKeyLogLevel), v.GetString(cfgKeyLogFormat), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	logger.Debug("Configuration loaded", "config_dir", configDir, "file", v.ConfigFileUsed())
	return nil
}

// Execute runs the root command and exits with the appropriate code.
// Interrupts cancel the command context, which aborts any receipt wait.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, polling.ErrAborted):
		return exitAborted
	case errors.Is(err, types.ErrMissingConfig),
		errors.Is(err, types.ErrUnsupportedNetwork),
		errors.Is(err, types.ErrInvalidPrivateKey),
		errors.Is(err, types.ErrInvalidBaseURL),
		errors.Is(err, types.ErrInvalidProviderURL),
		errors.Is(err, types.ErrChainMismatch),
		errors.Is(err, types.ErrNoTableID),
		errors.Is(err, types.ErrStatementFailed):
		return exitUserError
	default:
		return exitSysError
	}
}
