package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/tableland/pkg/polling"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// statusOK and statusFail render a resource line for info output.
func statusOK(detail string) string   { return color.GreenString("ok") + "  " + detail }
func statusFail(err error) string     { return color.RedString("unavailable") + "  " + err.Error() }
func statusPending(msg string) string { return color.YellowString("pending") + "  " + msg }

// errorLine renders err for stderr, naming the polling outcome when there is one.
func errorLine(err error) string {
	switch {
	case errors.Is(err, polling.ErrAborted):
		return color.YellowString("aborted: ") + err.Error()
	case errors.Is(err, polling.ErrTimedOut):
		return color.RedString("timed out: ") + err.Error()
	case errors.Is(err, types.ErrMissingConfig):
		return color.RedString("configuration: ") + err.Error()
	default:
		return color.RedString("error: ") + err.Error()
	}
}

// printReceipt writes a receipt in text form.
func printReceipt(w io.Writer, r *types.Receipt) {
	status := color.GreenString("success")
	if r.Failed() {
		status = color.RedString("failed")
	}
	fmt.Fprintf(w, "Transaction:  %s\n", r.TransactionHash)
	fmt.Fprintf(w, "Chain:        %d\n", r.ChainID)
	fmt.Fprintf(w, "Block:        %d\n", r.BlockNumber)
	fmt.Fprintf(w, "Status:       %s\n", status)
	if r.TableID != "" {
		fmt.Fprintf(w, "Table ID:     %s\n", r.TableID)
	}
	if r.Failed() {
		fmt.Fprintf(w, "Error:        %s\n", r.Error)
	}
}
