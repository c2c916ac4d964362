package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dubsync/internal/services"
)

// errReported marks a failure whose details were already written to stdout.
var errReported = errors.New("command failed")

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints an engine result and converts a failure into a non-zero
// exit. With --json the envelope is printed as-is.
func writeResult(ctx *commandContext, cmd *cobra.Command, label string, res services.Result) error {
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, res); err != nil {
			return err
		}
		if !res.Succeeded() {
			return errReported
		}
		return nil
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if !res.Succeeded() {
		message := res.Message
		if res.Kind != "" {
			message = fmt.Sprintf("%s (%s)", message, res.Kind)
		}
		fmt.Fprintln(out, renderStatusLine(label, statusError, message, colorize))
		return errReported
	}
	fmt.Fprintln(out, renderStatusLine(label, statusOK, res.Message, colorize))
	if res.Output != "" {
		fmt.Fprintln(out, renderStatusLine("Output", statusInfo, res.Output, colorize))
	}
	if res.RunID != "" {
		fmt.Fprintln(out, renderStatusLine("Run", statusInfo, res.RunID, colorize))
	}
	return nil
}
