package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dubsync/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, back-ends and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			failed := preflight.Failed(results)

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range preflightLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results)+1)
	missing := make([]string, 0)
	for _, r := range results {
		if r.Passed {
			message := "Ready"
			if r.Version != "" {
				message = fmt.Sprintf("Ready (%s)", r.Version)
			} else if r.Detail != "" {
				message = fmt.Sprintf("Ready (%s)", r.Detail)
			}
			lines = append(lines, renderStatusLine(r.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(r.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if r.Optional {
			kind = statusWarn
		} else {
			missing = append(missing, r.Name)
		}
		lines = append(lines, renderStatusLine(r.Name, kind, detail, colorize))
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusError, strings.Join(missing, ", "), colorize))
	}
	return lines
}
