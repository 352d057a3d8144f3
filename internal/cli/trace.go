package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stepwright/internal/trace"
)

// TraceReport is one step report in trace output.
type TraceReport struct {
	Seq     int64  `json:"seq"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// TraceResult holds trace command output.
type TraceResult struct {
	Runs    []string      `json:"runs,omitempty"`
	RunID   string        `json:"run_id,omitempty"`
	Reports []TraceReport `json:"reports,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <db> [run-id]",
		Short: "Inspect persisted step reports",
		Long: `Inspect a trace database written by run --db.

With only a database path, lists all run IDs. With a run ID, prints the
run's step reports in order.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runTrace(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dbPath := args[0]
	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error(ErrCodeRead, err.Error(), nil)
		return WrapExitError(ExitCommandError, "trace database", err)
	}

	st, err := trace.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeRead, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open trace database", err)
	}
	defer st.Close()

	ctx := context.Background()

	if len(args) == 1 {
		return listRuns(ctx, formatter, st)
	}
	return listReports(ctx, formatter, st, args[1])
}

func listRuns(ctx context.Context, formatter *OutputFormatter, st *trace.Store) error {
	runs, err := st.RunIDs(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeRead, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(TraceResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}
	for _, id := range runs {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}

func listReports(ctx context.Context, formatter *OutputFormatter, st *trace.Store, runID string) error {
	reports, err := st.Reports(ctx, runID)
	if err != nil {
		_ = formatter.Error(ErrCodeRead, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read reports", err)
	}

	if len(reports) == 0 {
		_ = formatter.Error(ErrCodeRead, fmt.Sprintf("no reports for run %q", runID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("no reports for run %q", runID))
	}

	if formatter.Format == "json" {
		result := TraceResult{RunID: runID}
		for _, r := range reports {
			result.Reports = append(result.Reports, TraceReport{
				Seq:     r.Seq,
				Passed:  r.Passed,
				Message: r.Message,
			})
		}
		return formatter.Success(result)
	}

	for _, r := range reports {
		fmt.Fprintf(formatter.Writer, "%4d  %s\n", r.Seq, r.Message)
	}
	return nil
}
