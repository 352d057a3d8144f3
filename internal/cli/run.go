package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stepwright/internal/harness"
	"github.com/roach88/stepwright/internal/trace"
)

// RunOutcome holds the outcome of one scenario run.
type RunOutcome struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Pass       bool     `json:"pass"`
	RunID      string   `json:"run_id"`
	Transcript []string `json:"transcript"`
	Errors     []string `json:"errors,omitempty"`
}

// RunResult holds the outcomes of all scenario runs.
type RunResult struct {
	Pass     bool         `json:"pass"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Outcomes []RunOutcome `json:"outcomes"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files",
		Long: `Run scenario YAML files against the in-memory toolkit.

Each scenario executes in isolation. With --db, step reports persist to
a SQLite trace database for later inspection with the trace command.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, dbPath, args, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "persist step reports to this SQLite database")

	return cmd
}

func runScenarios(opts *RootOptions, dbPath string, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var st *trace.Store
	if dbPath != "" {
		var err error
		st, err = trace.Open(dbPath)
		if err != nil {
			_ = formatter.Error(ErrCodeRead, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open trace database", err)
		}
		defer st.Close()
	}

	result := RunResult{Pass: true}

	for _, path := range paths {
		formatter.VerboseLog("Running %s", path)
		outcome, err := runScenarioFile(path, st)
		if err != nil {
			_ = formatter.Error(ErrCodeRead, err.Error(), nil)
			return WrapExitError(ExitCommandError, path, err)
		}

		if outcome.Pass {
			result.Passed++
		} else {
			result.Failed++
			result.Pass = false
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printRunResult(formatter, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// runScenarioFile loads and executes one scenario file.
// Returns a command error only when the file cannot be loaded or the
// runtime itself fails; scenario failures land in the outcome.
func runScenarioFile(path string, st *trace.Store) (RunOutcome, error) {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return RunOutcome{}, err
	}

	var result *harness.Result
	if st != nil {
		result, err = harness.RunWith(scenario, st)
	} else {
		result, err = harness.Run(scenario)
	}
	if err != nil {
		return RunOutcome{}, err
	}

	return RunOutcome{
		Path:       path,
		Name:       scenario.Name,
		Pass:       result.Pass,
		RunID:      result.RunID,
		Transcript: result.Transcript,
		Errors:     result.Errors,
	}, nil
}

func printRunResult(formatter *OutputFormatter, result RunResult) {
	for _, outcome := range result.Outcomes {
		mark := "✓"
		if !outcome.Pass {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s (%s)\n", mark, outcome.Name, outcome.Path)

		if formatter.Verbose {
			for _, line := range outcome.Transcript {
				fmt.Fprintf(formatter.Writer, "    %s\n", line)
			}
		}
		for _, msg := range outcome.Errors {
			fmt.Fprintf(formatter.Writer, "    %s\n", msg)
		}
	}

	fmt.Fprintf(formatter.Writer, "\n%d passed, %d failed\n", result.Passed, result.Failed)
}
