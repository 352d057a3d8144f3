package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stepwright/internal/harness"
	"github.com/roach88/stepwright/internal/schema"
)

// Error codes for validate output.
const (
	ErrCodeRead   = "E001"
	ErrCodeSchema = "E002"
)

// FileValidation holds the validation outcome for one scenario file.
type FileValidation struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results for all files.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files against the schema and the step list rules
without executing anything. Faster than run for development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true}
	unreadable := false

	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		fv, readErr := validateFile(path)
		if readErr {
			unreadable = true
		}
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ %d scenario(s) valid\n", len(result.Files))
		return nil
	}

	if formatter.Format == "json" {
		code := ErrCodeSchema
		if unreadable {
			code = ErrCodeRead
		}
		_ = formatter.Error(code, "validation failed", result)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		for _, fv := range result.Files {
			if fv.Valid {
				continue
			}
			fmt.Fprintf(formatter.Writer, "\n%s:\n", fv.Path)
			for _, msg := range fv.Errors {
				fmt.Fprintf(formatter.Writer, "  %s\n", msg)
			}
		}
	}

	// Unreadable input is a command error; schema failures are test failures.
	if unreadable {
		return NewExitError(ExitCommandError, "validation failed: unreadable input")
	}
	return NewExitError(ExitFailure, "validation failed")
}

// validateFile runs schema validation, strict parsing, and step list
// construction for one scenario file. readErr reports that the file
// itself could not be read.
func validateFile(path string) (fv FileValidation, readErr bool) {
	fv = FileValidation{Path: path, Valid: true}
	fail := func(msg string) {
		fv.Valid = false
		fv.Errors = append(fv.Errors, msg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fail(fmt.Sprintf("read: %v", err))
		return fv, true
	}

	if err := schema.ValidateScenarioBytes(path, data); err != nil {
		fail(err.Error())
		return fv, false
	}

	scenario, err := harness.ParseScenario(data)
	if err != nil {
		fail(err.Error())
		return fv, false
	}

	if _, err := harness.BuildSteps(scenario); err != nil {
		fail(err.Error())
	}
	return fv, false
}
