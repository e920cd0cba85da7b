package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Source RuleSource                 `json:"source"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [rules-dir]",
		Short: "Validate a CUE rule table",
		Long: `Validate a directory of CUE rule files without running a consultation.

Checks syntax, required fields and table consistency: every rule needs at
least one symptom and a diagnosis, and rule IDs must be unique. All problems
are reported, not only the first.

Without an argument, validates HWDIAG_RULES or the built-in table.

Exit codes:
  0 - Rule table valid
  1 - Rule table has validation errors
  2 - Command error (directory not found, CUE syntax error, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				cfg, err := rootOpts.loadConfig(rootOpts.formatter(cmd))
				if err != nil {
					return err
				}
				dir = cfg.RulesDir
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, rulesDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, src, verrs, err := loadEngine(rulesDir)
	if err != nil {
		// Per-rule compile errors carry a position; report them like
		// validation errors so the line is shown.
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) {
			return outputValidationErrors(formatter, src, []compiler.ValidationError{{
				Field:   compileErr.Field,
				Message: compileErr.Message,
				Code:    mapCompileErrorToCode(compileErr.Field),
				Line:    lineOf(compileErr.Pos),
			}})
		}
		return outputValidateError(formatter, loadErrorCode(err), err.Error(), nil)
	}

	if src.Dir != "" {
		formatter.VerboseLog("Found %d CUE file(s) in %s", src.FileCount, src.Dir)
	} else {
		formatter.VerboseLog("Validating built-in rule table")
	}

	if len(verrs) > 0 {
		return outputValidationErrors(formatter, src, verrs)
	}

	return outputValidateSuccess(formatter, src)
}

// mapCompileErrorToCode maps a compile error field to a validation error code.
func mapCompileErrorToCode(field string) string {
	switch field {
	case "symptoms":
		return compiler.ErrRuleEmptyConditions
	case "diagnosis":
		return compiler.ErrRuleEmptyDiagnosis
	default:
		return ErrCodeGeneric
	}
}

// lineOf extracts the line number from a token.Pos.
func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, src RuleSource) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Source: src})
	}

	fmt.Fprintf(formatter.Writer, "%s (%d rules, hash %s)\n",
		successStyle.Sprint("✓ Rule table valid"), src.RuleCount, shortHash(src.RulesHash))
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, src RuleSource, errs []compiler.ValidationError) error {
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Source: src,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, errorStyle.Sprint("✗ Validation failed"))
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// shortHash abbreviates a hex rules hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
