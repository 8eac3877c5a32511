package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // treat unreachable nodes as errors
}

// ValidationIssue is one error found while validating a directory.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// TreeWarning is a reachability warning for a named tree.
type TreeWarning struct {
	Tree string `json:"tree"`
	compiler.ReachabilityWarning
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Trees    int               `json:"trees"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []TreeWarning     `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <trees-dir>",
		Short: "Validate CUE trees",
		Long: `Validate the CUE tree definitions in a directory.

Every tree is checked, not only the first broken one. Nodes that no tick
can reach (a Selector child after an AlwaysSucceed sibling, a Sequence
child after a sibling that always fails, the child of a loop bounded at
zero) are reported as warnings.

Exit codes:
  0 - All trees valid
  1 - One or more trees invalid (or warnings with --strict)
  2 - Command error (directory missing, CUE does not load)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on unreachable nodes")

	return cmd
}

func runValidate(opts *ValidateOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadTrees(dir, LoadModeCollectAll)
	if loadResult == nil {
		code, message := errorCode(loadErrors[0])
		_ = formatter.Error(code, message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	result := ValidateTrees(loadResult, loadErrors)
	for _, spec := range loadResult.Trees {
		formatter.VerboseLog("Validated tree: %s", spec.Name)
	}

	failed := !result.Valid || (opts.Strict && len(result.Warnings) > 0)
	if formatter.JSON() {
		if !failed {
			return formatter.Success(result)
		}
		code, message := "W001", "unreachable nodes"
		if len(result.Errors) > 0 {
			code, message = result.Errors[0].Code, result.Errors[0].Message
		}
		if err := formatter.Failure(code, message, result); err != nil {
			return err
		}
		return validationExit(result)
	}

	w := formatter.Writer
	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, issue := range result.Errors {
			if issue.Line > 0 {
				fmt.Fprintf(w, "%s:%d\n", issue.File, issue.Line)
			}
			fmt.Fprintf(w, "  %s: %s\n\n", issue.Code, issue.Message)
		}
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: tree %s: %s: %s\n", warn.Tree, warn.Field, warn.Message)
	}
	if failed {
		return validationExit(result)
	}
	fmt.Fprintf(w, "✓ All %d tree(s) valid\n", result.Trees)
	return nil
}

func validationExit(result ValidationResult) error {
	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d unreachable node(s)", len(result.Warnings)))
}

// ValidateTrees turns the outcome of LoadTrees into a report: every load
// error becomes an issue and every compiled tree is checked for
// unreachable nodes.
func ValidateTrees(loadResult *LoadResult, loadErrors []error) ValidationResult {
	result := ValidationResult{Trees: len(loadResult.Trees)}

	for _, err := range loadErrors {
		code, message := errorCode(err)
		issue := ValidationIssue{Code: code, Message: message}
		if le, ok := err.(*LoadError); ok && le.Pos.IsValid() {
			issue.File = le.Pos.Filename()
			issue.Line = le.Pos.Line()
		}
		result.Errors = append(result.Errors, issue)
	}

	for _, spec := range loadResult.Trees {
		for _, w := range compiler.AnalyzeReachability(*spec.Def) {
			result.Warnings = append(result.Warnings, TreeWarning{Tree: spec.Name, ReachabilityWarning: w})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
