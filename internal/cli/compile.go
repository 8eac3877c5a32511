package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledTree is one tree of a compilation result.
type CompiledTree struct {
	Name       string     `json:"name"`
	Hash       string     `json:"hash"`
	Nodes      int        `json:"nodes"`
	Definition ir.TreeDef `json:"definition"`
}

// CompilationResult holds the compiled trees, in declaration order.
type CompilationResult struct {
	Trees []CompiledTree `json:"trees"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <trees-dir>",
		Short: "Compile CUE trees to their definitions",
		Long: `Compile the CUE tree definitions in a directory.

Every tree is parsed, validated and bound to the built-in checks and
actions. The output lists each tree with its content hash, the same hash
recorded with every game played on it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the definitions to this file")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadTrees(dir, LoadModeCollectAll)
	if loadResult == nil {
		return outputCompileError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := &CompilationResult{Trees: make([]CompiledTree, 0, len(loadResult.Trees))}
	for _, spec := range loadResult.Trees {
		formatter.VerboseLog("Compiled tree: %s", spec.Name)
		result.Trees = append(result.Trees, CompiledTree{
			Name:       spec.Name,
			Hash:       spec.Hash,
			Nodes:      countNodes(spec.Def.Root),
			Definition: *spec.Def,
		})
	}

	if opts.Output != "" {
		if err := writeTreesToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d tree(s)\n\n", len(result.Trees))
	for _, t := range result.Trees {
		fmt.Fprintf(w, "  %s: %d node(s), hash %s\n", t.Name, t.Nodes, shortHash(t.Hash))
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote definitions to %s\n", opts.Output)
	}
	return nil
}

func countNodes(n ir.NodeDef) int {
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	if n.Child != nil {
		count += countNodes(*n.Child)
	}
	return count
}

// outputCompileError reports a failure to load the directory at all.
func outputCompileError(formatter *OutputFormatter, err error) error {
	code, message := errorCode(err)
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputCompileErrors reports every tree that failed to compile.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	exitErr := NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			cliErrors[i].Code, cliErrors[i].Message = errorCode(err)
		}
		if err := formatter.Failure(cliErrors[0].Code, cliErrors[0].Message, cliErrors); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	writeLoadErrors(formatter.Writer, errs)
	return exitErr
}

func writeLoadErrors(w io.Writer, errs []error) {
	for _, err := range errs {
		code, message := errorCode(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(w, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		fmt.Fprintf(w, "  %s: %s\n\n", code, message)
	}
}

// errorCode extracts the code and message from a load error.
func errorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeTreesToFile writes the result as indented JSON. Canonical JSON is
// only used for hashing.
func writeTreesToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling trees: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
