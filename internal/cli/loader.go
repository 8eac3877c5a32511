package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/strategy"
)

// LoadMode controls how errors are handled during tree loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult holds the trees compiled from a directory.
type LoadResult struct {
	Trees     []*compiler.TreeSpec[strategy.State]
	CUEValue  cue.Value
	FileCount int
}

// LoadError is a loading or compilation failure with an error code.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes shared by all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeNoTrees     = "E008" // No tree definitions found
)

// LoadTrees compiles every tree defined by the CUE package in dir against
// the built-in function registry.
func LoadTrees(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("trees directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing trees directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	specs, compileErrs := compiler.CompileTrees(value, strategy.Functions(), mode == LoadModeFailFast)
	result.Trees = specs

	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
	}
	if len(specs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoTrees, Message: "no trees found in " + dir})
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError keeps the position of compiler errors. The compiler
// already prefixes validation messages with their own code.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// TreeSource selects the tree a command runs: a built-in strategy, or a
// tree from a CUE file.
type TreeSource struct {
	Strategy string
	File     string
	Name     string
}

// ResolvedTree is a root ready to hand to the engine. Hash is empty for
// built-in strategies, which the engine hashes itself.
type ResolvedTree struct {
	Name string
	Root bt.Node[strategy.State]
	Hash string
	Def  *ir.TreeDef // nil for built-in strategies
}

// Resolve builds the selected tree.
func (s TreeSource) Resolve() (*ResolvedTree, error) {
	if s.File == "" {
		name := s.Strategy
		if name == "" {
			name = strategy.DefaultStrategy
		}
		root, err := strategy.Root(name)
		if err != nil {
			return nil, err
		}
		return &ResolvedTree{Name: name, Root: root}, nil
	}

	specs, err := compiler.LoadFile(s.File, strategy.Functions())
	if err != nil {
		return nil, err
	}
	spec, err := compiler.Select(specs, s.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.File, err)
	}
	return &ResolvedTree{Name: spec.Name, Root: spec.Root, Hash: spec.Hash, Def: spec.Def}, nil
}

func (s TreeSource) check() error {
	if s.File != "" && s.Strategy != "" {
		return NewExitError(ExitCommandError, "--strategy and --tree are mutually exclusive")
	}
	if s.Name != "" && s.File == "" {
		return NewExitError(ExitCommandError, "--tree-name requires --tree")
	}
	return nil
}

func bindTreeFlags(cmd *cobra.Command, s *TreeSource) {
	cmd.Flags().StringVarP(&s.Strategy, "strategy", "s", "", fmt.Sprintf("built-in strategy (default %q)", strategy.DefaultStrategy))
	cmd.Flags().StringVar(&s.File, "tree", "", "CUE file defining the tree")
	cmd.Flags().StringVar(&s.Name, "tree-name", "", "tree to use when the file defines several")
}
