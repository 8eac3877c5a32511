package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// CompileTrees compiles every tree under the top-level "tree" struct of v,
// in declaration order. With failFast set it stops at the first error;
// otherwise it returns every tree that compiled together with all errors.
func CompileTrees[S any](v cue.Value, reg Registry[S], failFast bool) ([]*TreeSpec[S], []error) {
	treesVal := v.LookupPath(cue.ParsePath("tree"))
	if !treesVal.Exists() {
		return nil, nil
	}

	iter, err := treesVal.Fields()
	if err != nil {
		return nil, []error{fmt.Errorf("iterating trees: %w", formatCUEError(err))}
	}

	var (
		specs []*TreeSpec[S]
		errs  []error
	)
	for iter.Next() {
		spec, err := CompileTree(iter.Value(), reg)
		if err != nil {
			errs = append(errs, err)
			if failFast {
				return specs, errs
			}
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

// LoadFile compiles a single CUE file and returns its trees.
func LoadFile[S any](path string, reg Registry[S]) ([]*TreeSpec[S], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	specs, errs := CompileTrees(v, reg, true)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%s: no trees found", path)
	}
	return specs, nil
}

// Select returns the tree called name, or the only tree when name is empty.
func Select[S any](specs []*TreeSpec[S], name string) (*TreeSpec[S], error) {
	if name == "" {
		if len(specs) == 1 {
			return specs[0], nil
		}
		return nil, fmt.Errorf("%d trees defined, name one of them", len(specs))
	}
	for _, s := range specs {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("tree %q not found", name)
}
