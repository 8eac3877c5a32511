package bt

// Validate checks that root is fit for execution.
//
// It reports the first of: a nil root, a nil composite child, a decorator
// without a child, a leaf without a callable or label, or a negative loop
// bound. Cycles are not reported (execution does not guard against them),
// but Validate itself terminates on a cyclic topology.
func Validate[S any](root Node[S]) error {
	if root == nil {
		return &ConstructionError{Code: ErrCodeNilRoot, Message: "tree has no root node"}
	}

	var err error
	walk(root, nil, func(n Node[S], path *ancestry, cycle bool) bool {
		if err != nil || cycle {
			return false
		}
		err = validateNode(n, path)
		return err == nil
	})
	return err
}

func validateNode[S any](n Node[S], path *ancestry) error {
	if n == nil {
		return newConstructionError(ErrCodeMissingChild, "composite has a nil child", path)
	}

	switch v := n.(type) {
	case *Check[S]:
		return validateLeaf(v.fn, v.label, KindCheck, path)
	case *Action[S]:
		return validateLeaf(v.fn, v.label, KindAction, path)
	case *Inverter[S], *AlwaysSucceed[S]:
		if len(v.Children()) == 0 {
			return newConstructionError(ErrCodeMissingChild, v.Label()+" has no child", path)
		}
	case *LoopUntilFail[S]:
		if v.maxIterations < 0 {
			return newConstructionError(ErrCodeNegativeBound, v.Label()+" has a negative bound", path)
		}
		if v.child == nil {
			return newConstructionError(ErrCodeMissingChild, v.Label()+" has no child", path)
		}
	case *observed[S]:
		return validateNode(v.inner, path)
	}
	return nil
}

func validateLeaf[S any](fn func(S) bool, label string, kind Kind, path *ancestry) error {
	if label == "" {
		return newConstructionError(ErrCodeEmptyLabel, kind.String()+" has no label", path)
	}
	if fn == nil {
		return newConstructionError(ErrCodeMissingCallable, annotate(kind, label)+" has no function", path)
	}
	return nil
}
