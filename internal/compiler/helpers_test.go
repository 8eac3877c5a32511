package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/require"
)

// counter is the state type used by compiler tests.
type counter struct {
	calls []string
	n     int
}

func testRegistry() Registry[*counter] {
	record := func(name string, result bool) func(*counter) bool {
		return func(c *counter) bool {
			c.calls = append(c.calls, name)
			return result
		}
	}
	return Registry[*counter]{
		"ready":   record("ready", true),
		"blocked": record("blocked", false),
		"attack":  record("attack", true),
		"retreat": record("retreat", false),
		"grow": func(c *counter) bool {
			c.calls = append(c.calls, "grow")
			c.n++
			return c.n < 3
		},
	}
}

// lookupTree compiles src and returns the value at tree.<name>.
func lookupTree(t *testing.T, src, name string) cue.Value {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("trees.cue"))
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath("tree." + name))
}
