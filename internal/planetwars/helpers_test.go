package planetwars

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// twoPlayerMap is a small map with two of my planets, two enemy planets and
// two neutrals. IDs follow line order.
const twoPlayerMap = `
# id 0..5
P 0 0 1 100 5
P 3 4 1 20 2
P 10 0 2 40 5
P 20 0 2 15 3
P 5 5 0 8 1
P 1 1 0 12 1
F 2 10 2 0 10 4
`

func mustParse(t *testing.T, text string) *State {
	t.Helper()
	s, err := ParseState(text)
	require.NoError(t, err)
	return s
}
