package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/strategy"
)

func TestStrategies_Text(t *testing.T) {
	out, _, err := runCLI(t, "", "strategies")

	require.NoError(t, err)
	for _, name := range strategy.Names() {
		assert.Contains(t, out, name)
		assert.Contains(t, out, strategy.Describe(name))
	}
	assert.Contains(t, out, "balanced (default)")
}

func TestStrategies_JSON(t *testing.T) {
	out, _, err := runCLI(t, "", "strategies", "--format", "json")
	require.NoError(t, err)

	var infos []StrategyInfo
	resp := decodeResponse(t, out, &infos)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, infos, len(strategy.Names()))

	hashes := map[string]bool{}
	for _, info := range infos {
		assert.Len(t, info.Hash, 64)
		hashes[info.Hash] = true
		assert.Equal(t, info.Name == strategy.DefaultStrategy, info.Default)
	}
	assert.Len(t, hashes, len(infos), "every strategy has a distinct topology")
}
