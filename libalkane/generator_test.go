package libalkane

import (
	"testing"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectCandidates(parents *alkane.IsomerSet) []string {
	var gen Generator
	var out []string
	gen.Extend(parents, func(X alkane.Code) {
		out = append(out, X.String())
	})
	return out
}

func TestGenerator(t *testing.T) {
	methane := alkane.NewMethaneSet()
	assert.Equal(t, []string{"10"}, collectCandidates(methane))

	propane := alkane.NewIsomerSet(3, 0)
	require.NoError(t, propane.Append(alkane.Code{2, 0, 0}))
	assert.Equal(t, []string{"3000", "2100", "2010"}, collectCandidates(propane))

	butanes := alkane.NewIsomerSet(4, 0)
	require.NoError(t, butanes.Append(alkane.Code{3, 0, 0, 0}))
	require.NoError(t, butanes.Append(alkane.Code{2, 1, 0, 0}))

	// parents in acceptance order, positions left to right; 2100 cannot branch at its second atom
	got := collectCandidates(butanes)
	assert.Equal(t, []string{
		"40000", "31000", "30100", "30010",
		"30100", "21100", "21010",
	}, got)
	for _, str := range got {
		X, err := alkane.ParseCode(str)
		require.NoError(t, err)
		assert.NoError(t, X.Validate(), str)
		assert.Equal(t, 5, X.CarbonCount())
	}
}

func TestGeneratorCounts(t *testing.T) {
	var gen Generator
	neopentane := alkane.Code{4, 0, 0, 0, 0}
	n := 0
	gen.ExtendParent(neopentane, func(X alkane.Code) {
		n++
		assert.Equal(t, byte(4), X[0], "the root is already saturated")
	})
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), gen.NumCandidates())

	// ethane only grows at its root
	var ethaneExt []string
	gen.ExtendParent(alkane.Code{1, 0}, func(X alkane.Code) {
		ethaneExt = append(ethaneExt, X.String())
	})
	assert.Equal(t, []string{"200"}, ethaneExt)
	assert.Equal(t, int64(5), gen.NumCandidates())
}
