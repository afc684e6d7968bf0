package alkane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectivity(t *testing.T) {
	adj := Code{2, 1, 0, 0}.Connectivity()
	expect := Connectivity{
		{1, 3},
		{0, 2},
		{1},
		{0},
	}
	assert.Equal(t, expect, adj)
	assert.Equal(t, 3, adj.NumBonds())
	assert.True(t, adj.IsTree())

	adj = Code{3, 1, 0, 1, 0, 0}.Connectivity()
	expect = Connectivity{
		{1, 3, 5},
		{0, 2},
		{1},
		{0, 4},
		{3},
		{0},
	}
	assert.Equal(t, expect, adj)

	adj = MethaneCode.Connectivity()
	assert.Equal(t, 1, adj.NumAtoms())
	assert.Equal(t, 0, adj.NumBonds())
}

func TestConnectivityReuse(t *testing.T) {
	var adj Connectivity
	Code{4, 0, 0, 0, 0}.ExtractConnectivity(&adj)
	assert.Equal(t, 4, adj.Degree(0))

	Code{1, 0}.ExtractConnectivity(&adj)
	assert.Equal(t, Connectivity{{1}, {0}}, adj)
}

func TestConnectivityBondCount(t *testing.T) {
	for _, str := range []string{"0", "10", "110", "3000", "2100", "21100", "310100", "3110100", "4100100"} {
		X, err := ParseCode(str)
		require.NoError(t, err)
		adj := X.Connectivity()
		assert.Equal(t, X.CarbonCount()-1, adj.NumBonds(), str)
		assert.True(t, adj.IsTree(), str)
		for i := range adj {
			assert.Equal(t, X.Degree(i), adj.Degree(i), "%s atom %d", str, i)
		}
	}
}

func TestAppendCode(t *testing.T) {
	for _, str := range []string{"0", "10", "3000", "2100", "21100", "310100"} {
		X, err := ParseCode(str)
		require.NoError(t, err)
		adj := X.Connectivity()
		assert.Equal(t, X, adj.AppendCode(nil, 0), "%s rooted at atom 0 gives itself back", str)
	}

	adj := Code{2, 1, 0, 0}.Connectivity()
	assert.Equal(t, Code{1, 1, 1, 0}, adj.AppendCode(nil, 2))
	assert.Equal(t, 0, adj.MaxDegreeAtom())
}

func TestMalformedCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		Code{2, 0}.Connectivity()
	})
	assert.Panics(t, func() {
		Code{1}.Connectivity()
	})
}

func TestAddBond(t *testing.T) {
	var adj Connectivity
	adj.Reset(6)
	for i := 1; i <= 4; i++ {
		require.NoError(t, adj.AddBond(0, i))
	}
	assert.ErrorIs(t, adj.AddBond(0, 5), ErrValenceExceeded)
	assert.ErrorIs(t, adj.AddBond(0, 0), ErrBadCode)
	assert.ErrorIs(t, adj.AddBond(0, 6), ErrBadCode)
	assert.False(t, adj.IsTree())
}
