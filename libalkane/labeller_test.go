package libalkane

import (
	"context"
	"math/rand"
	"testing"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLabellers = []alkane.LabellerKind{
	alkane.LabellerMorgan,
	alkane.LabellerAHU,
}

func TestMorganSignature(t *testing.T) {
	lb := MustNewLabeller(alkane.LabellerMorgan)
	assert.Equal(t, alkane.LabellerMorgan, lb.Kind())

	cases := map[string]alkane.Signature{
		"0":    {0},
		"10":   {1, 1},
		"3000": {9, 3, 3, 3},
		"2100": {5, 5, 3, 3},
		"2010": {5, 5, 3, 3},
	}
	for str, expect := range cases {
		X, err := alkane.ParseCode(str)
		require.NoError(t, err)
		assert.Equal(t, expect, lb.Signature(X, nil), str)
	}

	assert.Equal(t, 2, MorganRounds(4))
	assert.Equal(t, 7, MorganRounds(20))
	assert.Equal(t, 30, MorganRounds(89))
	assert.Equal(t, MaxMorganRounds, MorganRounds(alkane.MaxCarbons))
}

// bushyTree returns the code of an N carbon tree whose root has 4 children and every other
// inner atom 3, filled breadth first.
func bushyTree(t *testing.T, N int) alkane.Code {
	var adj alkane.Connectivity
	adj.Reset(N)
	parent := 0
	for atom := 1; atom < N; atom++ {
		if adj.Degree(parent) == alkane.MaxValence {
			parent++
		}
		require.NoError(t, adj.AddBond(parent, atom))
	}
	return adj.AppendCode(nil, 0)
}

func TestMorganLargeSkeleton(t *testing.T) {
	lb := MustNewLabeller(alkane.LabellerMorgan)
	for _, N := range []int{60, 90, alkane.MaxCarbons} {
		X := bushyTree(t, N)
		require.NoError(t, X.Validate(), N)

		sig := lb.Signature(X, nil)
		require.Len(t, sig, N)
		for i, v := range sig {
			require.Positive(t, v, "C=%d value %d overflowed", N, i)
			if i > 0 {
				require.GreaterOrEqual(t, sig[i-1], v, "C=%d values are sorted descending", N)
			}
		}
	}
}

func TestAHUSignature(t *testing.T) {
	lb := MustNewLabeller(alkane.LabellerAHU)
	assert.Equal(t, alkane.LabellerAHU, lb.Kind())

	cases := map[string]alkane.Signature{
		"0":     {0},
		"10":    {1, 0},
		"200":   {2, 0, 0},
		"3000":  {3, 0, 0, 0},
		"2100":  {2, 1, 0, 0},
		"2010":  {2, 1, 0, 0},
		"1110":  {2, 1, 0, 0},
		"40000": {4, 0, 0, 0, 0},
	}
	for str, expect := range cases {
		X, err := alkane.ParseCode(str)
		require.NoError(t, err)
		assert.Equal(t, expect, lb.Signature(X, nil), str)
	}
}

func TestSignatureIgnoresRoot(t *testing.T) {
	_, levels, err := Enumerate(context.Background(), EnumOpts{MaxCarbons: 9})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	for _, kind := range allLabellers {
		lb := MustNewLabeller(kind)
		var sig, rerooted alkane.Signature
		for _, set := range levels {
			for _, X := range set.Codes() {
				sig = lb.Signature(X, sig)
				adj := X.Connectivity()
				for root := range adj {
					// child order must not matter either
					for _, nbrs := range adj {
						rng.Shuffle(len(nbrs), func(i, j int) {
							nbrs[i], nbrs[j] = nbrs[j], nbrs[i]
						})
					}
					Y := adj.AppendCode(nil, root)
					require.True(t, Y.IsWellFormed())
					rerooted = lb.Signature(Y, rerooted)
					assert.Equal(t, sig, rerooted, "%s: %v rooted at atom %d gives %v", kind, X, root+1, Y)
				}
			}
		}
	}
}

func TestSignatureReuse(t *testing.T) {
	for _, kind := range allLabellers {
		lb := MustNewLabeller(kind)
		sig := lb.Signature(alkane.Code{4, 0, 0, 0, 0}, nil)
		long := sig.MakeCopy()

		sig = lb.Signature(alkane.Code{1, 0}, sig)
		assert.Len(t, sig, 2, kind)

		sig = lb.Signature(alkane.Code{4, 0, 0, 0, 0}, sig)
		assert.Equal(t, long, sig, kind)
	}
}

func TestNewLabeller(t *testing.T) {
	lb, err := NewLabeller("")
	require.NoError(t, err)
	assert.Equal(t, alkane.DefaultLabeller, lb.Kind())

	_, err = NewLabeller("canon")
	assert.ErrorIs(t, err, alkane.ErrBadLabeller)
}
