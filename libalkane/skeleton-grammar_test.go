package libalkane

import (
	"context"
	"testing"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkeleton(t *testing.T) {
	sk, err := ParseSkeleton("CC(C)C")
	require.NoError(t, err)
	assert.Equal(t, 4, sk.NumCarbons())
	assert.True(t, sk.Adj.IsTree())
	assert.Equal(t, alkane.Code{3, 0, 0, 0}, sk.Code())

	X, err := sk.CodeFrom(0)
	require.NoError(t, err)
	assert.Equal(t, alkane.Code{1, 2, 0, 0}, X)

	_, err = sk.CodeFrom(4)
	assert.ErrorIs(t, err, alkane.ErrCarbonCount)

	X, err = EncodeSkeleton("C C C C")
	require.NoError(t, err)
	assert.Equal(t, "2010", X.String())
	require.NoError(t, X.Validate())

	labeller := MustNewLabeller(alkane.LabellerAHU)
	assert.True(t, labeller.Signature(X, nil).IsEqual(labeller.Signature(alkane.Code{2, 1, 0, 0}, nil)))
}

func TestParseSkeletonErrors(t *testing.T) {
	for _, expr := range []string{"C(C", "CX", "C)C", "(C)"} {
		_, err := ParseSkeleton(expr)
		assert.ErrorIs(t, err, alkane.ErrBadSkeleton, expr)
	}

	_, err := ParseSkeleton("C(C)(C)(C)(C)C")
	assert.ErrorIs(t, err, alkane.ErrValenceExceeded)
}

func TestSkeletonRoundTrip(t *testing.T) {
	_, levels, err := Enumerate(context.Background(), EnumOpts{MaxCarbons: 9})
	require.NoError(t, err)

	for _, set := range levels {
		for _, X := range set.Codes() {
			expr := FormatSkeleton(X)
			Y, err := EncodeSkeleton(expr)
			require.NoError(t, err, expr)
			assert.Equal(t, X, Y, expr)
		}
	}
	assert.Equal(t, "C(C)(C)C", FormatSkeleton(alkane.Code{3, 0, 0, 0}))
	assert.Equal(t, "C(CC)C", FormatSkeleton(alkane.Code{2, 1, 0, 0}))
}
