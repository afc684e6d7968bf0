package alkane

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureLSM(t *testing.T) {
	sig := Signature{9, 3, 3, 3}
	key := sig.AppendSignatureLSM(nil)

	var decoded Signature
	require.NoError(t, decoded.InitFromSignatureLSM(key))
	assert.True(t, sig.IsEqual(decoded))

	other := Signature{5, 5, 3, 3}.AppendSignatureLSM(nil)
	assert.NotEqual(t, key, other)

	big := Signature{1 << 40, -7, 0}
	require.NoError(t, decoded.InitFromSignatureLSM(big.AppendSignatureLSM([]byte{0xAA})[1:]))
	assert.Equal(t, big, decoded)

	assert.ErrorIs(t, decoded.InitFromSignatureLSM(SignatureLSM{0x80}), ErrUnmarshal)
}

func TestSignatureCompare(t *testing.T) {
	a := Signature{9, 3, 3, 3}
	b := Signature{5, 5, 3, 3}
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a.MakeCopy()))
	assert.Equal(t, -1, Signature{9, 3}.Compare(a))

	// values far apart must not wrap when compared
	huge := Signature{math.MaxInt64}
	tiny := Signature{math.MinInt64}
	assert.Equal(t, 1, huge.Compare(tiny))
	assert.Equal(t, -1, tiny.Compare(huge))
	assert.False(t, Signature{9, 3}.IsEqual(a))
	assert.Equal(t, "9 3 3 3", a.String())
}

func TestIsUnique(t *testing.T) {
	accepted := []Signature{
		{9, 3, 3, 3},
	}
	assert.True(t, IsUnique(Signature{5, 5, 3, 3}, accepted))
	assert.False(t, IsUnique(Signature{9, 3, 3, 3}, accepted))
	assert.True(t, IsUnique(Signature{9, 3, 3, 3}, nil), "the first candidate of a level is always unique")
}

func TestSignatureSetLen(t *testing.T) {
	var sig Signature
	sig.SetLen(4)
	assert.Len(t, sig, 4)
	assert.GreaterOrEqual(t, cap(sig), 16)

	sig.SetLen(2)
	assert.Len(t, sig, 2)
}
