package alkane

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newButaneSet(t *testing.T) *IsomerSet {
	set := NewIsomerSet(4, 0)
	require.NoError(t, set.Append(Code{3, 0, 0, 0}))
	require.NoError(t, set.Append(Code{2, 1, 0, 0}))
	return set
}

func TestIsomerSet(t *testing.T) {
	set := newButaneSet(t)
	assert.Equal(t, 4, set.CarbonCount())
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, Code{2, 1, 0, 0}, set.Code(1))
	assert.Equal(t, []Code{{3, 0, 0, 0}, {2, 1, 0, 0}}, set.Codes())
	assert.Equal(t, "4.isomers", set.ArtifactName())

	assert.ErrorIs(t, set.Append(Code{1, 0}), ErrCarbonCount)
	assert.Equal(t, 2, set.Len())

	methane := NewMethaneSet()
	assert.Equal(t, 1, methane.Len())
	assert.Equal(t, MethaneCode, methane.Code(0))
}

func TestIsomerSetRetainsCodes(t *testing.T) {
	set := NewIsomerSet(2, 0)
	X := Code{1, 0}
	require.NoError(t, set.Append(X))
	X[0] = 9
	assert.Equal(t, Code{1, 0}, set.Code(0), "Append stores a copy")
}

func TestWriteArtifact(t *testing.T) {
	set := newButaneSet(t)

	var buf bytes.Buffer
	require.NoError(t, set.WriteArtifact(&buf))

	expect := "# Carbon atoms in this alkane: 4\n" +
		"# Amount of isomers found for this alkane: 2\n" +
		"3000\n" +
		"2100\n"
	assert.Equal(t, expect, buf.String())

	readBack, err := ReadArtifact(strings.NewReader(expect))
	require.NoError(t, err)
	assert.Equal(t, set.Codes(), readBack.Codes())
	assert.Equal(t, set.Digest(), readBack.Digest())
}

func TestReadArtifactErrors(t *testing.T) {
	_, err := ReadArtifact(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnmarshal)

	_, err = ReadArtifact(strings.NewReader("# Carbon atoms in this alkane: 4\n# Amount of isomers found for this alkane: 3\n3000\n2100\n"))
	assert.ErrorIs(t, err, ErrUnmarshal)

	_, err = ReadArtifact(strings.NewReader("# Carbon atoms in this alkane: 4\n# Amount of isomers found for this alkane: 1\n200\n"))
	assert.ErrorIs(t, err, ErrCarbonCount)
}

func TestDigest(t *testing.T) {
	a := newButaneSet(t)
	b := newButaneSet(t)
	assert.Len(t, a.Digest(), DigestSz)
	assert.Equal(t, a.Digest(), b.Digest())

	c := NewIsomerSet(4, 0)
	require.NoError(t, c.Append(Code{2, 1, 0, 0}))
	require.NoError(t, c.Append(Code{3, 0, 0, 0}))
	assert.NotEqual(t, a.Digest(), c.Digest(), "acceptance order is part of the artifact")
}
