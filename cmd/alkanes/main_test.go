package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableHeader = "n \t#isomers\n____________________________________\n"

func runCmd(t *testing.T, args ...string) (string, error) {
	root := newRootCmd(nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEnumerateOutput(t *testing.T) {
	out, err := runCmd(t, "--max", "4", "--format", "compact")
	require.NoError(t, err)
	assert.Equal(t, "1:1, 2:1, 3:1, 4:2\n", out)

	out, err = runCmd(t, "enumerate", "--max", "4")
	require.NoError(t, err)
	assert.Equal(t, tableHeader+"1 \t1\n2 \t1\n3 \t1\n4 \t2\n", out)

	out, err = runCmd(t, "--max", "1", "--format", "compact", "--codes")
	require.NoError(t, err)
	assert.Equal(t, "C1,000001,0,C\n1:1\n", out)
}

func TestEnumerateExport(t *testing.T) {
	dir := t.TempDir()
	_, err := runCmd(t, "--max", "6", "--output", dir, "--compress", "--workers", "2")
	require.NoError(t, err)
	for _, name := range []string{"1.isomers.zst", "6.isomers.zst"} {
		_, err = os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestEnumerateExportFailure(t *testing.T) {
	// a regular file in place of the output dir fails each export, which is only logged
	pathname := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(pathname, []byte("x"), 0644))

	out, err := runCmd(t, "--max", "4", "--format", "compact", "--output", pathname)
	require.NoError(t, err)
	assert.Equal(t, "1:1, 2:1, 3:1, 4:2\n", out)
}

func TestConfigCmd(t *testing.T) {
	t.Setenv("ALKANES_WORKERS", "3")
	out, err := runCmd(t, "config", "--max", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "max_carbons: 9\n")
	assert.Contains(t, out, "workers: 3\n")
	assert.Contains(t, out, "labeller: morgan\n")

	_, err = runCmd(t, "config", "--index", "btree")
	assert.Error(t, err)
}

func TestEnumerateConfigFile(t *testing.T) {
	pathname := filepath.Join(t.TempDir(), "alkanes.yaml")
	require.NoError(t, os.WriteFile(pathname, []byte("max_carbons: 5\nformat: compact\nlabeller: ahu\n"), 0644))

	out, err := runCmd(t, "--config", pathname)
	require.NoError(t, err)
	assert.Equal(t, "1:1, 2:1, 3:1, 4:2, 5:3\n", out)

	out, err = runCmd(t, "enumerate", "--config", pathname, "--max", "3")
	require.NoError(t, err)
	assert.Equal(t, "1:1, 2:1, 3:1\n", out)
}

func TestEnumerateErrors(t *testing.T) {
	_, err := runCmd(t, "--labeller", "nauty")
	assert.Error(t, err)

	_, err = runCmd(t, "--max", "0")
	assert.Error(t, err)

	_, err = runCmd(t, "--max", "8", "--max-isomers", "4")
	assert.ErrorIs(t, err, alkane.ErrCapacityExceeded)
}

func TestCatalogCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	_, err := runCmd(t, "--max", "6", "--catalog", dir)
	require.NoError(t, err)

	out, err := runCmd(t, "catalog", dir, "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "# labeller: morgan\n")
	assert.Contains(t, out, "\n6 \t5\t")

	// resuming from the catalog prints the same table
	out, err = runCmd(t, "--max", "7", "--catalog", dir)
	require.NoError(t, err)
	assert.Equal(t, tableHeader+"1 \t1\n2 \t1\n3 \t1\n4 \t2\n5 \t3\n6 \t5\n7 \t9\n", out)

	_, err = runCmd(t, "--max", "7", "--catalog", dir, "--labeller", "ahu")
	assert.ErrorIs(t, err, alkane.ErrCatalogMismatch)
}

func TestShowAndEncode(t *testing.T) {
	out, err := runCmd(t, "show", "2100")
	require.NoError(t, err)
	assert.Contains(t, out, "valid:     yes\n")
	assert.Contains(t, out, "skeleton:  C(CC)C\n")
	assert.Contains(t, out, " 1-2 1-4 2-3\n")
	assert.Contains(t, out, "signature: 5 5 3 3 (morgan)\n")

	out, err = runCmd(t, "show", "1200")
	require.NoError(t, err)
	assert.Contains(t, out, "valid:     no")

	_, err = runCmd(t, "show", "2200")
	assert.ErrorIs(t, err, alkane.ErrMalformedCode)

	out, err = runCmd(t, "encode", "CC(C)C", "--labeller", "ahu")
	require.NoError(t, err)
	assert.Equal(t, "CC(C)C\t3000\t3 0 0 0\n", out)

	out, err = runCmd(t, "encode", "CC(C)C", "--root", "1")
	require.NoError(t, err)
	assert.Equal(t, "CC(C)C\t1200\t9 3 3 3\n", out)

	_, err = runCmd(t, "encode", "C(C")
	assert.ErrorIs(t, err, alkane.ErrBadSkeleton)
}
