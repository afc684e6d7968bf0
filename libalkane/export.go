package libalkane

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ExportOpts specifies where and how level artifacts are written.
type ExportOpts struct {
	Dir      string // output directory (created if missing)
	Compress bool   // if set, artifacts are zstd compressed and named "<N>.isomers.zst"
}

// ArtifactPath returns the file path a level with the given carbon count is written to.
func (opts ExportOpts) ArtifactPath(carbons int) string {
	name := alkane.NewIsomerSet(carbons, 0).ArtifactName()
	if opts.Compress {
		name += ".zst"
	}
	return filepath.Join(opts.Dir, name)
}

// ExportLevel writes the artifact for one level.
func ExportLevel(set *alkane.IsomerSet, opts ExportOpts) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return errors.Wrap(alkane.ErrExport, err.Error())
	}

	pathname := opts.ArtifactPath(set.CarbonCount())
	file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrap(alkane.ErrExport, err.Error())
	}

	err = writeArtifact(file, set, opts.Compress)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(alkane.ErrExport, "%s: %v", pathname, err)
	}
	return nil
}

func writeArtifact(w io.Writer, set *alkane.IsomerSet, compress bool) error {
	if !compress {
		return set.WriteArtifact(w)
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err = set.WriteArtifact(enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ImportLevel reads an artifact written by ExportLevel.
func ImportLevel(carbons int, opts ExportOpts) (*alkane.IsomerSet, error) {
	pathname := opts.ArtifactPath(carbons)
	file, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if opts.Compress {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	set, err := alkane.ReadArtifact(r)
	if err != nil {
		return nil, errors.Wrap(err, pathname)
	}
	if set.CarbonCount() != carbons {
		return nil, errors.Wrapf(alkane.ErrCarbonCount, "%s holds %d carbon isomers", pathname, set.CarbonCount())
	}
	return set, nil
}
