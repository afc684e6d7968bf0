package catalog

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/fine-structures/alkanes/alkane"
	"github.com/pkg/errors"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState (protobuf)

	C (byte), ordinal (uint32 BE)   => digit code (C bytes)
	...

Carbon counts start at 1, so level keys never collide with the state key.
Big endian ordinals keep each level's codes in acceptance order, so a prefix
scan on C returns a level exactly as it was generated.

The state holds each level's isomer count and artifact digest; a level is only
counted in the state after all of its codes are written, so a partially
written level is ignored and regenerated on the next run.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const levelKeySz = 5

// catalog is a db wrapper for completed isomer levels
type catalog struct {
	ctx        alkane.CatalogContext
	readOnly   bool
	stateDirty bool
	state      alkane.CatalogState
	db         *badger.DB
}

func OpenCatalog(ctx alkane.CatalogContext, opts alkane.CatalogOpts) (alkane.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(alkane.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		var kind alkane.LabellerKind
		kind, err = alkane.ParseLabellerKind(string(opts.Labeller))
		if err == nil {
			cat.stateDirty = true
			cat.state.MajorVers = alkane.CatalogMajorVers
			cat.state.MinorVers = alkane.CatalogMinorVers
			cat.state.Labeller = string(kind)
		}
	}

	if err == nil {
		if cat.state.MajorVers != alkane.CatalogMajorVers || cat.state.MinorVers != alkane.CatalogMinorVers {
			err = errors.Errorf("catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
		} else if opts.Labeller != "" && opts.Labeller != cat.LabellerKind() {
			err = errors.Wrapf(alkane.ErrCatalogMismatch, "catalog uses %q, opened for %q", cat.state.Labeller, opts.Labeller)
		}
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.DecodeState(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty || cat.readOnly {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := cat.state.EncodeState()
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	var err error
	if cat.db != nil {
		err = cat.flushState()
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) LabellerKind() alkane.LabellerKind {
	return alkane.LabellerKind(cat.state.Labeller)
}

func (cat *catalog) MaxCarbons() int {
	return cat.state.MaxCarbons()
}

func (cat *catalog) NumIsomers(carbons int) int64 {
	n, _ := cat.state.Level(carbons)
	return int64(n)
}

func (cat *catalog) LevelDigest(carbons int) []byte {
	_, digest := cat.state.Level(carbons)
	if len(digest) == 0 {
		return nil
	}
	return digest
}

func formLevelKey(key []byte, carbons int, ordinal uint32) []byte {
	key = append(key, byte(carbons))
	return binary.BigEndian.AppendUint32(key, ordinal)
}

func (cat *catalog) PutLevel(set *alkane.IsomerSet) error {
	if cat.readOnly {
		return alkane.ErrReadOnly
	}
	C := set.CarbonCount()

	// Forget any previous version of this level before rewriting it
	if n, _ := cat.state.Level(C); n > 0 {
		cat.state.SetLevel(C, 0, nil)
		cat.stateDirty = true
		if err := cat.flushState(); err != nil {
			return err
		}
	}
	if err := cat.db.DropPrefix([]byte{byte(C)}); err != nil {
		return err
	}

	wb := cat.db.NewWriteBatch()
	defer wb.Cancel()

	N := set.Len()
	for i := 0; i < N; i++ {
		key := formLevelKey(make([]byte, 0, levelKeySz), C, uint32(i))
		if err := wb.Set(key, set.Code(i).MakeCopy()); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	cat.state.SetLevel(C, uint64(N), set.Digest())
	cat.stateDirty = true
	return cat.flushState()
}

func (cat *catalog) ReadLevel(carbons int) (*alkane.IsomerSet, error) {
	n, digest := cat.state.Level(carbons)
	if n == 0 {
		return nil, errors.Wrapf(alkane.ErrLevelNotFound, "C=%d", carbons)
	}

	set := alkane.NewIsomerSet(carbons, int(n))
	err := cat.db.View(func(txn *badger.Txn) error {
		return cat.scanLevel(txn, carbons, func(X alkane.Code) error {
			return set.Append(X)
		})
	})
	if err != nil {
		return nil, err
	}

	if uint64(set.Len()) != n || !bytes.Equal(set.Digest(), digest) {
		return nil, errors.Wrapf(alkane.ErrCatalogCorrupt, "C=%d", carbons)
	}
	return set, nil
}

// Select sends a copy of each stored code for the given carbon count to onHit.
func (cat *catalog) Select(carbons int, onHit alkane.OnIsomerHit) {
	if carbons < 1 || carbons > alkane.MaxCarbons {
		return
	}
	err := cat.db.View(func(txn *badger.Txn) error {
		return cat.scanLevel(txn, carbons, func(X alkane.Code) error {
			onHit <- X.MakeCopy()
			return nil
		})
	})
	if err != nil {
		panic(err)
	}
}

// scanLevel calls onCode with each code stored for a level, in key order.
//
// The code passed to onCode is only valid for the duration of the call.
func (cat *catalog) scanLevel(txn *badger.Txn, carbons int, onCode func(X alkane.Code) error) error {
	prefix := [1]byte{byte(carbons)}
	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         prefix[:],
	})
	defer it.Close()

	for it.Seek(prefix[:]); it.ValidForPrefix(prefix[:]); it.Next() {
		item := it.Item()
		if len(item.Key()) != levelKeySz {
			return errors.Wrapf(alkane.ErrCatalogCorrupt, "unexpected key %x", item.Key())
		}
		err := item.Value(func(val []byte) error {
			return onCode(alkane.Code(val))
		})
		if err != nil {
			return err
		}
	}
	return nil
}
