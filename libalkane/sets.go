package libalkane

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fine-structures/alkanes/alkane"
	"github.com/pkg/errors"
)

// NewSignatureIndex returns an empty SignatureIndex of the given kind ("" denotes alkane.DefaultIndex).
func NewSignatureIndex(kind alkane.IndexKind) (alkane.SignatureIndex, error) {
	if kind == "" {
		kind = alkane.DefaultIndex
	}
	switch kind {
	case alkane.IndexScan:
		return &scanSet{}, nil
	case alkane.IndexTree:
		return newTreeSet(), nil
	case alkane.IndexLSM:
		return &lsmSet{}, nil
	}
	return nil, errors.Wrapf(alkane.ErrBadIndex, "%q", kind)
}

// sigPool hands out copies of signatures from large shared blocks.
type sigPool struct {
	block []int64
}

const sigPoolBlockSz = 32 * 1024

func (pool *sigPool) copyOf(sig alkane.Signature) alkane.Signature {
	N := len(sig)
	if len(pool.block)+N > cap(pool.block) {
		pool.block = make([]int64, 0, max(sigPoolBlockSz, N))
	}
	pos := len(pool.block)
	pool.block = append(pool.block, sig...)
	return alkane.Signature(pool.block[pos : pos+N : pos+N])
}

func (pool *sigPool) reset() {
	pool.block = nil
}

// scanSet compares each candidate against every accepted signature, in acceptance order.
type scanSet struct {
	accepted []alkane.Signature
	pool     sigPool
}

func (set *scanSet) TryAdd(sig alkane.Signature) bool {
	if !alkane.IsUnique(sig, set.accepted) {
		return false
	}
	set.accepted = append(set.accepted, set.pool.copyOf(sig))
	return true
}

func (set *scanSet) Len() int {
	return len(set.accepted)
}

func (set *scanSet) Reset() {
	set.accepted = set.accepted[:0]
	set.pool.reset()
}

func (set *scanSet) Close() {
	set.accepted = nil
	set.pool.reset()
}

// treeSet keeps accepted signatures ordered in a red-black tree.
type treeSet struct {
	tree *redblacktree.Tree
	pool sigPool
}

func signatureComparator(a, b interface{}) int {
	return a.(alkane.Signature).Compare(b.(alkane.Signature))
}

func newTreeSet() *treeSet {
	return &treeSet{
		tree: redblacktree.NewWith(signatureComparator),
	}
}

func (set *treeSet) TryAdd(sig alkane.Signature) bool {
	if _, found := set.tree.Get(sig); found {
		return false
	}
	set.tree.Put(set.pool.copyOf(sig), nil)
	return true
}

func (set *treeSet) Len() int {
	return set.tree.Size()
}

func (set *treeSet) Reset() {
	set.tree.Clear()
	set.pool.reset()
}

func (set *treeSet) Close() {
	set.Reset()
}

// lsmSet keeps accepted signatures as keys in an in-memory badger db.
type lsmSet struct {
	db     *badger.DB
	count  int
	keyBuf []byte
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) TryAdd(sig alkane.Signature) bool {
	set.keyBuf = sig.AppendSignatureLSM(set.keyBuf[:0])
	return set.tryAdd(set.keyBuf)
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(append([]byte(nil), key...), nil)
		if err == nil {
			err = txn.Commit()
		}
		added = true
	}

	if err != nil {
		panic(err)
	}

	if added {
		set.count++
	}
	return added
}

func (set *lsmSet) Len() int {
	return set.count
}

func (set *lsmSet) Reset() {
	if set.db != nil && set.count > 0 {
		if err := set.db.DropAll(); err != nil {
			panic(err)
		}
	}
	set.count = 0
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
	set.count = 0
}
