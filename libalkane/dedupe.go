package libalkane

import (
	"github.com/fine-structures/alkanes/alkane"
)

// DedupeOpts specifies how a Deduplicator labels and indexes candidates.
type DedupeOpts struct {
	Labeller alkane.LabellerKind // "" denotes alkane.DefaultLabeller
	Index    alkane.IndexKind    // "" denotes alkane.DefaultIndex
}

// Deduplicator accepts a candidate only if no previously accepted candidate of the same level
// has an equal signature.  The first candidate generated for each skeleton wins.
type Deduplicator struct {
	labeller alkane.Labeller
	index    alkane.SignatureIndex
	sig      alkane.Signature
}

func NewDeduplicator(opts DedupeOpts) (*Deduplicator, error) {
	labeller, err := NewLabeller(opts.Labeller)
	if err != nil {
		return nil, err
	}
	index, err := NewSignatureIndex(opts.Index)
	if err != nil {
		return nil, err
	}
	return &Deduplicator{
		labeller: labeller,
		index:    index,
	}, nil
}

// NewDropDupes returns an alkane.IsomerAdder that drops codes equivalent to one already added.
func NewDropDupes(opts DedupeOpts) (alkane.IsomerAdder, error) {
	return NewDeduplicator(opts)
}

func (dd *Deduplicator) Labeller() alkane.Labeller {
	return dd.labeller
}

// TryAddIsomer labels X and adds its signature if it is unique, returning true if X was accepted.
func (dd *Deduplicator) TryAddIsomer(X alkane.Code) bool {
	dd.sig = dd.labeller.Signature(X, dd.sig)
	return dd.index.TryAdd(dd.sig)
}

// TryAddSignature adds a signature computed elsewhere, returning true if it was not already present.
func (dd *Deduplicator) TryAddSignature(sig alkane.Signature) bool {
	return dd.index.TryAdd(sig)
}

// NumAccepted returns the number of candidates accepted since the last Reset().
func (dd *Deduplicator) NumAccepted() int {
	return dd.index.Len()
}

// Reset forgets all accepted signatures so this Deduplicator can serve the next level.
func (dd *Deduplicator) Reset() {
	dd.index.Reset()
}

func (dd *Deduplicator) Close() {
	dd.index.Close()
}
