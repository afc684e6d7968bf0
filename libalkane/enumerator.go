package libalkane

import (
	"context"
	"time"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/libalkane/metrics"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxCarbons is the enumeration limit used when none is given.
	DefaultMaxCarbons = 20

	// DefaultBatchSize is the number of parents labelled per parallel batch.
	DefaultBatchSize = 512
)

// EnumOpts specifies an enumeration run.
type EnumOpts struct {
	MaxCarbons        int                 // enumerate 1..MaxCarbons (0 denotes DefaultMaxCarbons)
	Labeller          alkane.LabellerKind // "" denotes alkane.DefaultLabeller
	Index             alkane.IndexKind    // "" denotes alkane.DefaultIndex
	Workers           int                 // goroutines labelling candidates (<= 1 runs sequentially)
	BatchSize         int                 // parents per parallel batch (0 denotes DefaultBatchSize)
	MaxIsomers        int                 // abort if a level exceeds this many isomers (0 denotes unbounded)
	LevelCapacityHint int                 // isomers to preallocate per level
	Catalog           alkane.Catalog      // if set, completed levels are read from and written to this catalog
	Metrics           *metrics.Metrics    // if set, receives per level counters

	// OnLevel, if set, is called with each level as it completes, in ascending carbon count.
	OnLevel func(set *alkane.IsomerSet) error
}

// Enumerator runs the level loop: it owns every completed level and hands
// only the previous level to the generator and deduplicator.
type Enumerator struct {
	opts      EnumOpts
	levels    []*alkane.IsomerSet // levels[C-1] holds the C carbon isomers
	dedupe    *Deduplicator
	gen       Generator
	labellers []alkane.Labeller // one per worker
	slots     []candidateSlot
}

// candidateSlot holds the labelled candidates of one parent, written by exactly one worker.
type candidateSlot struct {
	codes []byte  // candidate codes back to back
	sigs  []int64 // candidate signatures back to back
	count int
}

func (slot *candidateSlot) reset() {
	slot.codes = slot.codes[:0]
	slot.sigs = slot.sigs[:0]
	slot.count = 0
}

func NewEnumerator(opts EnumOpts) (*Enumerator, error) {
	if opts.MaxCarbons == 0 {
		opts.MaxCarbons = DefaultMaxCarbons
	}
	if opts.MaxCarbons < 1 || opts.MaxCarbons > alkane.MaxCarbons {
		return nil, errors.Wrapf(alkane.ErrCarbonCount, "MaxCarbons=%d", opts.MaxCarbons)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	var err error
	if opts.Labeller, err = alkane.ParseLabellerKind(string(opts.Labeller)); err != nil {
		return nil, err
	}
	if opts.Index, err = alkane.ParseIndexKind(string(opts.Index)); err != nil {
		return nil, err
	}
	if opts.Catalog != nil && opts.Catalog.LabellerKind() != opts.Labeller {
		return nil, errors.Wrapf(alkane.ErrCatalogMismatch, "catalog uses %q, enumeration uses %q", opts.Catalog.LabellerKind(), opts.Labeller)
	}

	enum := &Enumerator{
		opts:   opts,
		levels: make([]*alkane.IsomerSet, 0, opts.MaxCarbons),
	}
	enum.dedupe, err = NewDeduplicator(DedupeOpts{
		Labeller: opts.Labeller,
		Index:    opts.Index,
	})
	if err != nil {
		return nil, err
	}
	for w := 0; w < opts.Workers; w++ {
		enum.labellers = append(enum.labellers, MustNewLabeller(opts.Labeller))
	}
	return enum, nil
}

// Level returns the completed level for the given carbon count, or nil if it has not completed.
func (enum *Enumerator) Level(carbons int) *alkane.IsomerSet {
	if carbons < 1 || carbons > len(enum.levels) {
		return nil
	}
	return enum.levels[carbons-1]
}

// Run completes every level from 1 to MaxCarbons in order and returns their counts.
//
// On error, the returned Summary holds the levels completed before the error.
func (enum *Enumerator) Run(ctx context.Context) (*alkane.Summary, error) {
	sum := &alkane.Summary{}

	for C := len(enum.levels) + 1; C <= enum.opts.MaxCarbons; C++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		startTime := time.Now()
		set, source, candidates, err := enum.completeLevel(ctx, C)
		if err != nil {
			return sum, err
		}
		elapsed := time.Since(startTime)

		enum.levels = append(enum.levels, set)
		sum.Add(set)
		enum.opts.Metrics.ObserveLevel(C, candidates, int64(set.Len()), source, elapsed)
		klog.V(2).Infof("C=%-3d isomers=%-9d candidates=%-10d (%s in %v)", C, set.Len(), candidates, source, elapsed)

		if enum.opts.OnLevel != nil {
			if err = enum.opts.OnLevel(set); err != nil {
				return sum, err
			}
		}
	}

	return sum, nil
}

func (enum *Enumerator) completeLevel(ctx context.Context, C int) (set *alkane.IsomerSet, source string, candidates int64, err error) {
	cat := enum.opts.Catalog

	if cat != nil && C <= cat.MaxCarbons() {
		set, err = cat.ReadLevel(C)
		if err != nil {
			return nil, "", 0, errors.Wrapf(err, "reading level %d from catalog", C)
		}
		return set, metrics.SourceCatalog, 0, nil
	}

	if C == 1 {
		set = alkane.NewMethaneSet()
	} else {
		set, candidates, err = enum.generateLevel(ctx, enum.levels[C-2])
		if err != nil {
			return nil, "", 0, err
		}
	}

	if cat != nil && !cat.IsReadOnly() {
		if err = cat.PutLevel(set); err != nil {
			return nil, "", 0, errors.Wrapf(err, "writing level %d to catalog", C)
		}
	}
	return set, metrics.SourceGenerated, candidates, nil
}

// generateLevel extends every parent, keeping the first candidate of each distinct skeleton.
func (enum *Enumerator) generateLevel(ctx context.Context, parents *alkane.IsomerSet) (*alkane.IsomerSet, int64, error) {
	C := parents.CarbonCount() + 1
	set := alkane.NewIsomerSet(C, enum.opts.LevelCapacityHint)
	enum.dedupe.Reset()

	var (
		candidates int64
		err        error
	)
	accept := func(X alkane.Code, sig alkane.Signature) {
		if err == nil {
			err = enum.acceptCandidate(set, X, sig)
		}
	}

	N := parents.Len()
	batchSz := enum.opts.BatchSize
	for lo := 0; lo < N && err == nil; lo += batchSz {
		if err = ctx.Err(); err != nil {
			break
		}
		hi := min(lo+batchSz, N)

		if len(enum.labellers) <= 1 {
			enum.gen.ExtendRange(parents, lo, hi, func(X alkane.Code) {
				candidates++
				accept(X, nil)
			})
			continue
		}

		if err = enum.labelBatch(ctx, parents, lo, hi); err != nil {
			break
		}

		// Merge in generation order so the accepted sequence matches a sequential run.
		for i := 0; i < hi-lo; i++ {
			slot := &enum.slots[i]
			for k := 0; k < slot.count; k++ {
				candidates++
				accept(slot.codes[k*C:(k+1)*C], slot.sigs[k*C:(k+1)*C])
			}
		}
	}

	return set, candidates, err
}

// acceptCandidate appends X to set unless an equivalent isomer was already accepted.
// A nil sig dedupes on the code itself.
func (enum *Enumerator) acceptCandidate(set *alkane.IsomerSet, X alkane.Code, sig alkane.Signature) error {
	var added bool
	if sig == nil {
		added = enum.dedupe.TryAddIsomer(X)
	} else {
		added = enum.dedupe.TryAddSignature(sig)
	}
	if !added {
		return nil
	}
	if enum.opts.MaxIsomers > 0 && set.Len() >= enum.opts.MaxIsomers {
		return errors.Wrapf(alkane.ErrCapacityExceeded, "more than %d isomers with %d carbons", enum.opts.MaxIsomers, set.CarbonCount())
	}
	if err := set.Append(X); err != nil {
		return errors.Wrapf(err, "accepting %v", X)
	}
	return nil
}

// labelBatch generates and labels the candidates of parents [lo, hi) across the workers,
// each writing only to the slots of its own contiguous run of parents.
func (enum *Enumerator) labelBatch(ctx context.Context, parents *alkane.IsomerSet, lo, hi int) error {
	n := hi - lo
	for len(enum.slots) < n {
		enum.slots = append(enum.slots, candidateSlot{})
	}

	numWorkers := len(enum.labellers)
	chunk := (n + numWorkers - 1) / numWorkers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		first := w * chunk
		last := min(first+chunk, n)
		if first >= last {
			break
		}
		labeller := enum.labellers[w]

		g.Go(func() error {
			var (
				gen Generator
				sig alkane.Signature
			)
			for i := first; i < last; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				slot := &enum.slots[i]
				slot.reset()
				gen.ExtendParent(parents.Code(lo+i), func(X alkane.Code) {
					sig = labeller.Signature(X, sig)
					slot.codes = append(slot.codes, X...)
					slot.sigs = append(slot.sigs, sig...)
					slot.count++
				})
			}
			return nil
		})
	}
	return g.Wait()
}

func (enum *Enumerator) Close() {
	if enum.dedupe != nil {
		enum.dedupe.Close()
		enum.dedupe = nil
	}
}

// Enumerate runs a complete enumeration with the given options.
func Enumerate(ctx context.Context, opts EnumOpts) (*alkane.Summary, []*alkane.IsomerSet, error) {
	enum, err := NewEnumerator(opts)
	if err != nil {
		return nil, nil, err
	}
	defer enum.Close()

	sum, err := enum.Run(ctx)
	return sum, enum.levels, err
}

// EnumIsomers streams every accepted code of every level, in ascending carbon count then acceptance order.
func EnumIsomers(ctx context.Context, opts EnumOpts) *alkane.IsomerStream {
	stream := alkane.NewIsomerStream()

	onLevel := opts.OnLevel
	opts.OnLevel = func(set *alkane.IsomerSet) error {
		N := set.Len()
		for i := 0; i < N; i++ {
			select {
			case stream.Outlet <- set.Code(i).MakeCopy():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if onLevel != nil {
			return onLevel(set)
		}
		return nil
	}

	go func() {
		_, _, err := Enumerate(ctx, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			klog.Warningf("enumeration stopped: %v", err)
		}
		stream.Close()
	}()

	return stream
}

// VerifyLevel checks that every code in set is a valid generated code and that no two share a signature.
func VerifyLevel(set *alkane.IsomerSet, kind alkane.LabellerKind) error {
	labeller, err := NewLabeller(kind)
	if err != nil {
		return err
	}
	index := newTreeSet()
	defer index.Close()

	var sig alkane.Signature
	N := set.Len()
	for i := 0; i < N; i++ {
		X := set.Code(i)
		if err := X.Validate(); err != nil {
			return errors.Wrapf(err, "isomer %d (%v)", i+1, X)
		}
		sig = labeller.Signature(X, sig)
		if !index.TryAdd(sig) {
			return errors.Errorf("isomer %d (%v) duplicates an earlier isomer", i+1, X)
		}
	}
	return nil
}
