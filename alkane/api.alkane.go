package alkane

import (
	"io"
	"strings"
)

const (

	// MaxValence is the max number of bonds a carbon atom may have.
	MaxValence = 4

	// MaxBranches is the max number of children a non-root atom may have (one bond is taken by its parent).
	MaxBranches = MaxValence - 1

	// MaxCarbons is the largest carbon count an IsomerSet or Catalog will accept (one byte in a catalog key).
	MaxCarbons = 0xFF
)

// Code is a digit code: the preorder sequence of child counts of a rooted carbon skeleton.
//
// Code[0] is the root and holds its degree (0..4).
// Every other position holds degree-1 (0..3), the number of atoms it leads to away from the root.
type Code []byte

// Connectivity lists for each atom index the indices of the atoms bonded to it.
type Connectivity [][]int

// Signature is an isomorphism-invariant label of a skeleton, one value per atom.
//
// Two codes describing the same skeleton always produce equal signatures under a given Labeller.
type Signature []int64

// SignatureLSM is a binary (LSM-friendly) encoding of a Signature.
type SignatureLSM []byte

// Labeller computes the Signature of a Code.
//
// A Labeller reuses internal scratch buffers and is not safe for concurrent use.
type Labeller interface {

	// Kind returns the labelling scheme this Labeller implements.
	Kind() LabellerKind

	// Signature computes the signature of X into sig (reusing its storage) and returns it.
	Signature(X Code, sig Signature) Signature
}

// LabellerKind names a canonical labelling scheme.
type LabellerKind string

const (
	// LabellerMorgan is the bounded Morgan-style iterative labelling.
	LabellerMorgan LabellerKind = "morgan"

	// LabellerAHU is the tree-centre rooted canonical form (complete isomorphism certificate).
	LabellerAHU LabellerKind = "ahu"
)

// DefaultLabeller is used when no labeller is specified.
const DefaultLabeller = LabellerMorgan

func (kind LabellerKind) IsValid() bool {
	switch kind {
	case LabellerMorgan, LabellerAHU:
		return true
	}
	return false
}

func (kind LabellerKind) String() string {
	return string(kind)
}

// ParseLabellerKind maps a name to a LabellerKind, where "" maps to DefaultLabeller.
func ParseLabellerKind(name string) (LabellerKind, error) {
	if name == "" {
		return DefaultLabeller, nil
	}
	kind := LabellerKind(strings.ToLower(strings.TrimSpace(name)))
	if !kind.IsValid() {
		return "", ErrBadLabeller
	}
	return kind, nil
}

// IndexKind names a SignatureIndex implementation.
type IndexKind string

const (
	// IndexScan compares each candidate against every accepted signature in acceptance order.
	IndexScan IndexKind = "scan"

	// IndexTree keeps accepted signatures in an ordered red-black tree.
	IndexTree IndexKind = "tree"

	// IndexLSM keeps accepted signatures as keys of an in-memory LSM store.
	IndexLSM IndexKind = "lsm"
)

// DefaultIndex is used when no index is specified.
const DefaultIndex = IndexTree

func (kind IndexKind) IsValid() bool {
	switch kind {
	case IndexScan, IndexTree, IndexLSM:
		return true
	}
	return false
}

func (kind IndexKind) String() string {
	return string(kind)
}

// ParseIndexKind maps a name to an IndexKind, where "" maps to DefaultIndex.
func ParseIndexKind(name string) (IndexKind, error) {
	if name == "" {
		return DefaultIndex, nil
	}
	kind := IndexKind(strings.ToLower(strings.TrimSpace(name)))
	if !kind.IsValid() {
		return "", ErrBadIndex
	}
	return kind, nil
}

// SignatureIndex holds the signatures accepted so far for one carbon count.
type SignatureIndex interface {

	// TryAdd adds the given signature if no equal signature is present.
	//
	// If an equal signature was already added, this call has no effect and false is returned.
	// Otherwise a copy of sig is added and true is returned.
	TryAdd(sig Signature) bool

	// Len returns the number of signatures added since the last Reset().
	Len() int

	// Reset removes all previously added signatures.
	Reset()

	// Close releases all resources held by this index.
	Close()
}

type IsomerAdder interface {

	// Tries to add the given isomer code.
	// If true is returned, no equivalent skeleton had been added and X was added.
	TryAddIsomer(X Code) bool
}

// OnIsomerHit is a channel used to return isomer codes meeting a selection.
// Ownership of each Code also travels through the channel.
type OnIsomerHit chan<- Code

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string       // omit for in-memory db
	ReadOnly   bool         // open in read-only mode
	Labeller   LabellerKind // labeller of the stored levels ("" accepts an existing catalog's, or DefaultLabeller for a new one)
}

// Catalog wraps a database of completed isomer levels, one level per carbon count.
type Catalog interface {

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// LabellerKind returns the labeller the stored levels were produced with.
	LabellerKind() LabellerKind

	// MaxCarbons returns the highest carbon count C such that levels 1..C are all stored.
	MaxCarbons() int

	// NumIsomers returns the number of isomers stored for the given carbon count (0 if absent).
	NumIsomers(carbons int) int64

	// LevelDigest returns the digest of the stored level's artifact (nil if absent).
	LevelDigest(carbons int) []byte

	// PutLevel stores a completed level, replacing any level with the same carbon count.
	PutLevel(set *IsomerSet) error

	// ReadLevel loads a stored level and verifies it against its stored digest.
	ReadLevel(carbons int) (*IsomerSet, error)

	// Select sends each stored code for the given carbon count to onHit, in acceptance order.
	Select(carbons int, onHit OnIsomerHit)

	Close() error
}

// PrintOpts specifies what is printed for each isomer
type PrintOpts struct {
	Label     string   // Prefix label
	Skeleton  bool     // If set, prints the skeleton expression (e.g. "C(C)CC")
	Labeller  Labeller // If set, prints the signature produced by this Labeller
	Numbering bool     // If set, prints a running count before each code
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Skeleton:  true,
	Numbering: true,
}

// WriteAsString writes X as a single line item according to opts.
func (X Code) WriteAsString(out io.Writer, opts PrintOpts) {
	var buf [256]byte
	line := X.AppendDigits(buf[:0])
	if opts.Skeleton {
		line = append(line, ',')
		line = X.AppendSkeleton(line)
	}
	if opts.Labeller != nil {
		line = append(line, ',')
		sig := opts.Labeller.Signature(X, nil)
		line = sig.AppendString(line)
	}
	out.Write(line)
}
