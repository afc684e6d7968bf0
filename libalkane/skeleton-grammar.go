package libalkane

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fine-structures/alkanes/alkane"
	"github.com/pkg/errors"
)

// SkeletonExpr is a carbon skeleton in branch notation, e.g. "CC(C)C" for isobutane.
//
// A chain is a run of bonded carbons; a parenthesized chain after a carbon is a branch bonded to that carbon.
type SkeletonExpr struct {
	Chain *ChainExpr `parser:"@@"`
}

type ChainExpr struct {
	Atoms []*AtomExpr `parser:"@@+"`
}

type AtomExpr struct {
	Carbon   string       `parser:"@Carbon"`
	Branches []*ChainExpr `parser:"( \"(\" @@ \")\" )*"`
}

var sSkeletonLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Carbon", Pattern: `C`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "whitespace", Pattern: `\s+`},
})

var parseSkeletonExpr = participle.MustBuild[SkeletonExpr](
	participle.Lexer(sSkeletonLexer),
	participle.Elide("whitespace"),
)

// Skeleton is a parsed carbon skeleton: atoms numbered in the order they appear in the expression.
type Skeleton struct {
	Adj alkane.Connectivity
}

// ParseSkeleton parses a branch notation expression into a Skeleton.
func ParseSkeleton(expr string) (*Skeleton, error) {
	parsed, err := parseSkeletonExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(alkane.ErrBadSkeleton, err.Error())
	}

	var b skeletonBuilder
	b.countChain(parsed.Chain)
	if b.numAtoms > alkane.MaxCarbons {
		return nil, errors.Wrapf(alkane.ErrCarbonCount, "skeleton has %d carbons", b.numAtoms)
	}

	sk := &Skeleton{}
	sk.Adj.Reset(b.numAtoms)
	b.adj = sk.Adj
	if _, err = b.applyChain(parsed.Chain, -1); err != nil {
		return nil, err
	}
	return sk, nil
}

type skeletonBuilder struct {
	numAtoms int
	nextAtom int
	adj      alkane.Connectivity
}

func (b *skeletonBuilder) countChain(chain *ChainExpr) {
	for _, atom := range chain.Atoms {
		b.numAtoms++
		for _, branch := range atom.Branches {
			b.countChain(branch)
		}
	}
}

// applyChain bonds each atom of chain to the one before it, the first atom to attachTo (if >= 0).
func (b *skeletonBuilder) applyChain(chain *ChainExpr, attachTo int) (int, error) {
	prev := attachTo
	first := -1
	for _, atom := range chain.Atoms {
		cur := b.nextAtom
		b.nextAtom++
		if first < 0 {
			first = cur
		}
		if prev >= 0 {
			if err := b.adj.AddBond(prev, cur); err != nil {
				return first, err
			}
		}
		for _, branch := range atom.Branches {
			if _, err := b.applyChain(branch, cur); err != nil {
				return first, err
			}
		}
		prev = cur
	}
	return first, nil
}

// NumCarbons returns the number of carbons in this skeleton.
func (sk *Skeleton) NumCarbons() int {
	return sk.Adj.NumAtoms()
}

// Code returns the digit code of this skeleton rooted at its lowest-numbered atom with the most bonds,
// which always satisfies alkane.Code.Validate().
func (sk *Skeleton) Code() alkane.Code {
	return sk.Adj.AppendCode(nil, sk.Adj.MaxDegreeAtom())
}

// CodeFrom returns the digit code of this skeleton rooted at the given atom (zero-based).
func (sk *Skeleton) CodeFrom(root int) (alkane.Code, error) {
	if root < 0 || root >= sk.NumCarbons() {
		return nil, errors.Wrapf(alkane.ErrCarbonCount, "atom %d is not in a %d carbon skeleton", root+1, sk.NumCarbons())
	}
	return sk.Adj.AppendCode(nil, root), nil
}

// FormatSkeleton renders a code in branch notation.
func FormatSkeleton(X alkane.Code) string {
	return X.Skeleton()
}

// EncodeSkeleton parses an expression and returns its digit code rooted at a most-bonded atom.
func EncodeSkeleton(expr string) (alkane.Code, error) {
	sk, err := ParseSkeleton(expr)
	if err != nil {
		return nil, err
	}
	return sk.Code(), nil
}
