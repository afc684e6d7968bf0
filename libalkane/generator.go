package libalkane

import (
	"github.com/fine-structures/alkanes/alkane"
)

// Generator proposes C+1 carbon candidates from the accepted C carbon isomers.
//
// Parents are visited in acceptance order and positions left to right, so a
// level's candidate order (and therefore which duplicate wins) is deterministic.
type Generator struct {
	candidate     alkane.Code // reused for every candidate
	numCandidates int64
}

// Extend calls onCandidate with every admissible extension of every code in parents.
//
// The candidate passed to onCandidate is overwritten by the next candidate; copy it to retain it.
func (gen *Generator) Extend(parents *alkane.IsomerSet, onCandidate func(X alkane.Code)) {
	gen.ExtendRange(parents, 0, parents.Len(), onCandidate)
}

// ExtendRange is Extend restricted to parents [lo, hi).
func (gen *Generator) ExtendRange(parents *alkane.IsomerSet, lo, hi int, onCandidate func(X alkane.Code)) {
	for i := lo; i < hi; i++ {
		gen.ExtendParent(parents.Code(i), onCandidate)
	}
}

// ExtendParent calls onCandidate with each admissible extension of X, in position order.
func (gen *Generator) ExtendParent(X alkane.Code, onCandidate func(X alkane.Code)) {
	if cap(gen.candidate) < len(X)+1 {
		gen.candidate = make(alkane.Code, 0, len(X)+16)
	}
	for pos := range X {
		if !X.CanExtend(pos) {
			continue
		}
		gen.candidate = X.AppendExtension(gen.candidate[:0], pos)
		gen.numCandidates++
		onCandidate(gen.candidate)
	}
}

// NumCandidates returns the number of candidates proposed so far.
func (gen *Generator) NumCandidates() int64 {
	return gen.numCandidates
}
