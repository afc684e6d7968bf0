package libalkane

import (
	"sort"

	"github.com/fine-structures/alkanes/alkane"
)

// morganLabeller computes a bounded number of Morgan rounds:
// each atom starts with its bond count, and every round replaces each atom's value
// with the sum of its neighbours' values from the previous round.
// The signature is the final values sorted descending.
type morganLabeller struct {
	adj  alkane.Connectivity
	cur  []int64
	next []int64
}

func (lb *morganLabeller) Kind() alkane.LabellerKind {
	return alkane.LabellerMorgan
}

// MaxMorganRounds caps the rounds run on large skeletons.
// A round at most quadruples the largest value and seeds are at most 4, so after r rounds
// every value is at most 4^(r+1), which stays below 2^63 for r <= 30.
// Skeletons with more than 89 carbons are therefore labelled with fewer than C/3+1 rounds.
const MaxMorganRounds = 30

// MorganRounds returns the number of rounds run for a skeleton with the given carbon count.
func MorganRounds(carbons int) int {
	return min(carbons/3+1, MaxMorganRounds)
}

func (lb *morganLabeller) Signature(X alkane.Code, sig alkane.Signature) alkane.Signature {
	N := len(X)
	X.ExtractConnectivity(&lb.adj)

	if cap(lb.cur) < N {
		lb.cur = make([]int64, N, N+8)
		lb.next = make([]int64, N, N+8)
	}
	cur := lb.cur[:N]
	next := lb.next[:N]

	for i := range cur {
		cur[i] = int64(X.Degree(i))
	}

	rounds := MorganRounds(N)
	for r := 0; r < rounds; r++ {
		for i, nbrs := range lb.adj {
			sum := int64(0)
			for _, j := range nbrs {
				sum += cur[j]
			}
			next[i] = sum
		}
		cur, next = next, cur
	}

	sig.SetLen(N)
	copy(sig, cur)
	sort.Slice(sig, func(i, j int) bool {
		return sig[i] > sig[j]
	})
	return sig
}
