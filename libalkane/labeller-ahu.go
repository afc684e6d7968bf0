package libalkane

import (
	"sort"
	"strings"

	"github.com/fine-structures/alkanes/alkane"
)

// ahuLabeller roots a skeleton at its centre and builds the canonical nested-paren form
// by sorting each atom's child forms.  When a tree has two centres, the lesser form is used.
//
// The signature is the child count of each atom in canonical preorder, which determines
// the tree up to isomorphism (unlike Morgan values).
type ahuLabeller struct {
	adj    alkane.Connectivity
	degree []int
	leaves []int
	forms  []string
}

func (lb *ahuLabeller) Kind() alkane.LabellerKind {
	return alkane.LabellerAHU
}

func (lb *ahuLabeller) Signature(X alkane.Code, sig alkane.Signature) alkane.Signature {
	X.ExtractConnectivity(&lb.adj)

	c1, c2 := lb.centres()
	form := lb.canonicalForm(c1, -1)
	if c2 >= 0 {
		if alt := lb.canonicalForm(c2, -1); alt < form {
			form = alt
		}
	}

	sig.SetLen(len(X))
	return appendChildCounts(sig[:0], form)
}

// centres strips leaves layer by layer until one or two atoms remain.
// c2 is -1 when the tree has a single centre.
func (lb *ahuLabeller) centres() (c1, c2 int) {
	N := len(lb.adj)
	if N == 1 {
		return 0, -1
	}

	if cap(lb.degree) < N {
		lb.degree = make([]int, N)
	}
	degree := lb.degree[:N]
	leaves := lb.leaves[:0]
	for i, nbrs := range lb.adj {
		degree[i] = len(nbrs)
		if degree[i] == 1 {
			leaves = append(leaves, i)
		}
	}

	remaining := N
	for remaining > 2 {
		remaining -= len(leaves)
		layer := len(leaves)
		for _, leaf := range leaves[:layer] {
			degree[leaf] = 0
			for _, w := range lb.adj[leaf] {
				if degree[w] > 0 {
					degree[w]--
					if degree[w] == 1 {
						leaves = append(leaves, w)
					}
				}
			}
		}
		leaves = append(leaves[:0], leaves[layer:]...)
	}
	lb.leaves = leaves

	if remaining == 1 {
		return leaves[0], -1
	}
	// remaining == 2: both are either the final leaves or the two unstripped atoms
	c1, c2 = -1, -1
	for i, d := range degree {
		if d > 0 {
			if c1 < 0 {
				c1 = i
			} else {
				c2 = i
			}
		}
	}
	return c1, c2
}

func (lb *ahuLabeller) canonicalForm(v, parent int) string {
	var kids []string
	for _, w := range lb.adj[v] {
		if w != parent {
			kids = append(kids, lb.canonicalForm(w, v))
		}
	}
	sort.Strings(kids)

	b := strings.Builder{}
	b.Grow(2 + 16*len(kids))
	b.WriteByte('(')
	for _, kid := range kids {
		b.WriteString(kid)
	}
	b.WriteByte(')')
	return b.String()
}

// appendChildCounts maps a nested-paren form to the child count of each atom in preorder.
func appendChildCounts(sig alkane.Signature, form string) alkane.Signature {
	var stack [alkane.MaxCarbons + 1]int
	depth := 0
	for i := 0; i < len(form); i++ {
		switch form[i] {
		case '(':
			if depth > 0 {
				sig[stack[depth-1]]++
			}
			stack[depth] = len(sig)
			sig = append(sig, 0)
			depth++
		case ')':
			depth--
		}
	}
	return sig
}
