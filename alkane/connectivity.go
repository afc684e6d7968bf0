package alkane

import (
	"github.com/pkg/errors"
)

// Connectivity returns a new Connectivity extracted from X.
func (X Code) Connectivity() Connectivity {
	var adj Connectivity
	X.ExtractConnectivity(&adj)
	return adj
}

// ExtractConnectivity resets adj and fills it with the bonds encoded by X, reusing adj's storage.
//
// The first child of any atom p is always p+1.
// Each later child of p is found by walking forward past the subtrees of p's earlier children:
// the pending count starts at the digit of the previous child and for each atom passed
// grows by that atom's digit minus one, and the next atom reached with nothing pending is p's next child.
//
// X must be well formed; a malformed code is a caller defect and panics with ErrMalformedCode.
func (X Code) ExtractConnectivity(adj *Connectivity) {
	N := len(X)
	adj.Reset(N)
	A := *adj

	for p := 0; p < N; p++ {
		n := int(X[p])
		if n == 0 {
			continue
		}
		if p+1 >= N {
			panic(errors.Wrapf(ErrMalformedCode, "atom %d has no room for its branches", p+1))
		}
		A.bond(p, p+1)
		n--

		pending := int(X[p+1])
		for q := p + 2; n > 0; q++ {
			if q >= N {
				panic(errors.Wrapf(ErrMalformedCode, "atom %d is missing %d branches", p+1, n))
			}
			if pending == 0 {
				A.bond(p, q)
				n--
				pending = int(X[q])
			} else {
				pending += int(X[q]) - 1
			}
		}
	}
}

// Reset sizes adj to N atoms with no bonds, retaining allocated storage.
func (adj *Connectivity) Reset(N int) {
	A := *adj
	if cap(A) < N {
		A = append(A[:cap(A)], make(Connectivity, N-cap(A))...)
	}
	A = A[:N]
	for i := range A {
		if A[i] == nil {
			A[i] = make([]int, 0, MaxValence)
		} else {
			A[i] = A[i][:0]
		}
	}
	*adj = A
}

// AddBond bonds atoms a and b, returning an error if either atom is out of range or already has 4 bonds.
func (adj Connectivity) AddBond(a, b int) error {
	N := len(adj)
	if a < 0 || b < 0 || a >= N || b >= N || a == b {
		return errors.Wrapf(ErrBadCode, "bad bond %d-%d", a+1, b+1)
	}
	if len(adj[a]) >= MaxValence || len(adj[b]) >= MaxValence {
		return errors.Wrapf(ErrValenceExceeded, "bond %d-%d", a+1, b+1)
	}
	adj[a] = append(adj[a], b)
	adj[b] = append(adj[b], a)
	return nil
}

func (adj Connectivity) bond(a, b int) {
	if err := adj.AddBond(a, b); err != nil {
		panic(errors.Wrap(ErrMalformedCode, err.Error()))
	}
}

// NumAtoms returns the number of atoms.
func (adj Connectivity) NumAtoms() int {
	return len(adj)
}

// NumBonds returns the number of bonds.
func (adj Connectivity) NumBonds() int {
	n := 0
	for _, nbrs := range adj {
		n += len(nbrs)
	}
	return n / 2
}

// Degree returns the number of bonds of the given atom.
func (adj Connectivity) Degree(atom int) int {
	return len(adj[atom])
}

// MaxDegreeAtom returns the lowest-indexed atom having the most bonds.
func (adj Connectivity) MaxDegreeAtom() int {
	best := 0
	for i := range adj {
		if len(adj[i]) > len(adj[best]) {
			best = i
		}
	}
	return best
}

// IsTree returns true if adj is connected and has exactly NumAtoms()-1 bonds.
func (adj Connectivity) IsTree() bool {
	N := len(adj)
	if N == 0 || adj.NumBonds() != N-1 {
		return false
	}
	seen := make([]bool, N)
	stack := append(make([]int, 0, N), 0)
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range adj[v] {
			if !seen[w] {
				seen[w] = true
				count++
				stack = append(stack, w)
			}
		}
	}
	return count == N
}

// AppendCode appends the digit code of the tree adj rooted at the given atom.
//
// Children are visited in the order they appear in adj, so the result depends on both the root and bond order.
func (adj Connectivity) AppendCode(X Code, root int) Code {
	return adj.appendPreorder(X, root, -1)
}

func (adj Connectivity) appendPreorder(X Code, v, parent int) Code {
	n := 0
	for _, w := range adj[v] {
		if w != parent {
			n++
		}
	}
	X = append(X, byte(n))
	for _, w := range adj[v] {
		if w != parent {
			X = adj.appendPreorder(X, w, v)
		}
	}
	return X
}
