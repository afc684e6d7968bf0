package alkane

import (
	"github.com/pkg/errors"
)

// MethaneCode is the single carbon skeleton, the base case of every enumeration.
var MethaneCode = Code{0}

// ParseCode reads a digit code written as concatenated digits (e.g. "2100").
//
// The returned code is a well-formed preorder tree but may be rooted at any atom; see Validate().
func ParseCode(str string) (Code, error) {
	if len(str) == 0 {
		return nil, errors.Wrap(ErrBadCode, "empty code")
	}
	if len(str) > MaxCarbons {
		return nil, errors.Wrapf(ErrCarbonCount, "code has %d digits", len(str))
	}
	X := make(Code, len(str))
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(ErrBadCode, "unexpected %q at position %d", c, i+1)
		}
		X[i] = c - '0'
	}
	if err := X.checkStructure(); err != nil {
		return nil, err
	}
	return X, nil
}

// CarbonCount returns the number of carbon atoms X describes.
func (X Code) CarbonCount() int {
	return len(X)
}

// Degree returns the number of bonds of the atom at the given position.
func (X Code) Degree(pos int) int {
	if pos == 0 {
		return int(X[0])
	}
	return int(X[pos]) + 1
}

// NumBonds returns the number of carbon-carbon bonds, always CarbonCount()-1 for a well-formed code.
func (X Code) NumBonds() int {
	n := 0
	for _, d := range X {
		n += int(d)
	}
	return n
}

// IsWellFormed returns true if X is a preorder child count sequence of a single tree with valence <= 4.
func (X Code) IsWellFormed() bool {
	return X.checkStructure() == nil
}

func (X Code) checkStructure() error {
	if len(X) == 0 {
		return errors.Wrap(ErrBadCode, "empty code")
	}
	open := 1
	for i, d := range X {
		if open <= 0 {
			return errors.Wrapf(ErrMalformedCode, "tree closes before position %d", i+1)
		}
		limit := byte(MaxBranches)
		if i == 0 {
			limit = MaxValence
		}
		if d > limit {
			return errors.Wrapf(ErrValenceExceeded, "position %d has %d branches", i+1, d)
		}
		open += int(d) - 1
	}
	if open != 0 {
		return errors.Wrapf(ErrMalformedCode, "%d branches left open", open)
	}
	return nil
}

// Validate checks the invariants every generated code satisfies:
// it is well formed and no non-root atom has more bonds than the root.
func (X Code) Validate() error {
	if err := X.checkStructure(); err != nil {
		return err
	}
	root := X[0]
	for i := 1; i < len(X); i++ {
		if X[i]+1 > root {
			return errors.Wrapf(ErrRootNotMax, "position %d has %d bonds, root has %d", i+1, X[i]+1, root)
		}
	}
	return nil
}

// CanExtend returns true if a new carbon can be attached to the atom at pos while keeping X a valid generated code.
func (X Code) CanExtend(pos int) bool {
	d := X[pos]
	if pos == 0 {
		return d < MaxValence
	}
	return d < MaxBranches && d+1 < X[0]
}

// AppendExtension appends to dst the code of X with a new leaf carbon attached to the atom at pos.
//
// The new leaf becomes the first child of pos: digits [0,pos) are copied, pos is incremented,
// a 0 is inserted after it, and the remaining digits follow shifted by one.
func (X Code) AppendExtension(dst Code, pos int) Code {
	dst = append(dst, X[:pos]...)
	dst = append(dst, X[pos]+1, 0)
	dst = append(dst, X[pos+1:]...)
	return dst
}

// String returns X as concatenated digits, the artifact line format.
func (X Code) String() string {
	var buf [64]byte
	return string(X.AppendDigits(buf[:0]))
}

// AppendDigits appends X's digits as ASCII.
func (X Code) AppendDigits(out []byte) []byte {
	for _, d := range X {
		out = append(out, '0'+d)
	}
	return out
}

// MakeCopy returns a copy of X that shares no storage with X.
func (X Code) MakeCopy() Code {
	return append(Code(nil), X...)
}

// IsEqual returns true if both codes have the same digits.
func (X Code) IsEqual(other Code) bool {
	if len(X) != len(other) {
		return false
	}
	for i, d := range X {
		if other[i] != d {
			return false
		}
	}
	return true
}

// Skeleton returns X in branch notation, e.g. "C(CC)C" for 2100.
func (X Code) Skeleton() string {
	var buf [128]byte
	return string(X.AppendSkeleton(buf[:0]))
}

// AppendSkeleton appends X in branch notation: each atom is a "C", and every child but the last is wrapped in parens.
func (X Code) AppendSkeleton(out []byte) []byte {
	if len(X) == 0 {
		return out
	}
	out, _ = X.appendSkeleton(out, 0)
	return out
}

func (X Code) appendSkeleton(out []byte, pos int) ([]byte, int) {
	out = append(out, 'C')
	n := int(X[pos])
	pos++
	for i := 0; i < n; i++ {
		last := i == n-1
		if !last {
			out = append(out, '(')
		}
		out, pos = X.appendSkeleton(out, pos)
		if !last {
			out = append(out, ')')
		}
	}
	return out, pos
}
