package alkane

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"lukechampine.com/blake3"
)

// DigestSz is the byte length of an IsomerSet digest.
const DigestSz = 32

// IsomerSet is the append-only list of isomers accepted for one carbon count, in acceptance order.
type IsomerSet struct {
	carbons int
	digits  []byte // codes stored back to back, each carbons digits long
}

// NewIsomerSet returns an empty set for the given carbon count.
//
// capacityHint is the number of codes to preallocate for (0 for none).
func NewIsomerSet(carbons int, capacityHint int) *IsomerSet {
	if carbons < 1 || carbons > MaxCarbons {
		panic(errors.Wrapf(ErrCarbonCount, "carbons=%d", carbons))
	}
	set := &IsomerSet{
		carbons: carbons,
	}
	if capacityHint > 0 {
		set.digits = make([]byte, 0, capacityHint*carbons)
	}
	return set
}

// NewMethaneSet returns the one carbon level, holding only MethaneCode.
func NewMethaneSet() *IsomerSet {
	set := NewIsomerSet(1, 1)
	set.Append(MethaneCode)
	return set
}

func (set *IsomerSet) CarbonCount() int {
	return set.carbons
}

// Len returns the number of codes in this set.
func (set *IsomerSet) Len() int {
	return len(set.digits) / set.carbons
}

// Code returns the i-th accepted code.  The caller must not modify it.
func (set *IsomerSet) Code(i int) Code {
	lo := i * set.carbons
	hi := lo + set.carbons
	return Code(set.digits[lo:hi:hi])
}

// Codes returns all codes in acceptance order.
func (set *IsomerSet) Codes() []Code {
	N := set.Len()
	codes := make([]Code, N)
	for i := range codes {
		codes[i] = set.Code(i)
	}
	return codes
}

// Append adds a copy of X to the end of this set.
func (set *IsomerSet) Append(X Code) error {
	if len(X) != set.carbons {
		return errors.Wrapf(ErrCarbonCount, "appending %d carbon code to %d carbon set", len(X), set.carbons)
	}
	set.digits = append(set.digits, X...)
	return nil
}

// WriteArtifact writes this set in the "<N>.isomers" text format:
// two comment header lines followed by one digit code per line.
func (set *IsomerSet) WriteArtifact(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Carbon atoms in this alkane: %d\n", set.carbons)
	fmt.Fprintf(bw, "# Amount of isomers found for this alkane: %d\n", set.Len())

	line := make([]byte, 0, set.carbons+1)
	N := set.Len()
	for i := 0; i < N; i++ {
		line = set.Code(i).AppendDigits(line[:0])
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ArtifactName returns the file name this set's artifact is written to.
func (set *IsomerSet) ArtifactName() string {
	return fmt.Sprintf("%d.isomers", set.carbons)
}

// Digest returns the blake3 hash of this set's artifact.
func (set *IsomerSet) Digest() []byte {
	h := blake3.New(DigestSz, nil)
	set.WriteArtifact(h)
	return h.Sum(nil)
}

// ReadArtifact reads a set written by WriteArtifact.
func ReadArtifact(r io.Reader) (*IsomerSet, error) {
	var (
		set      *IsomerSet
		carbons  int
		expected int
		lineNum  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		switch lineNum {
		case 1:
			if _, err := fmt.Sscanf(line, "# Carbon atoms in this alkane: %d", &carbons); err != nil {
				return nil, errors.Wrap(ErrUnmarshal, "missing carbon count header")
			}
			if carbons < 1 || carbons > MaxCarbons {
				return nil, errors.Wrapf(ErrCarbonCount, "carbons=%d", carbons)
			}
			continue
		case 2:
			if _, err := fmt.Sscanf(line, "# Amount of isomers found for this alkane: %d", &expected); err != nil {
				return nil, errors.Wrap(ErrUnmarshal, "missing isomer count header")
			}
			set = NewIsomerSet(carbons, expected)
			continue
		}
		X, err := ParseCode(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		if err = set.Append(X); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.Wrap(ErrUnmarshal, "missing artifact header")
	}
	if set.Len() != expected {
		return nil, errors.Wrapf(ErrUnmarshal, "header claims %d isomers, found %d", expected, set.Len())
	}
	return set, nil
}
