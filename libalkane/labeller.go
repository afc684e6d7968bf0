package libalkane

import (
	"github.com/fine-structures/alkanes/alkane"
	"github.com/pkg/errors"
)

// NewLabeller returns a new Labeller of the given kind ("" denotes alkane.DefaultLabeller).
//
// Each goroutine computing signatures needs its own Labeller.
func NewLabeller(kind alkane.LabellerKind) (alkane.Labeller, error) {
	if kind == "" {
		kind = alkane.DefaultLabeller
	}
	switch kind {
	case alkane.LabellerMorgan:
		return &morganLabeller{}, nil
	case alkane.LabellerAHU:
		return &ahuLabeller{}, nil
	}
	return nil, errors.Wrapf(alkane.ErrBadLabeller, "%q", kind)
}

// MustNewLabeller is NewLabeller for kinds known to be valid.
func MustNewLabeller(kind alkane.LabellerKind) alkane.Labeller {
	lb, err := NewLabeller(kind)
	if err != nil {
		panic(err)
	}
	return lb
}
