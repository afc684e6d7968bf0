package alkane

import (
	"bytes"
	"encoding/binary"
	"strconv"
)

// IsEqual returns true if both signatures have the same length and values.
func (sig Signature) IsEqual(other Signature) bool {
	if len(sig) != len(other) {
		return false
	}
	for i, si := range sig {
		if other[i] != si {
			return false
		}
	}
	return true
}

// Compare orders signatures by value, then by length.
// Returns -1, 0, or 1.
func (sig Signature) Compare(other Signature) int {
	N := min(len(sig), len(other))
	for i := 0; i < N; i++ {
		switch {
		case sig[i] < other[i]:
			return -1
		case sig[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(sig) < len(other):
		return -1
	case len(sig) > len(other):
		return 1
	}
	return 0
}

func (sig *Signature) SetLen(sigLen int) {
	if cap(*sig) < sigLen {
		dimLen := sigLen
		if dimLen < 16 {
			dimLen = 16 // prevent rapid resizing
		}
		*sig = make([]int64, sigLen, dimLen)
	} else {
		*sig = (*sig)[:sigLen]
	}
}

// MakeCopy returns a copy of sig that shares no storage with sig.
func (sig Signature) MakeCopy() Signature {
	return append(Signature(nil), sig...)
}

// AppendSignatureLSM appends a binary encoding of sig to out, returning it as a SignatureLSM.
//
// Each value is a varint, so equal-length signatures have equal encodings only if they are equal.
func (sig Signature) AppendSignatureLSM(out []byte) SignatureLSM {
	var scrap [binary.MaxVarintLen64]byte
	key := out
	for _, si := range sig {
		n := binary.PutVarint(scrap[:], si)
		key = append(key, scrap[:n]...)
	}
	return key
}

// InitFromSignatureLSM assigns this Signature from a binary encoding made from AppendSignatureLSM()
func (sig *Signature) InitFromSignatureLSM(key SignatureLSM) error {
	out := (*sig)[:0]
	rdr := bytes.NewReader(key)
	for rdr.Len() > 0 {
		si, err := binary.ReadVarint(rdr)
		if err != nil {
			*sig = out
			return ErrUnmarshal
		}
		out = append(out, si)
	}
	*sig = out
	return nil
}

// AppendString appends sig as space separated values.
func (sig Signature) AppendString(out []byte) []byte {
	for i, si := range sig {
		if i > 0 {
			out = append(out, ' ')
		}
		out = strconv.AppendInt(out, si, 10)
	}
	return out
}

func (sig Signature) String() string {
	return string(sig.AppendString(nil))
}

// IsUnique returns true if no signature in accepted equals sig.
//
// accepted is the closed prefix of signatures accepted so far, scanned in acceptance order.
func IsUnique(sig Signature, accepted []Signature) bool {
	for _, prior := range accepted {
		if prior.IsEqual(sig) {
			return false
		}
	}
	return true
}
