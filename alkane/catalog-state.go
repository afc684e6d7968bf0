package alkane

import (
	"github.com/gogo/protobuf/proto"
)

const (
	CatalogMajorVers = 2026
	CatalogMinorVers = 1
)

// CatalogState is the root record of a Catalog, stored as a protobuf message.
//
// NumIsomers and Digests are indexed by carbon count; index 0 is unused.
type CatalogState struct {
	MajorVers  int32    `protobuf:"varint,1,opt,name=MajorVers,proto3" json:"MajorVers,omitempty"`
	MinorVers  int32    `protobuf:"varint,2,opt,name=MinorVers,proto3" json:"MinorVers,omitempty"`
	Labeller   string   `protobuf:"bytes,3,opt,name=Labeller,proto3" json:"Labeller,omitempty"`
	NumIsomers []uint64 `protobuf:"varint,4,rep,packed,name=NumIsomers,proto3" json:"NumIsomers,omitempty"`
	Digests    [][]byte `protobuf:"bytes,5,rep,name=Digests,proto3" json:"Digests,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// EncodeState returns the wire encoding of this state.
func (m *CatalogState) EncodeState() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeState assigns this state from an encoding made by EncodeState().
func (m *CatalogState) DecodeState(buf []byte) error {
	return proto.Unmarshal(buf, m)
}

// SetLevel records the count and digest of a level, growing the per level tables as needed.
func (m *CatalogState) SetLevel(carbons int, numIsomers uint64, digest []byte) {
	for len(m.NumIsomers) <= carbons {
		m.NumIsomers = append(m.NumIsomers, 0)
	}
	for len(m.Digests) <= carbons {
		m.Digests = append(m.Digests, nil)
	}
	m.NumIsomers[carbons] = numIsomers
	m.Digests[carbons] = append([]byte(nil), digest...)
}

// Level returns the recorded count and digest of a level (0 and nil if absent).
func (m *CatalogState) Level(carbons int) (uint64, []byte) {
	if carbons <= 0 || carbons >= len(m.NumIsomers) {
		return 0, nil
	}
	var digest []byte
	if carbons < len(m.Digests) {
		digest = m.Digests[carbons]
	}
	return m.NumIsomers[carbons], digest
}

// MaxCarbons returns the highest C such that levels 1..C are all recorded.
func (m *CatalogState) MaxCarbons() int {
	C := 0
	for C+1 < len(m.NumIsomers) && m.NumIsomers[C+1] > 0 {
		C++
	}
	return C
}
