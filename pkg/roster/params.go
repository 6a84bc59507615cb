// Package roster packs ordered entity records and their parallel name strings
// into the fixed-capacity list layouts used by save images.
//
// A packed list is laid out as:
//
//	[count(1)][species(capacity+1)][records(capacity*recordSize)][ot names(capacity*stringLength)][nicknames(capacity*stringLength)]
//
// The species bytes hold one index per occupied slot followed by the empty
// sentinel, which doubles as the end-of-list marker. Records are stored
// exactly as the caller supplies them; any at-rest transform is applied
// outside this package.
package roster

import (
	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/text"
)

const (
	// EmptySentinel marks an unused species slot and the end of the list.
	EmptySentinel byte = 0xFF
	// EggSentinel replaces the species index of a slot holding an egg.
	EggSentinel byte = 0xFD

	Gen1PartySize        = 6
	Gen1PartyRecordSize  = 44
	Gen1BoxRecordSize    = 33
	Gen1StringLength     = 11
	Gen1JPStringLength   = 6
	Gen1BoxCapacity      = 20
	Gen1JPBoxCapacity    = 30
	Gen3PartyCapacity    = 6
	countedListCountSize = 4
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFormat   = errors.New("invalid list format")
)

// Params describes one list shape. Table and Fill drive the name strings.
type Params struct {
	Capacity      int
	RecordSize    int
	StringLength  int
	Table         *text.Table
	Fill          text.FillPolicy
	EmptySentinel byte
	EggSentinel   byte
}

// Gen1Params returns the Game Boy list shape for a capacity. Lists the size of
// the party, and single-entry lists, carry full party records; larger lists
// carry box records.
func Gen1Params(capacity int, japanese bool) Params {
	p := Params{
		Capacity:      capacity,
		RecordSize:    Gen1BoxRecordSize,
		StringLength:  Gen1StringLength,
		Table:         text.Gen1International,
		Fill:          text.Fill50,
		EmptySentinel: EmptySentinel,
		EggSentinel:   EggSentinel,
	}
	if capacity == Gen1PartySize || capacity == 1 {
		p.RecordSize = Gen1PartyRecordSize
	}
	if japanese {
		p.StringLength = Gen1JPStringLength
		p.Table = text.Gen1Japanese
	}
	return p
}

// Validate checks that the shape is usable.
func (p Params) Validate() error {
	switch {
	case p.Capacity <= 0 || p.Capacity > 0xFE:
		return errors.Wrapf(ErrInvalidArgument, "capacity %d", p.Capacity)
	case p.RecordSize <= 0:
		return errors.Wrapf(ErrInvalidArgument, "record size %d", p.RecordSize)
	case p.StringLength <= 0:
		return errors.Wrapf(ErrInvalidArgument, "string length %d", p.StringLength)
	case p.Table == nil:
		return errors.Wrap(ErrInvalidArgument, "no character table")
	}
	return nil
}

// DataLength is the exact packed size: 2 + C*(recordSize + 1 + 2*stringLength).
func DataLength(p Params) int {
	return 2 + p.Capacity*(p.RecordSize+1+2*p.StringLength)
}

func (p Params) speciesOffset() int { return 1 }

func (p Params) recordsOffset() int { return 2 + p.Capacity }

func (p Params) otOffset() int { return p.recordsOffset() + p.Capacity*p.RecordSize }

func (p Params) nicknameOffset() int { return p.otOffset() + p.Capacity*p.StringLength }

// CreateEmpty returns a packed list with no entries: count zero, every species
// byte set to the empty sentinel and every string byte set to the terminator.
func CreateEmpty(p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	data := make([]byte, DataLength(p))
	for i := p.speciesOffset(); i < p.recordsOffset(); i++ {
		data[i] = p.EmptySentinel
	}
	term := p.Table.Terminator()
	for i := p.otOffset(); i < len(data); i++ {
		data[i] = term
	}
	return data, nil
}

// Valid reports whether a list with the given capacity can start at offset:
// the count fits and the species byte after the last entry is the end marker.
func Valid(data []byte, offset, capacity int) bool {
	if offset < 0 || offset >= len(data) {
		return false
	}
	count := int(data[offset])
	if count > capacity {
		return false
	}
	end := offset + 1 + count
	return end < len(data) && data[end] == EmptySentinel
}
