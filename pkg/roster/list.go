package roster

import (
	"github.com/pkg/errors"
)

// Roster is the record-level view shared by every list layout.
type Roster interface {
	Count() int
	Capacity() int
	Record(i int) ([]byte, error)
	SetRecord(i int, record []byte) error
	Bytes() []byte
}

// Entry is one decoded slot of a packed list.
type Entry struct {
	Species  byte
	Record   []byte
	OTName   string
	Nickname string
	IsEgg    bool
	Present  bool
}

// List is a packed list held in a single owned buffer. Slot contents are
// addressed by offset into that buffer.
type List struct {
	params Params
	data   []byte
}

// New returns an empty list.
func New(p Params) (*List, error) {
	data, err := CreateEmpty(p)
	if err != nil {
		return nil, err
	}
	return &List{params: p, data: data}, nil
}

// Parse copies data into a new list after checking length, count and the end
// marker.
func Parse(data []byte, p Params) (*List, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(data) != DataLength(p) {
		return nil, errors.Wrapf(ErrInvalidFormat, "length %d, expected %d", len(data), DataLength(p))
	}
	if !Valid(data, 0, p.Capacity) {
		return nil, errors.Wrapf(ErrInvalidFormat, "count %d with capacity %d", data[0], p.Capacity)
	}

	owned := make([]byte, len(data))
	copy(owned, data)
	return &List{params: p, data: owned}, nil
}

func (l *List) Params() Params { return l.params }

func (l *List) Count() int { return int(l.data[0]) }

func (l *List) Capacity() int { return l.params.Capacity }

// Bytes returns a copy of the packed buffer.
func (l *List) Bytes() []byte {
	out := make([]byte, len(l.data))
	copy(out, l.data)
	return out
}

// Read decodes every slot in order. Slots past the count report Present false.
func (l *List) Read() []Entry {
	entries := make([]Entry, l.params.Capacity)
	for i := range entries {
		entries[i] = l.entry(i)
	}
	return entries
}

// Entry decodes one slot.
func (l *List) Entry(i int) (Entry, error) {
	if err := l.checkIndex(i); err != nil {
		return Entry{}, err
	}
	return l.entry(i), nil
}

func (l *List) entry(i int) Entry {
	species := l.data[l.params.speciesOffset()+i]
	e := Entry{
		Species:  species,
		Record:   l.span(l.recordOffset(i), l.params.RecordSize),
		OTName:   l.params.Table.Decode(l.data[l.otNameOffset(i) : l.otNameOffset(i)+l.params.StringLength]),
		Nickname: l.params.Table.Decode(l.data[l.nicknameOffset(i) : l.nicknameOffset(i)+l.params.StringLength]),
		Present:  i < l.Count() && species != l.params.EmptySentinel,
	}
	e.IsEgg = e.Present && species == l.params.EggSentinel
	return e
}

// Record returns a copy of the record in slot i.
func (l *List) Record(i int) ([]byte, error) {
	if err := l.checkIndex(i); err != nil {
		return nil, err
	}
	return l.span(l.recordOffset(i), l.params.RecordSize), nil
}

// SetRecord replaces the raw record bytes in slot i. Species and names are
// left alone.
func (l *List) SetRecord(i int, record []byte) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	if len(record) != l.params.RecordSize {
		return errors.Wrapf(ErrInvalidArgument, "record is %d bytes, expected %d", len(record), l.params.RecordSize)
	}
	copy(l.data[l.recordOffset(i):], record)
	return nil
}

// SetEntry overwrites an occupied slot, or appends when i equals the count.
func (l *List) SetEntry(i int, e Entry) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	if i > l.Count() {
		return errors.Wrapf(ErrInvalidArgument, "slot %d leaves a gap after %d entries", i, l.Count())
	}
	if err := l.checkEntry(e); err != nil {
		return err
	}

	l.write(i, e)
	if i == l.Count() {
		l.data[0]++
		l.data[l.params.speciesOffset()+l.Count()] = l.params.EmptySentinel
	}
	return nil
}

// Append adds an entry after the last occupied slot.
func (l *List) Append(e Entry) error {
	if l.Count() >= l.params.Capacity {
		return errors.Wrapf(ErrInvalidArgument, "list is full (%d)", l.params.Capacity)
	}
	return l.SetEntry(l.Count(), e)
}

// Remove deletes slot i and shifts later entries down.
func (l *List) Remove(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	count := l.Count()
	if i >= count {
		return errors.Wrapf(ErrInvalidArgument, "slot %d is empty", i)
	}

	for j := i; j < count-1; j++ {
		l.moveSlot(j+1, j)
	}
	l.clearSlot(count - 1)
	l.data[0]--
	return nil
}

func (l *List) write(i int, e Entry) {
	species := e.Species
	if e.IsEgg {
		species = l.params.EggSentinel
	}
	l.data[l.params.speciesOffset()+i] = species
	copy(l.data[l.recordOffset(i):], e.Record)

	sl := l.params.StringLength
	l.params.Table.Encode(l.data[l.otNameOffset(i):l.otNameOffset(i)+sl], e.OTName, sl-1, l.params.Fill)
	l.params.Table.Encode(l.data[l.nicknameOffset(i):l.nicknameOffset(i)+sl], e.Nickname, sl-1, l.params.Fill)
}

func (l *List) moveSlot(from, to int) {
	p := l.params
	l.data[p.speciesOffset()+to] = l.data[p.speciesOffset()+from]
	copy(l.data[l.recordOffset(to):l.recordOffset(to)+p.RecordSize], l.data[l.recordOffset(from):])
	copy(l.data[l.otNameOffset(to):l.otNameOffset(to)+p.StringLength], l.data[l.otNameOffset(from):])
	copy(l.data[l.nicknameOffset(to):l.nicknameOffset(to)+p.StringLength], l.data[l.nicknameOffset(from):])
}

func (l *List) clearSlot(i int) {
	p := l.params
	l.data[p.speciesOffset()+i] = p.EmptySentinel
	clear(l.data[l.recordOffset(i) : l.recordOffset(i)+p.RecordSize])
	term := p.Table.Terminator()
	for _, start := range []int{l.otNameOffset(i), l.nicknameOffset(i)} {
		for k := start; k < start+p.StringLength; k++ {
			l.data[k] = term
		}
	}
}

func (l *List) checkIndex(i int) error {
	if i < 0 || i >= l.params.Capacity {
		return errors.Wrapf(ErrInvalidArgument, "index %d out of range for capacity %d", i, l.params.Capacity)
	}
	return nil
}

func (l *List) checkEntry(e Entry) error {
	switch e.Species {
	case 0:
		return errors.Wrap(ErrInvalidArgument, "species index 0 does not exist")
	case l.params.EmptySentinel, l.params.EggSentinel:
		return errors.Wrapf(ErrInvalidArgument, "species %#02x is reserved", e.Species)
	}
	if len(e.Record) != l.params.RecordSize {
		return errors.Wrapf(ErrInvalidArgument, "record is %d bytes, expected %d", len(e.Record), l.params.RecordSize)
	}
	return nil
}

func (l *List) span(offset, length int) []byte {
	out := make([]byte, length)
	copy(out, l.data[offset:offset+length])
	return out
}

func (l *List) recordOffset(i int) int {
	return l.params.recordsOffset() + i*l.params.RecordSize
}

func (l *List) otNameOffset(i int) int {
	return l.params.otOffset() + i*l.params.StringLength
}

func (l *List) nicknameOffset(i int) int {
	return l.params.nicknameOffset() + i*l.params.StringLength
}
