package roster

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// CountedList is a 32-bit little-endian count followed by fixed-size record
// slots, as used for the GBA party.
type CountedList struct {
	capacity   int
	recordSize int
	data       []byte
}

// CountedLength is the packed size of a counted list.
func CountedLength(capacity, recordSize int) int {
	return countedListCountSize + capacity*recordSize
}

// ParseCounted copies data into a new counted list.
func ParseCounted(data []byte, capacity, recordSize int) (*CountedList, error) {
	if capacity <= 0 || recordSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "capacity %d record size %d", capacity, recordSize)
	}
	if len(data) != CountedLength(capacity, recordSize) {
		return nil, errors.Wrapf(ErrInvalidFormat, "length %d, expected %d", len(data), CountedLength(capacity, recordSize))
	}
	if count := binary.LittleEndian.Uint32(data); count > uint32(capacity) {
		return nil, errors.Wrapf(ErrInvalidFormat, "count %d with capacity %d", count, capacity)
	}

	owned := make([]byte, len(data))
	copy(owned, data)
	return &CountedList{capacity: capacity, recordSize: recordSize, data: owned}, nil
}

func (c *CountedList) Count() int {
	return int(binary.LittleEndian.Uint32(c.data))
}

func (c *CountedList) Capacity() int { return c.capacity }

// SetCount updates the stored count.
func (c *CountedList) SetCount(n int) error {
	if n < 0 || n > c.capacity {
		return errors.Wrapf(ErrInvalidArgument, "count %d with capacity %d", n, c.capacity)
	}
	binary.LittleEndian.PutUint32(c.data, uint32(n))
	return nil
}

func (c *CountedList) Record(i int) ([]byte, error) {
	if i < 0 || i >= c.capacity {
		return nil, errors.Wrapf(ErrInvalidArgument, "index %d out of range for capacity %d", i, c.capacity)
	}
	out := make([]byte, c.recordSize)
	copy(out, c.data[c.offset(i):])
	return out, nil
}

func (c *CountedList) SetRecord(i int, record []byte) error {
	if i < 0 || i >= c.capacity {
		return errors.Wrapf(ErrInvalidArgument, "index %d out of range for capacity %d", i, c.capacity)
	}
	if len(record) != c.recordSize {
		return errors.Wrapf(ErrInvalidArgument, "record is %d bytes, expected %d", len(record), c.recordSize)
	}
	copy(c.data[c.offset(i):], record)
	return nil
}

func (c *CountedList) Bytes() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

func (c *CountedList) offset(i int) int {
	return countedListCountSize + i*c.recordSize
}

var (
	_ Roster = (*List)(nil)
	_ Roster = (*CountedList)(nil)
)
