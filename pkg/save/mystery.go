package save

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/checksum"
)

// MysteryEventSize is a 4-byte checksum followed by 1000 bytes of event data.
const MysteryEventSize = 0x3EC

// MysteryEvent is a GBA mystery event block. The checksum is a plain byte sum
// of everything after the checksum field.
type MysteryEvent struct {
	data []byte
}

func NewMysteryEvent(data []byte) (*MysteryEvent, error) {
	if len(data) != MysteryEventSize {
		return nil, errors.Wrapf(ErrInvalidArgument, "mystery event is %d bytes, expected %d", len(data), MysteryEventSize)
	}
	return &MysteryEvent{data: append([]byte(nil), data...)}, nil
}

func (m *MysteryEvent) StoredChecksum() uint32 {
	return binary.LittleEndian.Uint32(m.data)
}

func (m *MysteryEvent) Checksum() uint32 {
	return checksum.ByteSum(m.data[4:])
}

func (m *MysteryEvent) IsChecksumValid() bool {
	return m.StoredChecksum() == m.Checksum()
}

func (m *MysteryEvent) SetChecksum() {
	binary.LittleEndian.PutUint32(m.data, m.Checksum())
}

func (m *MysteryEvent) Magic() byte     { return m.data[4] }
func (m *MysteryEvent) MapGroup() byte  { return m.data[5] }
func (m *MysteryEvent) MapNumber() byte { return m.data[6] }
func (m *MysteryEvent) ObjectID() byte  { return m.data[7] }

// SetLocation updates the map and object fields. The checksum is left as is.
func (m *MysteryEvent) SetLocation(group, number, object byte) {
	m.data[5], m.data[6], m.data[7] = group, number, object
}

func (m *MysteryEvent) Bytes() []byte {
	return append([]byte(nil), m.data...)
}
