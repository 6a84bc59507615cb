// Package sector reconstructs logical regions from a flash save image that is
// split across rotating physical sectors.
//
// A flash image holds one or two redundant slots of sectors. Each sector ends
// in a footer naming the logical sector it carries, a checksum over its used
// bytes and a save counter. Load picks the active slot, reassembles every
// logical sector into its region and keeps the regions in a single owned
// buffer until WriteBack folds them into a new image.
package sector

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/checksum"
)

var (
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	ErrUnknownRegion      = errors.New("unknown region")
	ErrOutOfRange         = errors.New("out of range")
)

// Region maps a run of logical sector ids onto one contiguous buffer.
type Region struct {
	Name    string
	FirstID int
	Sectors int
}

// ExtraSector is a fixed sector outside the redundant slots with its own
// checksum location.
type ExtraSector struct {
	Name           string
	Offset         int
	ChecksumOffset int
}

// Layout describes the physical shape of a flash image.
type Layout struct {
	SectorSize      int
	UsedSize        int
	SectorsPerSlot  int
	Slots           int
	IDOffset        int
	ChecksumOffset  int
	SignatureOffset int
	CounterOffset   int
	Regions         []Region
	Extras          []ExtraSector
	// FullSize images carry every slot and the extra sectors; HalfSize images
	// carry a single slot.
	FullSize int
	HalfSize int
	// Signature is written into the footer of every formatted sector.
	Signature uint32
}

// Region names used by Gen3Layout.
const (
	RegionSmall   = "small"
	RegionLarge   = "large"
	RegionStorage = "storage"
	ExtraFame1    = "halloffame1"
	ExtraFame2    = "halloffame2"
)

// Gen3Layout returns the GBA flash layout: two slots of 14 sectors of 4 KiB,
// 3968 used bytes each, plus two Hall of Fame sectors.
func Gen3Layout() Layout {
	return Layout{
		SectorSize:      0x1000,
		UsedSize:        0xF80,
		SectorsPerSlot:  14,
		Slots:           2,
		IDOffset:        0xFF4,
		ChecksumOffset:  0xFF6,
		SignatureOffset: 0xFF8,
		CounterOffset:   0xFFC,
		Regions: []Region{
			{Name: RegionSmall, FirstID: 0, Sectors: 1},
			{Name: RegionLarge, FirstID: 1, Sectors: 4},
			{Name: RegionStorage, FirstID: 5, Sectors: 9},
		},
		Extras: []ExtraSector{
			{Name: ExtraFame1, Offset: 0x1C000, ChecksumOffset: 0xFF4},
			{Name: ExtraFame2, Offset: 0x1D000, ChecksumOffset: 0xFF4},
		},
		FullSize:  0x20000,
		HalfSize:  0x10000,
		Signature: 0x08012025,
	}
}

// CompleteMask has one bit set per expected logical id.
func (l Layout) CompleteMask() uint32 {
	return uint32(1)<<uint(l.SectorsPerSlot) - 1
}

// RegionFor resolves a logical id to its region and position in the region.
func (l Layout) RegionFor(id int) (Region, int, bool) {
	for _, r := range l.Regions {
		if id >= r.FirstID && id < r.FirstID+r.Sectors {
			return r, id - r.FirstID, true
		}
	}
	return Region{}, 0, false
}

// SlotCount returns the number of slots an image of size holds.
func (l Layout) SlotCount(size int) (int, error) {
	switch size {
	case l.FullSize:
		return l.Slots, nil
	case l.HalfSize:
		return 1, nil
	}
	return 0, errors.Wrapf(ErrUnrecognizedFormat, "image size %#x", size)
}

func (l Layout) sectorOffset(slot, index int) int {
	return (slot*l.SectorsPerSlot + index) * l.SectorSize
}

// Footer is the trailer of one sector.
type Footer struct {
	ID        uint16
	Checksum  uint16
	Signature uint32
	Counter   uint16
}

// ReadFooter decodes the footer of a sector.
func (l Layout) ReadFooter(sector []byte) Footer {
	return Footer{
		ID:        binary.LittleEndian.Uint16(sector[l.IDOffset:]),
		Checksum:  binary.LittleEndian.Uint16(sector[l.ChecksumOffset:]),
		Signature: binary.LittleEndian.Uint32(sector[l.SignatureOffset:]),
		Counter:   binary.LittleEndian.Uint16(sector[l.CounterOffset:]),
	}
}

// Format builds an empty image with slot 0 complete, logical ids in order,
// counter 1 and valid checksums. The remaining slot is left erased.
func Format(l Layout, full bool) []byte {
	size := l.HalfSize
	if full {
		size = l.FullSize
	}
	image := make([]byte, size)
	for i := l.SectorsPerSlot * l.SectorSize; i < size; i++ {
		image[i] = 0xFF
	}

	for i := 0; i < l.SectorsPerSlot; i++ {
		sector := image[l.sectorOffset(0, i):l.sectorOffset(0, i+1)]
		binary.LittleEndian.PutUint16(sector[l.IDOffset:], uint16(i))
		binary.LittleEndian.PutUint32(sector[l.SignatureOffset:], l.Signature)
		binary.LittleEndian.PutUint16(sector[l.CounterOffset:], 1)
		binary.LittleEndian.PutUint16(sector[l.ChecksumOffset:], checksum.Sum32(sector[:l.UsedSize], 0))
	}
	if full {
		for _, e := range l.Extras {
			sector := image[e.Offset : e.Offset+l.SectorSize]
			clear(sector[:l.UsedSize])
			binary.LittleEndian.PutUint16(sector[e.ChecksumOffset:], checksum.Sum32(sector[:l.UsedSize], 0))
		}
	}
	return image
}
