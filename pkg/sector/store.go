package sector

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/cartsave/pkg/checksum"
)

// SlotInfo summarizes one redundant slot.
type SlotInfo struct {
	Index    int    `json:"index"`
	Mask     uint32 `json:"mask"`
	Complete bool   `json:"complete"`
	// Counter is read from the sector carrying logical id 0.
	Counter uint16 `json:"counter"`
}

// Failure is a sector whose stored checksum does not match its content.
type Failure struct {
	Sector   int    `json:"sector"`
	Offset   int    `json:"offset"`
	Name     string `json:"name"`
	Stored   uint16 `json:"stored"`
	Computed uint16 `json:"computed"`
}

// Options tune Load.
type Options struct {
	// Strict makes an image with no complete slot a format error instead of
	// falling back to slot 0.
	Strict bool
}

// Scan reads the footers of every slot in image.
func Scan(image []byte, l Layout) ([]SlotInfo, error) {
	slots, err := l.SlotCount(len(image))
	if err != nil {
		return nil, err
	}

	infos := make([]SlotInfo, slots)
	for slot := range infos {
		info := SlotInfo{Index: slot}
		for i := 0; i < l.SectorsPerSlot; i++ {
			off := l.sectorOffset(slot, i)
			footer := l.ReadFooter(image[off : off+l.SectorSize])
			if int(footer.ID) >= l.SectorsPerSlot {
				continue
			}
			info.Mask |= 1 << footer.ID
			if footer.ID == 0 {
				info.Counter = footer.Counter
			}
		}
		info.Complete = info.Mask == l.CompleteMask()
		infos[slot] = info
	}
	return infos, nil
}

// SelectActiveSlot picks the slot to load. A lone complete slot wins; between
// two complete slots the higher counter wins and a tie keeps the lower index.
// The second result is false when no slot is complete, in which case slot 0 is
// returned.
func SelectActiveSlot(slots []SlotInfo) (int, bool) {
	active, found := 0, false
	for _, s := range slots {
		if !s.Complete {
			continue
		}
		if !found || s.Counter > slots[active].Counter {
			active, found = s.Index, true
		}
	}
	return active, found
}

// Store owns a copy of the physical image and the regions rebuilt from it.
type Store struct {
	layout  Layout
	image   []byte
	slots   []SlotInfo
	active  int
	regions *Regions
}

// Load copies image, selects the active slot and reassembles its regions.
func Load(image []byte, l Layout, opts Options) (*Store, error) {
	slots, err := Scan(image, l)
	if err != nil {
		return nil, err
	}

	active, complete := SelectActiveSlot(slots)
	log := logrus.WithFields(logrus.Fields{"active": active, "size": len(image)})
	if !complete {
		if opts.Strict {
			return nil, errors.Wrap(ErrUnrecognizedFormat, "no complete save slot")
		}
		log.Warn("no complete save slot, falling back to slot 0")
	}
	for _, s := range slots {
		log = log.WithField(fmt.Sprintf("slot%d", s.Index), fmt.Sprintf("mask=%#04x counter=%d", s.Mask, s.Counter))
	}
	log.Debug("selected active slot")

	s := &Store{
		layout:  l,
		image:   append([]byte(nil), image...),
		slots:   slots,
		active:  active,
		regions: newRegions(),
	}
	for _, r := range l.Regions {
		s.regions.add(r.Name, r.Sectors*l.UsedSize)
	}
	if len(image) == l.FullSize {
		for _, e := range l.Extras {
			s.regions.add(e.Name, l.UsedSize)
		}
	}

	for i := 0; i < l.SectorsPerSlot; i++ {
		off := l.sectorOffset(active, i)
		sector := s.image[off : off+l.SectorSize]
		id := int(l.ReadFooter(sector).ID)
		region, pos, ok := l.RegionFor(id)
		if !ok {
			return nil, errors.Wrapf(ErrUnrecognizedFormat, "sector %d has logical id %d", off/l.SectorSize, id)
		}
		if err := s.regions.Write(region.Name, pos*l.UsedSize, sector[:l.UsedSize]); err != nil {
			return nil, err
		}
	}
	if s.HasExtras() {
		for _, e := range l.Extras {
			if err := s.regions.Write(e.Name, 0, s.image[e.Offset:e.Offset+l.UsedSize]); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (s *Store) Layout() Layout { return s.layout }

func (s *Store) ActiveSlot() int { return s.active }

// Slots returns the scan result for every slot.
func (s *Store) Slots() []SlotInfo {
	out := make([]SlotInfo, len(s.slots))
	copy(out, s.slots)
	return out
}

func (s *Store) Size() int { return len(s.image) }

// HasExtras reports whether the image is large enough to carry the extra
// sectors.
func (s *Store) HasExtras() bool {
	return len(s.image) == s.layout.FullSize && len(s.layout.Extras) > 0
}

// Regions exposes the reassembled regions for reading and editing.
func (s *Store) Regions() *Regions { return s.regions }

// Validate recomputes the checksum of every sector in the active slot and of
// the extra sectors. Indexes are physical sector numbers.
func (s *Store) Validate() []Failure {
	l := s.layout
	var failures []Failure

	for i := 0; i < l.SectorsPerSlot; i++ {
		off := l.sectorOffset(s.active, i)
		sector := s.image[off : off+l.SectorSize]
		stored := binary.LittleEndian.Uint16(sector[l.ChecksumOffset:])
		computed := checksum.Sum32(sector[:l.UsedSize], 0)
		if stored != computed {
			name := "unknown"
			if r, _, ok := l.RegionFor(int(l.ReadFooter(sector).ID)); ok {
				name = r.Name
			}
			failures = append(failures, Failure{Sector: off / l.SectorSize, Offset: off, Name: name, Stored: stored, Computed: computed})
		}
	}

	if s.HasExtras() {
		for _, e := range l.Extras {
			sector := s.image[e.Offset : e.Offset+l.SectorSize]
			stored := binary.LittleEndian.Uint16(sector[e.ChecksumOffset:])
			computed := checksum.Sum32(sector[:l.UsedSize], 0)
			if stored != computed {
				failures = append(failures, Failure{Sector: e.Offset / l.SectorSize, Offset: e.Offset, Name: e.Name, Stored: stored, Computed: computed})
			}
		}
	}

	for _, f := range failures {
		logrus.WithFields(logrus.Fields{
			"sector":   f.Sector,
			"region":   f.Name,
			"stored":   f.Stored,
			"computed": f.Computed,
		}).Warn("sector checksum mismatch")
	}
	return failures
}

// WriteBack copies the regions into the active slot and the extra sectors,
// recomputes every checksum and returns a new image. Ids, counters and
// signatures are kept as loaded. The store's image is updated as well, so a
// following Validate reports no failures.
func (s *Store) WriteBack() []byte {
	l := s.layout

	for i := 0; i < l.SectorsPerSlot; i++ {
		off := l.sectorOffset(s.active, i)
		sector := s.image[off : off+l.SectorSize]
		if region, pos, ok := l.RegionFor(int(l.ReadFooter(sector).ID)); ok {
			data, _ := s.regions.Read(region.Name, pos*l.UsedSize, l.UsedSize)
			copy(sector, data)
		}
		binary.LittleEndian.PutUint16(sector[l.ChecksumOffset:], checksum.Sum32(sector[:l.UsedSize], 0))
	}

	if s.HasExtras() {
		for _, e := range l.Extras {
			sector := s.image[e.Offset : e.Offset+l.SectorSize]
			data, _ := s.regions.Region(e.Name)
			copy(sector, data)
			binary.LittleEndian.PutUint16(sector[e.ChecksumOffset:], checksum.Sum32(sector[:l.UsedSize], 0))
		}
	}

	return append([]byte(nil), s.image...)
}

// Image returns a copy of the image as last loaded or written back.
func (s *Store) Image() []byte {
	return append([]byte(nil), s.image...)
}
