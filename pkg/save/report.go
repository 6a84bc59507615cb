package save

import (
	"encoding/binary"

	"github.com/ssargent/cartsave/pkg/sector"
)

// Gen3 header fields read for reports.
const (
	gen3NicknameOffset = 0x08
	gen3NicknameLength = 10
	gen3OTNameOffset   = 0x14
	gen3OTNameLength   = 7
)

// Report is a read-only summary of an opened save.
type Report struct {
	Format     string            `json:"format"`
	Generation int               `json:"generation"`
	Region     Region            `json:"region"`
	Game       string            `json:"game,omitempty"`
	Size       int               `json:"size"`
	ActiveSlot int               `json:"active_slot"`
	Slots      []sector.SlotInfo `json:"slots,omitempty"`
	Failures   []Failure         `json:"failures"`
	Valid      bool              `json:"valid"`
	PartyCount int               `json:"party_count"`
	Party      []PartyEntry      `json:"party"`
	CurrentBox int               `json:"current_box"`
	BoxNames   []string          `json:"box_names,omitempty"`
}

// PartyEntry describes one party slot.
type PartyEntry struct {
	Index    int    `json:"index"`
	Present  bool   `json:"present"`
	Species  int    `json:"species,omitempty"`
	PID      uint32 `json:"pid,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	OTName   string `json:"ot_name,omitempty"`
	Egg      bool   `json:"egg,omitempty"`
	// RecordValid is the record checksum result where records carry one.
	RecordValid *bool `json:"record_valid,omitempty"`
}

// Inspect builds a report for s.
func Inspect(s Save) Report {
	f := s.Format()
	r := Report{
		Format:     f.Name(),
		Generation: f.Generation(),
		Region:     RegionInternational,
		Size:       s.Size(),
		ActiveSlot: s.ActiveSlot(),
		Failures:   s.Validate(),
		PartyCount: s.PartyCount(),
	}
	if f.Japanese() {
		r.Region = RegionJapanese
	}
	if r.Failures == nil {
		r.Failures = []Failure{}
	}
	r.Valid = len(r.Failures) == 0

	switch v := s.(type) {
	case *Gen1:
		r.Party = gen1Party(v)
		// Gen1 stores the current box number outside the lists handled here.
		r.CurrentBox = -1
	case *Gen3:
		r.Game = v.Game().String()
		r.Slots = v.Slots()
		r.Party = gen3Party(v)
		r.CurrentBox = v.CurrentBox()
		for b := 0; b < BoxCount; b++ {
			name, _ := v.BoxName(b)
			r.BoxNames = append(r.BoxNames, name)
		}
	}
	return r
}

func gen1Party(g *Gen1) []PartyEntry {
	party, err := g.Party()
	if err != nil {
		return nil
	}
	var entries []PartyEntry
	for i, e := range party.Read() {
		entry := PartyEntry{Index: i, Present: e.Present}
		if e.Present {
			entry.Species = int(e.Species)
			if e.IsEgg && len(e.Record) > 0 {
				entry.Species = int(e.Record[0])
			}
			entry.Nickname = e.Nickname
			entry.OTName = e.OTName
			entry.Egg = e.IsEgg
		}
		entries = append(entries, entry)
	}
	return entries
}

func gen3Party(g *Gen3) []PartyEntry {
	c := g.format.Codec()
	var entries []PartyEntry
	for i := 0; i < g.PartyCapacity(); i++ {
		entry := PartyEntry{Index: i}
		stored, err := g.Record(i)
		if err != nil {
			break
		}
		entry.Present = i < g.PartyCount() && c.IsPresent(stored)
		if entry.Present {
			rec, err := c.Decode(stored)
			if err == nil {
				valid := rec.Validate() == nil
				block, _ := rec.Block(0)
				entry.PID = rec.PID()
				entry.Species = int(binary.LittleEndian.Uint16(block))
				entry.Egg = stored[0x13]&0x04 != 0
				entry.Nickname = g.GetString(rec.Data[gen3NicknameOffset : gen3NicknameOffset+gen3NicknameLength])
				entry.OTName = g.GetString(rec.Data[gen3OTNameOffset : gen3OTNameOffset+gen3OTNameLength])
				entry.RecordValid = &valid
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
