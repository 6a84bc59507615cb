package save

import (
	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/roster"
	"github.com/ssargent/cartsave/pkg/text"
)

const (
	gen1RawSize     = 0x8000
	gen1BatterySize = 0x802C

	gen1ChecksumStart = 0x2598
)

type gen1Offsets struct {
	party    int
	box      int
	checksum int
}

var (
	gen1International = gen1Offsets{party: 0x2F2C, box: 0x30C0, checksum: 0x3523}
	gen1Japanese      = gen1Offsets{party: 0x2ED5, box: 0x302D, checksum: 0x3594}
)

// Gen1 is a Game Boy save. Lists are read from and written to the image by
// offset on every call.
type Gen1 struct {
	format  *Gen1Format
	offsets gen1Offsets
	data    []byte
}

// DetectGen1Region reports which regional list layout data carries. Both
// lists must pass the box-sized validity check.
func DetectGen1Region(data []byte) (Region, bool) {
	if len(data) != gen1RawSize && len(data) != gen1BatterySize {
		return "", false
	}
	if gen1ListsValid(data, gen1International, roster.Gen1BoxCapacity) {
		return RegionInternational, true
	}
	if gen1ListsValid(data, gen1Japanese, roster.Gen1JPBoxCapacity) {
		return RegionJapanese, true
	}
	return "", false
}

func gen1ListsValid(data []byte, o gen1Offsets, capacity int) bool {
	return roster.Valid(data, o.party, capacity) && roster.Valid(data, o.box, capacity)
}

// OpenGen1 opens a Game Boy image. data is copied.
func OpenGen1(data []byte, opts Options) (*Gen1, error) {
	if len(data) != gen1RawSize && len(data) != gen1BatterySize {
		return nil, errors.Wrapf(ErrUnrecognizedFormat, "gen1 image is %d bytes", len(data))
	}

	region := opts.Region
	switch region {
	case RegionAuto, "":
		detected, ok := DetectGen1Region(data)
		if !ok {
			return nil, errors.Wrap(ErrUnrecognizedFormat, "no valid gen1 lists")
		}
		region = detected
	case RegionInternational:
		if !gen1ListsValid(data, gen1International, roster.Gen1BoxCapacity) {
			return nil, errors.Wrap(ErrUnrecognizedFormat, "international lists are invalid")
		}
	case RegionJapanese:
		if !gen1ListsValid(data, gen1Japanese, roster.Gen1JPBoxCapacity) {
			return nil, errors.Wrap(ErrUnrecognizedFormat, "japanese lists are invalid")
		}
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "region %q", region)
	}

	g := &Gen1{
		format:  NewGen1Format(region == RegionJapanese),
		offsets: gen1International,
		data:    append([]byte(nil), data...),
	}
	if region == RegionJapanese {
		g.offsets = gen1Japanese
	}

	if _, err := g.Party(); err != nil {
		return nil, errors.Wrap(ErrUnrecognizedFormat, err.Error())
	}
	if _, err := g.CurrentBox(); err != nil {
		return nil, errors.Wrap(ErrUnrecognizedFormat, err.Error())
	}
	return g, nil
}

func (g *Gen1) Format() Format { return g.format }

func (g *Gen1) Size() int { return len(g.data) }

func (g *Gen1) ActiveSlot() int { return 0 }

// Party parses a copy of the party list.
func (g *Gen1) Party() (*roster.List, error) {
	return g.list(g.offsets.party, g.format.PartyParams())
}

// SetParty writes a party list back into the image.
func (g *Gen1) SetParty(list *roster.List) error {
	return g.setList(g.offsets.party, g.format.PartyParams(), list)
}

// CurrentBox parses a copy of the current box list.
func (g *Gen1) CurrentBox() (*roster.List, error) {
	return g.list(g.offsets.box, g.format.BoxParams())
}

func (g *Gen1) SetCurrentBox(list *roster.List) error {
	return g.setList(g.offsets.box, g.format.BoxParams(), list)
}

func (g *Gen1) list(offset int, p roster.Params) (*roster.List, error) {
	return roster.Parse(g.data[offset:offset+roster.DataLength(p)], p)
}

func (g *Gen1) setList(offset int, p roster.Params, list *roster.List) error {
	if list.Params().Capacity != p.Capacity || list.Params().RecordSize != p.RecordSize ||
		list.Params().StringLength != p.StringLength {
		return errors.Wrap(ErrInvalidArgument, "list shape does not match this save")
	}
	copy(g.data[offset:offset+roster.DataLength(p)], list.Bytes())
	return nil
}

func (g *Gen1) PartyCount() int {
	return int(g.data[g.offsets.party])
}

func (g *Gen1) PartyCapacity() int { return roster.Gen1PartySize }

func (g *Gen1) Record(i int) ([]byte, error) {
	party, err := g.Party()
	if err != nil {
		return nil, err
	}
	rec, err := party.Record(i)
	return rec, wrapArgument(err)
}

func (g *Gen1) SetRecord(i int, record []byte) error {
	party, err := g.Party()
	if err != nil {
		return err
	}
	if err := party.SetRecord(i, record); err != nil {
		return wrapArgument(err)
	}
	return g.SetParty(party)
}

func (g *Gen1) GetString(data []byte) string {
	return text.Decode(data, g.format.Table())
}

func (g *Gen1) SetString(buf []byte, s string, maxLength int, fill text.FillPolicy) int {
	return text.Encode(buf, s, maxLength, g.format.Table(), fill)
}

func (g *Gen1) storedChecksum() uint8 {
	return g.data[g.offsets.checksum]
}

func (g *Gen1) computeChecksum() uint8 {
	return uint8(g.format.Checksum(g.data[gen1ChecksumStart:g.offsets.checksum]))
}

// Validate checks the main data checksum.
func (g *Gen1) Validate() []Failure {
	stored, computed := g.storedChecksum(), g.computeChecksum()
	if stored == computed {
		return nil
	}
	return []Failure{{
		Sector:   -1,
		Offset:   g.offsets.checksum,
		Name:     "main",
		Stored:   uint32(stored),
		Computed: uint32(computed),
	}}
}

func (g *Gen1) Bytes() []byte {
	g.data[g.offsets.checksum] = g.computeChecksum()
	return append([]byte(nil), g.data...)
}

var _ Save = (*Gen1)(nil)
