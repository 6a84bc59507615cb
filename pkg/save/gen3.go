package save

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/cartsave/pkg/codec"
	"github.com/ssargent/cartsave/pkg/roster"
	"github.com/ssargent/cartsave/pkg/sector"
	"github.com/ssargent/cartsave/pkg/text"
)

// Game identifies the GBA title family, which decides the large-region
// offsets.
type Game int

const (
	GameRubySapphire Game = iota
	GameFireRedLeafGreen
	GameEmerald
)

func (g Game) String() string {
	switch g {
	case GameRubySapphire:
		return "Ruby/Sapphire"
	case GameFireRedLeafGreen:
		return "FireRed/LeafGreen"
	case GameEmerald:
		return "Emerald"
	}
	return fmt.Sprintf("Game(%d)", int(g))
}

// Code is a short lowercase identifier.
func (g Game) Code() string {
	switch g {
	case GameRubySapphire:
		return "rs"
	case GameFireRedLeafGreen:
		return "frlg"
	}
	return "e"
}

const (
	gameCodeOffset = 0xAC

	BoxCount    = 14
	BoxCapacity = 30
	// BoxNameSize is eight characters plus a terminator.
	BoxNameSize = 9

	boxDataOffset = 4
)

// DetectGame reads the game code from the small region.
func DetectGame(small []byte) Game {
	if len(small) < gameCodeOffset+4 {
		return GameEmerald
	}
	switch binary.LittleEndian.Uint32(small[gameCodeOffset:]) {
	case 0:
		return GameRubySapphire
	case 1:
		return GameFireRedLeafGreen
	}
	return GameEmerald
}

func partyCountOffset(g Game) int {
	if g == GameFireRedLeafGreen {
		return 0x34
	}
	return 0x234
}

// Gen3 is a GBA flash save.
type Gen3 struct {
	format *Gen3Format
	store  *sector.Store
}

// OpenGen3 loads a flash image. data is copied.
func OpenGen3(data []byte, opts Options) (*Gen3, error) {
	store, err := sector.Load(data, sector.Gen3Layout(), sector.Options{Strict: opts.StrictSlots})
	if err != nil {
		return nil, wrapFormat(err)
	}

	small, err := store.Regions().Region(sector.RegionSmall)
	if err != nil {
		return nil, err
	}

	switch opts.Region {
	case RegionAuto, "", RegionInternational, RegionJapanese:
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "region %q", opts.Region)
	}

	g := &Gen3{
		format: NewGen3Format(opts.Region == RegionJapanese, DetectGame(small)),
		store:  store,
	}
	if _, err := g.Party(); err != nil {
		return nil, errors.Wrap(ErrUnrecognizedFormat, err.Error())
	}
	return g, nil
}

func (g *Gen3) Format() Format { return g.format }

func (g *Gen3) Game() Game { return g.format.game }

func (g *Gen3) Size() int { return g.store.Size() }

func (g *Gen3) ActiveSlot() int { return g.store.ActiveSlot() }

func (g *Gen3) Slots() []sector.SlotInfo { return g.store.Slots() }

// Store exposes the underlying sector store.
func (g *Gen3) Store() *sector.Store { return g.store }

func (g *Gen3) Validate() []Failure {
	var failures []Failure
	for _, f := range g.store.Validate() {
		failures = append(failures, Failure{
			Sector:   f.Sector,
			Offset:   f.Offset,
			Name:     f.Name,
			Stored:   uint32(f.Stored),
			Computed: uint32(f.Computed),
		})
	}
	return failures
}

func (g *Gen3) partyOffset() int {
	return partyCountOffset(g.format.game)
}

// Party returns a copy of the party list.
func (g *Gen3) Party() (*roster.CountedList, error) {
	data, err := g.store.Regions().Read(sector.RegionLarge, g.partyOffset(),
		roster.CountedLength(roster.Gen3PartyCapacity, codec.PartySize))
	if err != nil {
		return nil, err
	}
	r, err := g.format.DecodeRoster(data)
	if err != nil {
		return nil, err
	}
	return r.(*roster.CountedList), nil
}

// SetParty writes a party list back into the large region.
func (g *Gen3) SetParty(list *roster.CountedList) error {
	data, err := g.format.EncodeRoster(list)
	if err != nil {
		return err
	}
	return g.store.Regions().Write(sector.RegionLarge, g.partyOffset(), data)
}

func (g *Gen3) PartyCount() int {
	party, err := g.Party()
	if err != nil {
		logrus.WithError(err).Warn("party list unreadable")
		return 0
	}
	return party.Count()
}

func (g *Gen3) PartyCapacity() int { return roster.Gen3PartyCapacity }

// Record returns the encrypted 100-byte party record in slot i.
func (g *Gen3) Record(i int) ([]byte, error) {
	party, err := g.Party()
	if err != nil {
		return nil, err
	}
	rec, err := party.Record(i)
	return rec, wrapArgument(err)
}

func (g *Gen3) SetRecord(i int, record []byte) error {
	party, err := g.Party()
	if err != nil {
		return err
	}
	if err := party.SetRecord(i, record); err != nil {
		return wrapArgument(err)
	}
	return g.SetParty(party)
}

// DecryptedRecord returns party slot i in canonical form.
func (g *Gen3) DecryptedRecord(i int) (*codec.Record, error) {
	rec, err := g.Record(i)
	if err != nil {
		return nil, err
	}
	return g.format.codec.Decode(rec)
}

// SetDecryptedRecord encrypts a canonical record into party slot i. The
// record's checksum is written as is.
func (g *Gen3) SetDecryptedRecord(i int, r *codec.Record) error {
	stored, err := g.format.codec.Encode(r)
	if err != nil {
		return err
	}
	return g.SetRecord(i, stored)
}

// CurrentBox is the box the PC opens on.
func (g *Gen3) CurrentBox() int {
	b, err := g.store.Regions().Read(sector.RegionStorage, 0, 1)
	if err != nil {
		return 0
	}
	return int(b[0])
}

func (g *Gen3) SetCurrentBox(box int) error {
	if err := checkBox(box); err != nil {
		return err
	}
	return g.store.Regions().Write(sector.RegionStorage, 0, []byte{byte(box)})
}

func boxRecordOffset(box, slot int) int {
	return boxDataOffset + (box*BoxCapacity+slot)*codec.StoredSize
}

func boxNameOffset(box int) int {
	return boxRecordOffset(BoxCount, 0) + box*BoxNameSize
}

func boxWallpaperOffset(box int) int {
	return boxNameOffset(BoxCount) + box
}

func checkBox(box int) error {
	if box < 0 || box >= BoxCount {
		return errors.Wrapf(ErrInvalidArgument, "box %d out of range", box)
	}
	return nil
}

func checkBoxSlot(box, slot int) error {
	if err := checkBox(box); err != nil {
		return err
	}
	if slot < 0 || slot >= BoxCapacity {
		return errors.Wrapf(ErrInvalidArgument, "slot %d out of range", slot)
	}
	return nil
}

// BoxRecord returns the encrypted 80-byte record in a PC box slot.
func (g *Gen3) BoxRecord(box, slot int) ([]byte, error) {
	if err := checkBoxSlot(box, slot); err != nil {
		return nil, err
	}
	return g.store.Regions().Read(sector.RegionStorage, boxRecordOffset(box, slot), codec.StoredSize)
}

func (g *Gen3) SetBoxRecord(box, slot int, record []byte) error {
	if err := checkBoxSlot(box, slot); err != nil {
		return err
	}
	if len(record) != codec.StoredSize {
		return errors.Wrapf(ErrInvalidArgument, "box record is %d bytes", len(record))
	}
	return g.store.Regions().Write(sector.RegionStorage, boxRecordOffset(box, slot), record)
}

func (g *Gen3) BoxName(box int) (string, error) {
	if err := checkBox(box); err != nil {
		return "", err
	}
	data, err := g.store.Regions().Read(sector.RegionStorage, boxNameOffset(box), BoxNameSize)
	if err != nil {
		return "", err
	}
	return g.GetString(data), nil
}

// SetBoxName stores up to eight characters, zero filled.
func (g *Gen3) SetBoxName(box int, name string) error {
	if err := checkBox(box); err != nil {
		return err
	}
	buf := make([]byte, BoxNameSize)
	g.SetString(buf, name, BoxNameSize-1, text.FillZero)
	return g.store.Regions().Write(sector.RegionStorage, boxNameOffset(box), buf)
}

func (g *Gen3) BoxWallpaper(box int) (byte, error) {
	if err := checkBox(box); err != nil {
		return 0, err
	}
	b, err := g.store.Regions().Read(sector.RegionStorage, boxWallpaperOffset(box), 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (g *Gen3) SetBoxWallpaper(box int, wallpaper byte) error {
	if err := checkBox(box); err != nil {
		return err
	}
	return g.store.Regions().Write(sector.RegionStorage, boxWallpaperOffset(box), []byte{wallpaper})
}

// HallOfFame returns the used bytes of both Hall of Fame sectors.
func (g *Gen3) HallOfFame() ([]byte, error) {
	if !g.store.HasExtras() {
		return nil, errors.Wrap(ErrInvalidArgument, "image has no hall of fame sectors")
	}
	first, err := g.store.Regions().Region(sector.ExtraFame1)
	if err != nil {
		return nil, err
	}
	second, err := g.store.Regions().Region(sector.ExtraFame2)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// SetHallOfFame replaces both sectors; data must be exactly twice the used
// sector size.
func (g *Gen3) SetHallOfFame(data []byte) error {
	if !g.store.HasExtras() {
		return errors.Wrap(ErrInvalidArgument, "image has no hall of fame sectors")
	}
	used := g.store.Layout().UsedSize
	if len(data) != 2*used {
		return errors.Wrapf(ErrInvalidArgument, "hall of fame is %d bytes, expected %d", len(data), 2*used)
	}
	if err := g.store.Regions().SetRegion(sector.ExtraFame1, data[:used]); err != nil {
		return err
	}
	return g.store.Regions().SetRegion(sector.ExtraFame2, data[used:])
}

func (g *Gen3) GetString(data []byte) string {
	return text.Decode(data, g.format.Table())
}

func (g *Gen3) SetString(buf []byte, s string, maxLength int, fill text.FillPolicy) int {
	return text.Encode(buf, s, maxLength, g.format.Table(), fill)
}

func (g *Gen3) Bytes() []byte {
	return g.store.WriteBack()
}

var _ Save = (*Gen3)(nil)
