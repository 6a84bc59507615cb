package save

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/ssargent/cartsave/pkg/codec"
	"github.com/ssargent/cartsave/pkg/roster"
	"github.com/ssargent/cartsave/pkg/sector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gen3Image(full bool) []byte {
	return sector.Format(sector.Gen3Layout(), full)
}

// partyRecord builds a present, checksummed canonical party record.
func partyRecord(t *testing.T, pid, otid uint32, species uint16) *codec.Record {
	t.Helper()
	rec := &codec.Record{Data: make([]byte, codec.PartySize)}
	binary.LittleEndian.PutUint32(rec.Data[0:], pid)
	binary.LittleEndian.PutUint32(rec.Data[4:], otid)
	copy(rec.Data[0x08:], []byte{0xC7, 0xCF, 0xBE, 0xC5, 0xC3, 0xCA, 0xFF}) // MUDKIP
	copy(rec.Data[0x14:], []byte{0xCC, 0xBF, 0xBE, 0xFF})                   // RED
	rec.Data[0x13] = 0x02
	binary.LittleEndian.PutUint16(rec.Data[codec.HeaderSize:], species)
	for i := codec.HeaderSize + 2; i < codec.StoredSize; i++ {
		rec.Data[i] = byte(i)
	}
	require.NoError(t, rec.SetChecksum())
	return rec
}

func TestGen3_PartyCountLogsUnreadableParty(t *testing.T) {
	s, err := Open(gen3Image(true), Options{})
	require.NoError(t, err)
	g := s.(*Gen3)

	// A count above capacity makes the list unparsable.
	require.NoError(t, g.Store().Regions().Write(sector.RegionLarge, g.partyOffset(), []byte{7, 0, 0, 0}))
	_, err = g.Party()
	require.Error(t, err)

	hook := logtest.NewGlobal()
	defer hook.Reset()
	assert.Equal(t, 0, g.PartyCount())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "party list unreadable", hook.LastEntry().Message)
	assert.Error(t, hook.LastEntry().Data[logrus.ErrorKey].(error))
}

func TestOpenGen3_Blank(t *testing.T) {
	s, err := Open(gen3Image(true), Options{})
	require.NoError(t, err)
	g, ok := s.(*Gen3)
	require.True(t, ok)

	assert.Equal(t, 3, g.Format().Generation())
	assert.Equal(t, GameRubySapphire, g.Game())
	assert.Equal(t, "gen3-rs-international", g.Format().Name())
	assert.Equal(t, 0, g.ActiveSlot())
	assert.Equal(t, 0, g.PartyCount())
	assert.Empty(t, g.Validate())
	assert.Len(t, g.Slots(), 2)
}

func TestGen3_PartyRecordRoundTrip(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{})
	require.NoError(t, err)

	want := partyRecord(t, 0xA1B2C3D4, 0x0000BEEF, 258)
	require.NoError(t, g.SetDecryptedRecord(0, want))
	party, err := g.Party()
	require.NoError(t, err)
	require.NoError(t, party.SetCount(1))
	require.NoError(t, g.SetParty(party))

	stored, err := g.Record(0)
	require.NoError(t, err)
	assert.NotEqual(t, want.Data, stored, "records are stored encrypted")

	reopened, err := Open(g.Bytes(), Options{RefuseCorrupt: true})
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.PartyCount())

	got, err := reopened.(*Gen3).DecryptedRecord(0)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	assert.Equal(t, want.Data, got.Data)

	report := Inspect(reopened)
	require.Len(t, report.Party, 6)
	entry := report.Party[0]
	assert.True(t, entry.Present)
	assert.Equal(t, uint32(0xA1B2C3D4), entry.PID)
	assert.Equal(t, 258, entry.Species)
	assert.Equal(t, "MUDKIP", entry.Nickname)
	assert.Equal(t, "RED", entry.OTName)
	require.NotNil(t, entry.RecordValid)
	assert.True(t, *entry.RecordValid)
	assert.False(t, report.Party[1].Present)
}

func TestGen3_RecordArguments(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{})
	require.NoError(t, err)

	_, err = g.Record(6)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, errors.Is(g.SetRecord(0, make([]byte, codec.StoredSize)), ErrInvalidArgument))

	_, err = g.BoxRecord(14, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = g.BoxRecord(0, 30)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, errors.Is(g.SetBoxRecord(0, 0, make([]byte, 100)), ErrInvalidArgument))
	_, err = g.BoxName(-1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGen3_FireRedLeafGreenPartyOffset(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{})
	require.NoError(t, err)
	require.NoError(t, g.Store().Regions().Write(sector.RegionSmall, 0xAC, []byte{1, 0, 0, 0}))
	require.NoError(t, g.Store().Regions().Write(sector.RegionLarge, 0x34, []byte{2, 0, 0, 0}))

	frlg, err := OpenGen3(g.Bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, GameFireRedLeafGreen, frlg.Game())
	assert.Equal(t, 2, frlg.PartyCount())
	assert.Equal(t, "gen3-frlg-international", frlg.Format().Name())
}

func TestDetectGame(t *testing.T) {
	small := make([]byte, 0xF80)
	assert.Equal(t, GameRubySapphire, DetectGame(small))
	small[0xAC] = 1
	assert.Equal(t, GameFireRedLeafGreen, DetectGame(small))
	binary.LittleEndian.PutUint32(small[0xAC:], 0x5A3C9E11)
	assert.Equal(t, GameEmerald, DetectGame(small))
	assert.Equal(t, "Emerald", GameEmerald.String())
}

func TestGen3_Boxes(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{})
	require.NoError(t, err)

	require.NoError(t, g.SetBoxName(3, "FAVES"))
	require.NoError(t, g.SetBoxName(13, "TOOLONGNAME"))
	require.NoError(t, g.SetCurrentBox(3))
	require.NoError(t, g.SetBoxWallpaper(13, 7))

	rec := bytes.Repeat([]byte{0x5C}, codec.StoredSize)
	require.NoError(t, g.SetBoxRecord(13, 29, rec))

	reopened, err := OpenGen3(g.Bytes(), Options{RefuseCorrupt: true})
	require.NoError(t, err)

	name, err := reopened.BoxName(3)
	require.NoError(t, err)
	assert.Equal(t, "FAVES", name)
	name, err = reopened.BoxName(13)
	require.NoError(t, err)
	assert.Equal(t, "TOOLONGN", name, "eight characters")

	assert.Equal(t, 3, reopened.CurrentBox())
	wp, err := reopened.BoxWallpaper(13)
	require.NoError(t, err)
	assert.Equal(t, byte(7), wp)

	got, err := reopened.BoxRecord(13, 29)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Layout sanity: last record, names and wallpapers fit in storage.
	n, err := reopened.Store().Regions().Len(sector.RegionStorage)
	require.NoError(t, err)
	assert.LessOrEqual(t, boxWallpaperOffset(BoxCount), n)

	report := Inspect(reopened)
	assert.Equal(t, 3, report.CurrentBox)
	require.Len(t, report.BoxNames, BoxCount)
	assert.Equal(t, "FAVES", report.BoxNames[3])
}

func TestGen3_JapaneseBoxName(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{Region: RegionJapanese})
	require.NoError(t, err)
	assert.True(t, g.Format().Japanese())

	require.NoError(t, g.SetBoxName(0, "ボックス"))
	name, err := g.BoxName(0)
	require.NoError(t, err)
	assert.Equal(t, "ボックス", name)
}

func TestGen3_HallOfFame(t *testing.T) {
	g, err := OpenGen3(gen3Image(true), Options{})
	require.NoError(t, err)

	fame := make([]byte, 2*0xF80)
	for i := range fame {
		fame[i] = byte(i % 251)
	}
	require.NoError(t, g.SetHallOfFame(fame))
	assert.True(t, errors.Is(g.SetHallOfFame(fame[:10]), ErrInvalidArgument))

	reopened, err := OpenGen3(g.Bytes(), Options{RefuseCorrupt: true})
	require.NoError(t, err)
	got, err := reopened.HallOfFame()
	require.NoError(t, err)
	assert.Equal(t, fame, got)

	half, err := OpenGen3(gen3Image(false), Options{})
	require.NoError(t, err)
	_, err = half.HallOfFame()
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGen3_StrictSlots(t *testing.T) {
	l := sector.Gen3Layout()
	image := gen3Image(true)
	// Slot 0 loses logical id 13; slot 1 is erased.
	binary.LittleEndian.PutUint16(image[13*l.SectorSize+l.IDOffset:], 0)

	_, err := Open(image, Options{StrictSlots: true})
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))

	s, err := Open(image, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.ActiveSlot())
}

func TestGen3_CorruptSector(t *testing.T) {
	l := sector.Gen3Layout()
	image := gen3Image(true)
	image[5*l.SectorSize+3] = 0x99

	_, err := Open(image, Options{RefuseCorrupt: true})
	assert.True(t, errors.Is(err, ErrCorrupt))

	s, err := Open(image, Options{})
	require.NoError(t, err)
	report := Inspect(s)
	assert.False(t, report.Valid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 5, report.Failures[0].Sector)
	assert.Equal(t, sector.RegionStorage, report.Failures[0].Name)

	// Writing back repairs the checksum.
	repaired, err := Open(s.Bytes(), Options{RefuseCorrupt: true})
	require.NoError(t, err)
	assert.Empty(t, repaired.Validate())
}

func TestGen3Format_Roster(t *testing.T) {
	f := NewGen3Format(false, GameEmerald)
	data := make([]byte, roster.CountedLength(6, codec.PartySize))
	data[0] = 3

	r, err := f.DecodeRoster(data)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Count())
	out, err := f.EncodeRoster(r)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	assert.Equal(t, uint32(0), f.Checksum(make([]byte, 16)))
	assert.NotNil(t, f.RecordCodec())
}

func TestParseRegion(t *testing.T) {
	for in, want := range map[string]Region{"": RegionAuto, "AUTO": RegionAuto, " japanese ": RegionJapanese, "international": RegionInternational} {
		got, err := ParseRegion(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRegion("europe")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
