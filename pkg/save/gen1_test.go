package save

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/checksum"
	"github.com/ssargent/cartsave/pkg/roster"
	"github.com/ssargent/cartsave/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gen1Image(t *testing.T, japanese bool, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	f := NewGen1Format(japanese)
	o := gen1International
	if japanese {
		o = gen1Japanese
	}

	party, err := roster.CreateEmpty(f.PartyParams())
	require.NoError(t, err)
	box, err := roster.CreateEmpty(f.BoxParams())
	require.NoError(t, err)
	copy(data[o.party:], party)
	copy(data[o.box:], box)
	data[o.checksum] = checksum.Gen1(data[gen1ChecksumStart:o.checksum])
	return data
}

func gen1Record(species byte) []byte {
	rec := bytes.Repeat([]byte{0x22}, roster.Gen1PartyRecordSize)
	rec[0] = species
	return rec
}

func TestOpenGen1_International(t *testing.T) {
	for _, size := range []int{gen1RawSize, gen1BatterySize} {
		data := gen1Image(t, false, size)

		s, err := Open(data, Options{})
		require.NoError(t, err)
		g, ok := s.(*Gen1)
		require.True(t, ok)

		assert.Equal(t, "gen1-international", g.Format().Name())
		assert.Equal(t, 1, g.Format().Generation())
		assert.Equal(t, size, g.Size())
		assert.Equal(t, 0, g.ActiveSlot())
		assert.Equal(t, 0, g.PartyCount())
		assert.Equal(t, 6, g.PartyCapacity())
		assert.Empty(t, g.Validate())
		assert.Equal(t, data, g.Bytes())
	}
}

func TestOpenGen1_Japanese(t *testing.T) {
	data := gen1Image(t, true, gen1RawSize)

	region, ok := DetectGen1Region(data)
	require.True(t, ok)
	assert.Equal(t, RegionJapanese, region)

	s, err := Open(data, Options{})
	require.NoError(t, err)
	assert.Equal(t, "gen1-japanese", s.Format().Name())
	assert.True(t, s.Format().Japanese())
	assert.Empty(t, s.Validate())

	box, err := s.(*Gen1).CurrentBox()
	require.NoError(t, err)
	assert.Equal(t, 30, box.Capacity())
}

func TestOpenGen1_RegionMismatch(t *testing.T) {
	data := gen1Image(t, false, gen1RawSize)
	_, err := Open(data, Options{Region: RegionJapanese})
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))
}

func TestOpenGen1_Unrecognized(t *testing.T) {
	_, err := Open(make([]byte, gen1RawSize), Options{})
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))

	_, err = Open(make([]byte, 1234), Options{})
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))
}

func TestGen1_PartyEditRoundTrip(t *testing.T) {
	s, err := OpenGen1(gen1Image(t, false, gen1RawSize), Options{})
	require.NoError(t, err)

	party, err := s.Party()
	require.NoError(t, err)
	require.NoError(t, party.Append(roster.Entry{Species: 0x54, Record: gen1Record(0x54), OTName: "ASH", Nickname: "PIKACHU"}))
	require.NoError(t, s.SetParty(party))

	// Edits are visible before Bytes, but the checksum is stale until then.
	assert.Equal(t, 1, s.PartyCount())
	assert.Len(t, s.Validate(), 1)

	out := s.Bytes()
	assert.Empty(t, s.Validate())

	reopened, err := Open(out, Options{RefuseCorrupt: true})
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.PartyCount())

	rec, err := reopened.Record(0)
	require.NoError(t, err)
	assert.Equal(t, gen1Record(0x54), rec)

	report := Inspect(reopened)
	require.Len(t, report.Party, 6)
	assert.True(t, report.Party[0].Present)
	assert.Equal(t, 0x54, report.Party[0].Species)
	assert.Equal(t, "PIKACHU", report.Party[0].Nickname)
	assert.Equal(t, "ASH", report.Party[0].OTName)
	assert.False(t, report.Party[1].Present)
	assert.True(t, report.Valid)
}

func TestGen1_SetRecord(t *testing.T) {
	s, err := OpenGen1(gen1Image(t, false, gen1RawSize), Options{})
	require.NoError(t, err)

	require.NoError(t, s.SetRecord(2, gen1Record(9)))
	rec, err := s.Record(2)
	require.NoError(t, err)
	assert.Equal(t, gen1Record(9), rec)

	err = s.SetRecord(6, gen1Record(9))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = s.Record(-1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = s.SetRecord(0, make([]byte, 10))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGen1_ChecksumFailure(t *testing.T) {
	data := gen1Image(t, false, gen1RawSize)
	data[0x2600] ^= 0xFF

	s, err := Open(data, Options{})
	require.NoError(t, err)
	failures := s.Validate()
	require.Len(t, failures, 1)
	assert.Equal(t, -1, failures[0].Sector)
	assert.Equal(t, 0x3523, failures[0].Offset)

	_, err = Open(data, Options{RefuseCorrupt: true})
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestGen1_SetParty_WrongShape(t *testing.T) {
	s, err := OpenGen1(gen1Image(t, false, gen1RawSize), Options{})
	require.NoError(t, err)

	box, err := roster.New(roster.Gen1Params(20, false))
	require.NoError(t, err)
	assert.True(t, errors.Is(s.SetParty(box), ErrInvalidArgument))
}

func TestGen1_Strings(t *testing.T) {
	s, err := OpenGen1(gen1Image(t, false, gen1RawSize), Options{})
	require.NoError(t, err)

	buf := make([]byte, 11)
	n := s.SetString(buf, "BROCK", 10, text.Fill50)
	assert.Equal(t, 6, n)
	assert.Equal(t, "BROCK", s.GetString(buf))
}

func TestGen1Format_Roster(t *testing.T) {
	f := NewGen1Format(false)
	data, err := roster.CreateEmpty(f.PartyParams())
	require.NoError(t, err)

	r, err := f.DecodeRoster(data)
	require.NoError(t, err)
	out, err := f.EncodeRoster(r)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	counted, err := roster.ParseCounted(make([]byte, roster.CountedLength(6, 44)), 6, 44)
	require.NoError(t, err)
	_, err = f.EncodeRoster(counted)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
