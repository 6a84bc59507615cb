// Package save opens whole save images and exposes their records and strings.
//
// Open detects the generation from the image size, builds the matching Format
// and returns a Save. Every Save owns a private copy of the image; edits are
// folded back, with checksums recomputed, by Bytes.
package save

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/cartsave/pkg/codec"
	"github.com/ssargent/cartsave/pkg/roster"
	"github.com/ssargent/cartsave/pkg/sector"
	"github.com/ssargent/cartsave/pkg/text"
)

var (
	ErrUnrecognizedFormat = errors.New("unrecognized save format")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrCorrupt            = errors.New("save has checksum failures")
)

// Region selects the character set and string widths.
type Region string

const (
	RegionAuto          Region = "auto"
	RegionInternational Region = "international"
	RegionJapanese      Region = "japanese"
)

// ParseRegion accepts the config spellings of a region. Empty means auto.
func ParseRegion(s string) (Region, error) {
	switch r := Region(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RegionAuto, nil
	case RegionAuto, RegionInternational, RegionJapanese:
		return r, nil
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown region %q", s)
}

// Options control how Open interprets an image.
type Options struct {
	Region Region
	// StrictSlots turns a flash image with no complete slot into a format
	// error.
	StrictSlots bool
	// RefuseCorrupt makes Open fail with ErrCorrupt when Validate reports
	// anything.
	RefuseCorrupt bool
}

// Failure is one checksum mismatch. Sector is -1 for images without sectors.
type Failure struct {
	Sector   int    `json:"sector"`
	Offset   int    `json:"offset"`
	Name     string `json:"name"`
	Stored   uint32 `json:"stored"`
	Computed uint32 `json:"computed"`
}

// Format is the per-generation capability set chosen when a save is opened.
type Format interface {
	Name() string
	Generation() int
	Japanese() bool
	Table() *text.Table
	RecordCodec() codec.Transformer
	// Checksum is the format's main integrity sum over data.
	Checksum(data []byte) uint32
	DecodeRoster(data []byte) (roster.Roster, error)
	EncodeRoster(r roster.Roster) ([]byte, error)
}

// Save is the common surface of an opened image.
type Save interface {
	Format() Format
	Size() int
	// ActiveSlot is always 0 for images without redundant slots.
	ActiveSlot() int
	Validate() []Failure
	PartyCount() int
	PartyCapacity() int
	// Record returns party slot i exactly as stored.
	Record(i int) ([]byte, error)
	SetRecord(i int, record []byte) error
	GetString(data []byte) string
	SetString(buf []byte, s string, maxLength int, fill text.FillPolicy) int
	// Bytes returns the image with all edits applied and checksums recomputed.
	Bytes() []byte
}

// Open detects the generation of data and opens it. data is copied.
func Open(data []byte, opts Options) (Save, error) {
	if opts.Region == "" {
		opts.Region = RegionAuto
	}

	var (
		s   Save
		err error
	)
	switch len(data) {
	case gen1RawSize, gen1BatterySize:
		s, err = OpenGen1(data, opts)
	case sector.Gen3Layout().FullSize, sector.Gen3Layout().HalfSize:
		s, err = OpenGen3(data, opts)
	default:
		return nil, errors.Wrapf(ErrUnrecognizedFormat, "no format is %d bytes", len(data))
	}
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"format": s.Format().Name(), "size": s.Size(), "active": s.ActiveSlot()})
	if opts.RefuseCorrupt {
		if failures := s.Validate(); len(failures) > 0 {
			log.WithField("failures", len(failures)).Warn("refusing corrupt save")
			return nil, errors.Wrapf(ErrCorrupt, "%d checksum failures", len(failures))
		}
	}
	log.Debug("opened save")

	return s, nil
}

func wrapFormat(err error) error {
	if errors.Is(err, sector.ErrUnrecognizedFormat) {
		return errors.Wrap(ErrUnrecognizedFormat, err.Error())
	}
	return err
}

func wrapArgument(err error) error {
	if errors.Is(err, roster.ErrInvalidArgument) || errors.Is(err, sector.ErrOutOfRange) {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}
	return err
}
