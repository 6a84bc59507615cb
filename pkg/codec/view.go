package codec

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Record is a read/write view over a canonical (decrypted) GBA record.
type Record struct {
	Data []byte
}

// PID returns the identity value.
func (r *Record) PID() uint32 {
	return binary.LittleEndian.Uint32(r.Data[0:])
}

// OTID returns the owner value.
func (r *Record) OTID() uint32 {
	return binary.LittleEndian.Uint32(r.Data[4:])
}

// Seed returns the encryption key, PID xor OTID.
func (r *Record) Seed() uint32 {
	return r.PID() ^ r.OTID()
}

func (r *Record) ShuffleIndex() int {
	return ShuffleIndex(r.PID())
}

func (r *Record) StoredChecksum() uint16 {
	return binary.LittleEndian.Uint16(r.Data[ChecksumOffset:])
}

// Block returns canonical block i as a subslice of Data.
func (r *Record) Block(i int) ([]byte, error) {
	if i < 0 || i >= BlockCount {
		return nil, errors.Errorf("block %d out of range", i)
	}
	start := HeaderSize + i*BlockSize
	return r.Data[start : start+BlockSize : start+BlockSize], nil
}

// IsPartyRecord reports whether the trailing battle stats are present.
func (r *Record) IsPartyRecord() bool {
	return len(r.Data) >= PartySize
}

// Validate checks length and recomputes the payload checksum.
func (r *Record) Validate() error {
	if err := checkLength(r.Data); err != nil {
		return err
	}

	expected := payloadChecksum(r.Data)
	if stored := r.StoredChecksum(); stored != expected {
		return errors.Wrapf(ErrChecksumMismatch, "expected %#04x, got %#04x", expected, stored)
	}

	return nil
}

// SetChecksum recomputes and stores the payload checksum.
func (r *Record) SetChecksum() error {
	if err := checkLength(r.Data); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(r.Data[ChecksumOffset:], payloadChecksum(r.Data))
	return nil
}
