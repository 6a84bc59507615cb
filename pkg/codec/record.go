package codec

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/ssargent/cartsave/pkg/checksum"
)

// Layout of a GBA record.
const (
	StoredSize     = 80
	PartySize      = 100
	HeaderSize     = 32
	BlockSize      = 12
	BlockCount     = 4
	ChecksumOffset = 0x1C

	flagsOffset  = 0x13
	presenceMask = 0xFB // ignores the egg bit
	presenceFlag = 0x02
)

var (
	ErrInvalidLength    = errors.New("invalid record length")
	ErrChecksumMismatch = errors.New("record checksum mismatch")
)

// Transformer converts between stored and canonical record bytes.
type Transformer interface {
	Decrypt(record []byte) ([]byte, error)
	Encrypt(record []byte) ([]byte, error)
	IsPresent(record []byte) bool
}

// RecordCodec handles the GBA record transform.
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Decrypt returns the canonical form of a stored record: payload words XORed
// with the key and blocks put back in order 0-1-2-3.
func (c *RecordCodec) Decrypt(record []byte) ([]byte, error) {
	if err := checkLength(record); err != nil {
		return nil, err
	}

	pid := binary.LittleEndian.Uint32(record[0:])
	out := clone(record)
	xorPayload(out, seed(record))

	perm := Permutation(ShuffleIndex(pid))
	src := clone(out[HeaderSize : HeaderSize+BlockCount*BlockSize])
	for block := 0; block < BlockCount; block++ {
		from := int(perm[block]) * BlockSize
		copy(out[HeaderSize+block*BlockSize:], src[from:from+BlockSize])
	}

	return out, nil
}

// Encrypt returns the stored form of a canonical record. It is the exact
// inverse of Decrypt.
func (c *RecordCodec) Encrypt(record []byte) ([]byte, error) {
	if err := checkLength(record); err != nil {
		return nil, err
	}

	pid := binary.LittleEndian.Uint32(record[0:])
	out := clone(record)

	perm := Permutation(ShuffleIndex(pid))
	for block := 0; block < BlockCount; block++ {
		to := HeaderSize + int(perm[block])*BlockSize
		copy(out[to:to+BlockSize], record[HeaderSize+block*BlockSize:])
	}
	xorPayload(out, seed(record))

	return out, nil
}

// Checksum computes the payload checksum of a canonical record.
func (c *RecordCodec) Checksum(record []byte) (uint16, error) {
	if err := checkLength(record); err != nil {
		return 0, err
	}
	return payloadChecksum(record), nil
}

// SetChecksum recomputes the checksum of a canonical record and stores it in
// place.
func (c *RecordCodec) SetChecksum(record []byte) error {
	if err := checkLength(record); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(record[ChecksumOffset:], payloadChecksum(record))
	return nil
}

// IsPresent reports whether the flags byte marks the slot as occupied. It
// works on stored and canonical bytes alike since the header is never
// encrypted.
func (c *RecordCodec) IsPresent(record []byte) bool {
	if len(record) <= flagsOffset {
		return false
	}
	return record[flagsOffset]&presenceMask == presenceFlag
}

// DecryptIfEncrypted decrypts record unless its stored checksum already
// matches its payload. The second result reports whether decryption ran.
func (c *RecordCodec) DecryptIfEncrypted(record []byte) ([]byte, bool, error) {
	if err := checkLength(record); err != nil {
		return nil, false, err
	}
	if payloadChecksum(record) == binary.LittleEndian.Uint16(record[ChecksumOffset:]) {
		return clone(record), false, nil
	}

	out, err := c.Decrypt(record)
	return out, true, err
}

// Decode decrypts stored bytes into a Record.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	plain, err := c.Decrypt(data)
	if err != nil {
		return nil, err
	}
	return &Record{Data: plain}, nil
}

// Encode encrypts a Record back to stored bytes. The checksum is written as
// it currently is in r.
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	return c.Encrypt(r.Data)
}

// ShuffleIndex selects the block order row for a PID.
func ShuffleIndex(pid uint32) int {
	return int(pid % 24)
}

func seed(record []byte) uint32 {
	return binary.LittleEndian.Uint32(record[0:]) ^ binary.LittleEndian.Uint32(record[4:])
}

func xorPayload(record []byte, key uint32) {
	for i := HeaderSize; i < StoredSize; i += 4 {
		binary.LittleEndian.PutUint32(record[i:], binary.LittleEndian.Uint32(record[i:])^key)
	}
}

func payloadChecksum(record []byte) uint16 {
	return checksum.Words16(record[HeaderSize:StoredSize])
}

func checkLength(record []byte) error {
	if len(record) < StoredSize {
		return errors.Wrapf(ErrInvalidLength, "%d bytes, need at least %d", len(record), StoredSize)
	}
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
