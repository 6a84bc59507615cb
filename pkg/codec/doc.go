// Package codec provides the at-rest transform for entity records stored in
// handheld save images.
//
// The codec package implements the GBA (third generation) record format:
// a plain header followed by an XOR-encrypted, block-shuffled payload that is
// protected by a 16-bit checksum. Game Boy records are stored in the clear and
// are served by Plain, which satisfies the same Transformer interface.
//
// # Record Format
//
// Stored records are 80 bytes; party records are 100 bytes, the trailing 20
// bytes holding battle stats that are never transformed:
//
//	[PID(4)][OTID(4)][Header(20)][Checksum(2)][Header(2)][Block0..Block3(4x12)][Party(20)]
//
// Fields:
//   - PID: 32-bit identity value (little-endian)
//   - OTID: 32-bit owner value (little-endian)
//   - Checksum: 16-bit sum of the decrypted payload at offset 0x1C
//   - Blocks: 48 bytes of payload starting at offset 0x20, in four 12-byte blocks
//
// # Encryption
//
// The key is PID xor OTID. Every little-endian 32-bit word of the payload is
// XORed with the key. The blocks are additionally stored in one of 24 orders,
// selected by PID mod 24:
//
//	codec := codec.NewRecordCodec()
//
//	// Stored bytes to canonical bytes
//	plain, err := codec.Decrypt(stored)
//	if err != nil {
//	    return err
//	}
//
//	// Canonical bytes back to stored bytes
//	stored, err = codec.Encrypt(plain)
//
// Decrypt and Encrypt are exact inverses for every record and every block
// order. Neither touches the checksum.
//
// # Checksums
//
// The checksum is the 16-bit wrapping sum of the little-endian words of the
// canonical payload. It is only written by an explicit SetChecksum call:
//
//	if err := codec.SetChecksum(plain); err != nil {
//	    return err
//	}
//
// Record.Validate compares the stored value with a fresh computation and
// returns ErrChecksumMismatch when they differ.
//
// # Presence
//
// IsPresent is a cheap test on a flags byte at 0x13 that works on encrypted
// bytes. It lets callers skip empty slots without decrypting; it is not a
// substitute for checksum validation.
//
// # Thread Safety
//
// RecordCodec holds no state. Every method returns a new buffer except
// SetChecksum, which updates the buffer it is given.
package codec
