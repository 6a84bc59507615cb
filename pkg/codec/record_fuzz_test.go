//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzRecordCodec_RoundTrip checks that Encrypt and Decrypt are inverses for
// arbitrary record bytes.
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	f.Add(make([]byte, StoredSize))
	f.Add(bytes.Repeat([]byte{0xFF}, StoredSize))
	f.Add(bytes.Repeat([]byte{0x5A, 0x01}, PartySize/2))

	f.Fuzz(func(t *testing.T, rec []byte) {
		if len(rec) < StoredSize || len(rec) > PartySize {
			t.Skip("not a record")
		}

		stored, err := codec.Encrypt(rec)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		back, err := codec.Decrypt(stored)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if !bytes.Equal(rec, back) {
			t.Fatalf("round trip mismatch for %x", rec)
		}
	})
}
