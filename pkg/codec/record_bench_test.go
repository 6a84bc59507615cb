//go:build bench
// +build bench

package codec

import (
	"encoding/binary"
	"testing"
)

func benchRecord(size int) []byte {
	rec := make([]byte, size)
	binary.LittleEndian.PutUint32(rec[0:], 0x6F2D91A3)
	binary.LittleEndian.PutUint32(rec[4:], 0x0001E240)
	for i := HeaderSize; i < StoredSize; i++ {
		rec[i] = byte(i * 7)
	}
	return rec
}

func BenchmarkRecordCodec_Encrypt(b *testing.B) {
	codec := NewRecordCodec()

	for _, size := range []struct {
		name string
		size int
	}{
		{name: "stored", size: StoredSize},
		{name: "party", size: PartySize},
	} {
		rec := benchRecord(size.size)
		b.Run(size.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Encrypt(rec); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRecordCodec_Decrypt(b *testing.B) {
	codec := NewRecordCodec()
	enc, err := codec.Encrypt(benchRecord(PartySize))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Decrypt(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecordCodec_DecryptIfEncrypted(b *testing.B) {
	codec := NewRecordCodec()
	plain := benchRecord(StoredSize)
	if err := codec.SetChecksum(plain); err != nil {
		b.Fatal(err)
	}
	enc, err := codec.Encrypt(plain)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("plain", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = codec.DecryptIfEncrypted(plain)
		}
	})
	b.Run("encrypted", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = codec.DecryptIfEncrypted(enc)
		}
	})
}
