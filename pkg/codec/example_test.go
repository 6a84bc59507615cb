package codec_test

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/ssargent/cartsave/pkg/codec"
)

// ExampleRecordCodec demonstrates decrypting a stored record and rewriting
// its checksum after an edit.
func ExampleRecordCodec() {
	c := codec.NewRecordCodec()

	plain := make([]byte, codec.StoredSize)
	binary.LittleEndian.PutUint32(plain[0:], 0x00000009) // PID, shuffle index 9
	binary.LittleEndian.PutUint32(plain[4:], 0x00005A5A) // OTID
	plain[codec.HeaderSize] = 0x19
	if err := c.SetChecksum(plain); err != nil {
		log.Fatal(err)
	}

	stored, err := c.Encrypt(plain)
	if err != nil {
		log.Fatal(err)
	}

	record, err := c.Decode(stored)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("shuffle index: %d\n", record.ShuffleIndex())
	fmt.Printf("valid: %v\n", record.Validate() == nil)

	record.Data[codec.HeaderSize] = 0x1A
	fmt.Printf("valid after edit: %v\n", record.Validate() == nil)

	if err := record.SetChecksum(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("valid after SetChecksum: %v\n", record.Validate() == nil)

	// Output:
	// shuffle index: 9
	// valid: true
	// valid after edit: false
	// valid after SetChecksum: true
}
