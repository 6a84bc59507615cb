package text_test

import (
	"fmt"

	"github.com/ssargent/cartsave/pkg/text"
)

func ExampleEncode() {
	buf := make([]byte, 11)
	n := text.Encode(buf, "MUDKIP", 10, text.Gen3International, text.FillFF)

	fmt.Printf("% X\n", buf[:n])
	fmt.Println(text.Decode(buf, text.Gen3International))
	// Output:
	// C7 CF BE C5 C3 CA FF
	// MUDKIP
}

func ExampleDecode_wrongTable() {
	buf := text.Gen1International.EncodeString("RED", 11, text.Fill50)

	fmt.Println(text.Decode(buf, text.Gen1International))
	fmt.Println(text.Decode(buf, text.Gen1Japanese))
	// Output:
	// RED
	// ツオエ
}
