package text

// FillPolicy says how a destination buffer is prepared before encoding.
type FillPolicy int

const (
	// FillNone leaves the buffer untouched.
	FillNone FillPolicy = iota
	// FillZero zeroes the buffer.
	FillZero
	// Fill50 fills with 0x50, the Game Boy terminator.
	Fill50
	// Fill7F fills with 0x7F, the Game Boy space.
	Fill7F
	// FillFF fills with 0xFF, the GBA terminator.
	FillFF
)

func (p FillPolicy) fillByte() (byte, bool) {
	switch p {
	case FillZero:
		return 0x00, true
	case Fill50:
		return 0x50, true
	case Fill7F:
		return 0x7F, true
	case FillFF:
		return 0xFF, true
	default:
		return 0, false
	}
}

func (p FillPolicy) String() string {
	switch p {
	case FillZero:
		return "zero"
	case Fill50:
		return "0x50"
	case Fill7F:
		return "0x7F"
	case FillFF:
		return "0xFF"
	default:
		return "none"
	}
}

// Decode reads characters from data until the first terminator or byte
// without a character. The terminator is not part of the result.
func Decode(data []byte, table *Table) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		r, ok := table.Glyph(b)
		if !ok {
			break
		}
		out = append(out, r)
	}

	return string(out)
}

// Encode writes at most maxLength characters of s into buf and appends the
// terminator when there is room left. Encoding stops early at the first
// character the table cannot represent. It returns the number of bytes
// written, terminator included.
func Encode(buf []byte, s string, maxLength int, table *Table, fill FillPolicy) int {
	if b, ok := fill.fillByte(); ok {
		for i := range buf {
			buf[i] = b
		}
	}

	n := 0
	for _, r := range s {
		if n >= maxLength || n >= len(buf) {
			break
		}
		b, ok := table.Index(r)
		if !ok {
			break
		}
		buf[n] = b
		n++
	}

	if n < len(buf) {
		buf[n] = table.Terminator()
		n++
	}

	return n
}

// Decode is Decode(data, t).
func (t *Table) Decode(data []byte) string {
	return Decode(data, t)
}

// Encode is Encode(buf, s, maxLength, t, fill).
func (t *Table) Encode(buf []byte, s string, maxLength int, fill FillPolicy) int {
	return Encode(buf, s, maxLength, t, fill)
}

// EncodeString returns s encoded into a new buffer of width bytes.
func (t *Table) EncodeString(s string, width int, fill FillPolicy) []byte {
	buf := make([]byte, width)
	t.Encode(buf, s, width, fill)
	return buf
}
