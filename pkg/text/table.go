// Package text converts between the proprietary single-byte character sets of
// handheld save data and Go strings.
//
// A Table is selected by the caller per generation and region and passed to
// every call; nothing in this package keeps a current table. Using the wrong
// table does not fail, it silently produces different characters.
package text

// noGlyph marks a byte without a printable character. Decoding stops on it.
const noGlyph rune = 0

// Table is an immutable 256-entry byte to character map plus the reverse map
// used for encoding.
type Table struct {
	name       string
	glyphs     [256]rune
	terminator byte
	aliases    map[rune]byte
	reverse    map[rune]byte
}

// NewTable builds a table from its glyphs. Entries equal to zero have no
// character. When a character appears more than once it encodes to the lowest
// byte. aliases take precedence over the glyph table when encoding.
func NewTable(name string, glyphs [256]rune, terminator byte, aliases map[rune]byte) *Table {
	t := &Table{
		name:       name,
		glyphs:     glyphs,
		terminator: terminator,
		aliases:    make(map[rune]byte, len(aliases)),
		reverse:    make(map[rune]byte, 256),
	}
	t.glyphs[terminator] = noGlyph

	for r, b := range aliases {
		t.aliases[r] = b
	}
	for i := 255; i >= 0; i-- {
		if g := t.glyphs[i]; g != noGlyph {
			t.reverse[g] = byte(i)
		}
	}

	return t
}

// Name identifies the table, e.g. "gen3-international".
func (t *Table) Name() string {
	return t.name
}

// Terminator is the byte that ends a string.
func (t *Table) Terminator() byte {
	return t.terminator
}

// Glyph returns the character for b. ok is false for the terminator and for
// bytes without a character.
func (t *Table) Glyph(b byte) (r rune, ok bool) {
	r = t.glyphs[b]
	return r, r != noGlyph
}

// Index returns the byte that encodes r.
func (t *Table) Index(r rune) (byte, bool) {
	if b, ok := t.aliases[r]; ok {
		return b, true
	}
	b, ok := t.reverse[r]
	return b, ok
}

func (t *Table) String() string {
	return t.name
}
