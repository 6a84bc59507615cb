package text

import "fmt"

// Terminator and control bytes shared by callers.
const (
	Gen1Terminator byte = 0x50
	Gen1Space      byte = 0x7F
	Gen1TradeOT    byte = 0x5D
	Gen3Terminator byte = 0xFF
	// Gen3Apostrophe is where the ASCII apostrophe encodes; the table itself
	// holds the typographic quote there.
	Gen3Apostrophe byte = 0xB4
)

var (
	// Gen1International is the Game Boy Red/Blue/Yellow western character set.
	Gen1International = NewTable("gen1-international", gen1InternationalGlyphs(), Gen1Terminator,
		map[rune]byte{'’': 0xE0})

	// Gen1Japanese is the Game Boy Red/Green/Blue/Yellow Japanese character set.
	Gen1Japanese = NewTable("gen1-japanese", gen1JapaneseGlyphs(), Gen1Terminator, nil)

	// Gen3International is the GBA western character set.
	Gen3International = NewTable("gen3-international", rows(gen3InternationalRows), Gen3Terminator,
		map[rune]byte{'\'': Gen3Apostrophe})

	// Gen3Japanese is the GBA Japanese character set.
	Gen3Japanese = NewTable("gen3-japanese", rows(gen3JapaneseRows), Gen3Terminator,
		map[rune]byte{'\'': Gen3Apostrophe})
)

var gen3InternationalRows = []string{
	" ÀÁÂÇÈÉÊËÌこÎÏÒÓÔ",
	"ŒÙÚÛÑßàáねÇÈéêëìí",
	"îïòóôœùúûñºª⒅&+あ",
	"ぃぅぇぉゃ=ょがぎぐげござじずぜ",
	"ぞだぢづでどばびぶべぼぱぴぷぺぽ",
	"っ¿¡⒆⒇オカキクケÍコサスセソ",
	"タチツテトナニヌâノハヒフヘホí",
	"ミムメモヤユヨラリルレロワヲンァ",
	"ィゥェォャュョガギグゲゴザジズゼ",
	"ゾダヂヅデドバビブベボパピプペポ",
	"ッ0123456789!?.-・",
	"⑬“”‘’♂♀$,⑧/ABCDE",
	"FGHIJKLMNOPQRSTU",
	"VWXYZabcdefghijk",
	"lmnopqrstuvwxyz0",
	":ÄÖÜäöü",
}

var gen3JapaneseRows = []string{
	"　あいうえおかきくけこさしすせそ",
	"たちつてとなにぬねのはひふへほま",
	"みむめもやゆよらりるれろわをんぁ",
	"ぃぅぇぉゃゅょがぎぐげござじずぜ",
	"ぞだぢづでどばびぶべぼぱぴぷぺぽ",
	"っアイウエオカキクケコサシスセソ",
	"タチツテトナニヌネノハヒフヘホマ",
	"ミムメモヤユヨラリルレロワヲンァ",
	"ィゥェォャュョガギグゲゴザジズゼ",
	"ゾダヂヅデドバビブベボパピプペポ",
	"ッ０１２３４５６７８９！？。ー・",
	"⋯『』「」♂♀$.⑧/ＡＢＣＤＥ",
	"ＦＧＨＩＪＫＬＭＮＯＰＱＲＳＴＵ",
	"ＶＷＸＹＺａｂｃｄｅｆｇｈｉｊｋ",
	"ｌｍｎｏｐｑｒｓｔｕｖｗｘｙｚ0",
	":ÄÖÜäöü",
}

// rows lays out 16-character rows starting at byte 0x00.
func rows(lines []string) [256]rune {
	var glyphs [256]rune
	for i, line := range lines {
		n := place(&glyphs, byte(i*16), line)
		if n != 16 && i != len(lines)-1 {
			panic(fmt.Sprintf("text: row %X has %d glyphs", i, n))
		}
	}
	return glyphs
}

// place writes s starting at start and returns the number of glyphs written.
func place(glyphs *[256]rune, start byte, s string) int {
	n := 0
	for _, r := range s {
		glyphs[int(start)+n] = r
		n++
	}
	return n
}

func gen1InternationalGlyphs() [256]rune {
	var g [256]rune
	g[Gen1TradeOT] = '*'
	g[Gen1Space] = ' '
	place(&g, 0x80, "ABCDEFGHIJKLMNOPQRSTUVWXYZ():;[]")
	place(&g, 0xA0, "abcdefghijklmnopqrstuvwxyzé")
	g[0xE0] = '\''
	g[0xE3] = '-'
	g[0xE6] = '?'
	g[0xE7] = '!'
	g[0xE8] = '.'
	place(&g, 0xEF, "♂¥×./,♀0123456789")
	return g
}

func gen1JapaneseGlyphs() [256]rune {
	var g [256]rune
	place(&g, 0x05, "ガギグゲゴザジズゼゾダヂヅデド")
	place(&g, 0x19, "バビブボ")
	place(&g, 0x26, "がぎぐげござじずぜぞだぢづでど")
	place(&g, 0x3A, "ばびぶべぼ")
	place(&g, 0x40, "パピプポぱぴぷぺぽ")
	g[Gen1TradeOT] = '*'
	g[Gen1Space] = '　'
	place(&g, 0x80, "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフホマミムメモヤユヨラルレロワヲンッャュョ")
	g[0xB0] = 'ィ'
	place(&g, 0xB1, "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん")
	place(&g, 0xDF, "っゃゅょー")
	place(&g, 0xE6, "？！。ァゥェ")
	place(&g, 0xEF, "♂円")
	place(&g, 0xF5, "♀０１２３４５６７８９")
	return g
}
