package layout

// Kinsoku shori character classes. Line-head prohibited characters may
// not open a column; line-end prohibited characters may not close one.

var lineHeadProhibited = runeSet("、。，．！？)]｝〕〉》」』】")

var lineEndProhibited = runeSet("([｛〔〈《「『【")

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func inRuneSet(set map[rune]struct{}, text string) bool {
	rs := []rune(text)
	if len(rs) != 1 {
		return false
	}
	_, ok := set[rs[0]]
	return ok
}

// LineHeadProhibited reports whether text is closing punctuation that
// must not start a column.
func LineHeadProhibited(text string) bool {
	return inRuneSet(lineHeadProhibited, text)
}

// LineEndProhibited reports whether text is an opening bracket or quote
// that must not end a column.
func LineEndProhibited(text string) bool {
	return inRuneSet(lineEndProhibited, text)
}

// verticalGlyphs maps horizontal punctuation to its vertical
// presentation form. This is display-only: layout and cursor slots
// always operate on the raw text.
var verticalGlyphs = map[string]string{
	"、": "︑",
	"。": "︒",
	"「": "﹁",
	"」": "﹂",
	"『": "﹃",
	"』": "﹄",
	"（": "︵",
	"）": "︶",
	"［": "﹇",
	"］": "﹈",
	"｛": "︷",
	"｝": "︸",
	"〈": "︿",
	"〉": "﹀",
	"《": "︽",
	"》": "︾",
	"【": "︻",
	"】": "︼",
	"ー": "｜",
}

// VerticalGlyph returns the vertical presentation form of text, or text
// unchanged when no substitution applies.
func VerticalGlyph(text string) string {
	if v, ok := verticalGlyphs[text]; ok {
		return v
	}
	return text
}
