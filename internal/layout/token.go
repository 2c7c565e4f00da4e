package layout

// Kind classifies a token. It is a closed set: every token is exactly
// one of Char, Newline, or TCY.
type Kind int

const (
	Char Kind = iota
	Newline
	TCY
)

func (k Kind) String() string {
	switch k {
	case Char:
		return "char"
	case Newline:
		return "newline"
	case TCY:
		return "tcy"
	}
	return "unknown"
}

// Token is a slice [Start, End) of the buffer in rune offsets.
// Tokens partition the buffer with no gaps or overlaps.
type Token struct {
	Start int
	End   int
	Text  string
	Kind  Kind
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize splits text into layout tokens. A newline is its own token.
// Exactly two consecutive ASCII digits with no digit on either side
// form a single TCY token (tate-chu-yoko pair). Runs of three or more
// digits are deliberately not chunked into pairs: each digit becomes a
// plain Char token.
func Tokenize(text []rune) []Token {
	tokens := make([]Token, 0, len(text))
	n := len(text)
	for i := 0; i < n; {
		r := text[i]
		if r == '\n' {
			tokens = append(tokens, Token{Start: i, End: i + 1, Text: "\n", Kind: Newline})
			i++
			continue
		}
		if isASCIIDigit(r) && i+1 < n && isASCIIDigit(text[i+1]) &&
			(i == 0 || !isASCIIDigit(text[i-1])) &&
			(i+2 == n || !isASCIIDigit(text[i+2])) {
			tokens = append(tokens, Token{Start: i, End: i + 2, Text: string(text[i : i+2]), Kind: TCY})
			i += 2
			continue
		}
		tokens = append(tokens, Token{Start: i, End: i + 1, Text: string(r), Kind: Char})
		i++
	}
	return tokens
}
