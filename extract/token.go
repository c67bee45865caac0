package extract

// TokenClass classifies a span of block content for display
type TokenClass int

const (
	TokenPlain TokenClass = iota
	TokenString
	TokenNumber
	TokenOperator
	// TokenFunction is an Excel function name
	TokenFunction
	// TokenCellRef is a cell reference or range (A1, $B$2:C10)
	TokenCellRef
	// TokenComment is a VBA comment line
	TokenComment
	// TokenKeyword is a VBA language keyword
	TokenKeyword
	// TokenObject is a well-known Excel object model name
	TokenObject
)

type Token struct {
	Class TokenClass
	Text  string
}

// tokenBuilder accumulates tokens, coalescing adjacent plain runs
type tokenBuilder struct {
	tokens []Token
	plain  []byte
}

func (b *tokenBuilder) flushPlain() {
	if len(b.plain) > 0 {
		b.tokens = append(b.tokens, Token{Class: TokenPlain, Text: string(b.plain)})
		b.plain = nil
	}
}

func (b *tokenBuilder) addPlain(s string) {
	b.plain = append(b.plain, s...)
}

func (b *tokenBuilder) add(class TokenClass, text string) {
	b.flushPlain()
	b.tokens = append(b.tokens, Token{Class: class, Text: text})
}

func (b *tokenBuilder) result() []Token {
	b.flushPlain()
	return b.tokens
}
