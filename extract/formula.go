package extract

import "strings"

const formulaOperators = "=+-*/,;()<>"

// TokenizeFormula classifies the content of an Excel formula block.
// Recognized spans: quoted strings, function names (two or more capitals
// directly before an opening paren), cell references and ranges, numbers,
// and operators. Everything else passes through as plain text.
func TokenizeFormula(src string) []Token {
	b := &tokenBuilder{}

	i := 0
	for i < len(src) {
		c := src[i]

		switch {
		case c == '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				b.addPlain(src[i : i+1])
				i++
				continue
			}
			b.add(TokenString, src[i:i+end+2])
			i += end + 2

		case isUpper(c) || c == '$':
			if tok := matchFunctionName(src[i:]); tok != "" {
				b.add(TokenFunction, tok)
				i += len(tok)
				continue
			}
			if tok := matchCellRef(src[i:]); tok != "" {
				b.add(TokenCellRef, tok)
				i += len(tok)
				continue
			}
			b.addPlain(src[i : i+1])
			i++

		case isDigit(c):
			tok := matchNumber(src[i:])
			b.add(TokenNumber, tok)
			i += len(tok)

		case strings.IndexByte(formulaOperators, c) >= 0:
			b.add(TokenOperator, src[i:i+1])
			i++

		default:
			b.addPlain(src[i : i+1])
			i++
		}
	}

	return b.result()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// matchFunctionName matches two or more capitals immediately followed by '('
// (the paren is not part of the token)
func matchFunctionName(s string) string {
	n := 0
	for n < len(s) && isUpper(s[n]) {
		n++
	}
	if n >= 2 && n < len(s) && s[n] == '(' {
		return s[:n]
	}
	return ""
}

// matchCellRef matches $?[A-Z]+$?\d+ optionally followed by :$?[A-Z]+$?\d+
func matchCellRef(s string) string {
	n := matchCellCoord(s)
	if n == 0 {
		return ""
	}
	if n < len(s) && s[n] == ':' {
		if m := matchCellCoord(s[n+1:]); m > 0 {
			return s[:n+1+m]
		}
	}
	return s[:n]
}

func matchCellCoord(s string) int {
	i := 0
	if i < len(s) && s[i] == '$' {
		i++
	}
	letters := 0
	for i < len(s) && isUpper(s[i]) {
		i++
		letters++
	}
	if letters == 0 {
		return 0
	}
	if i < len(s) && s[i] == '$' {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	return i
}

// matchNumber matches \d+\.?\d*
func matchNumber(s string) string {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return s[:i]
}
