package extract

import "strings"

const vbaOperators = "=+-*/<>&(),."

// vbaKeywords are language keywords. Multiword entries are matched before
// single words ("End If" before a bare "If").
var vbaMultiwordKeywords = []string{"End If", "End Select", "End With", "On Error"}

var vbaKeywords = map[string]bool{
	"Sub": true, "Function": true, "Dim": true, "As": true,
	"String": true, "Integer": true, "Long": true, "Double": true,
	"Boolean": true, "Date": true, "Object": true, "Variant": true,
	"If": true, "Then": true, "Else": true, "ElseIf": true,
	"For": true, "To": true, "Next": true, "Do": true, "Loop": true,
	"While": true, "Wend": true, "Select": true, "Case": true,
	"With": true, "Public": true, "Private": true, "Const": true,
	"Set": true, "Call": true, "Exit": true, "Resume": true, "GoTo": true,
	"True": true, "False": true, "Null": true, "Nothing": true,
}

// vbaObjects are well-known Excel object model names
var vbaObjects = map[string]bool{
	"Application": true, "Workbooks": true, "Worksheets": true,
	"Range": true, "Cells": true, "ActiveSheet": true,
	"ActiveWorkbook": true, "Selection": true, "Value": true,
	"Text": true, "Formula": true, "Address": true, "Count": true,
	"Activate": true, "Copy": true, "Paste": true, "MsgBox": true,
}

// TokenizeVBA classifies the content of a VBA macro block. An apostrophe
// outside a string literal starts a comment running to end of line.
func TokenizeVBA(src string) []Token {
	b := &tokenBuilder{}

	i := 0
	for i < len(src) {
		c := src[i]

		switch {
		case c == '\'':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			b.add(TokenComment, src[i:i+end])
			i += end

		case c == '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				b.addPlain(src[i : i+1])
				i++
				continue
			}
			b.add(TokenString, src[i:i+end+2])
			i += end + 2

		case isWordStart(c):
			word := matchWord(src[i:])

			if multi := matchMultiwordKeyword(src[i:], word); multi != "" {
				b.add(TokenKeyword, multi)
				i += len(multi)
				continue
			}
			if vbaKeywords[word] {
				b.add(TokenKeyword, word)
			} else if vbaObjects[word] {
				b.add(TokenObject, word)
			} else {
				b.addPlain(word)
			}
			i += len(word)

		case isDigit(c):
			tok := matchNumber(src[i:])
			b.add(TokenNumber, tok)
			i += len(tok)

		case strings.IndexByte(vbaOperators, c) >= 0:
			b.add(TokenOperator, src[i:i+1])
			i++

		default:
			b.addPlain(src[i : i+1])
			i++
		}
	}

	return b.result()
}

func isWordStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

func isWordChar(c byte) bool {
	return isWordStart(c) || isDigit(c)
}

func matchWord(s string) string {
	i := 0
	for i < len(s) && isWordChar(s[i]) {
		i++
	}
	return s[:i]
}

// matchMultiwordKeyword checks whether the text at s starts one of the
// two-word keywords. The first word must already match, and the pair must
// end on a word boundary.
func matchMultiwordKeyword(s, firstWord string) string {
	for _, kw := range vbaMultiwordKeywords {
		first, _, _ := strings.Cut(kw, " ")
		if first != firstWord {
			continue
		}
		if strings.HasPrefix(s, kw) && (len(s) == len(kw) || !isWordChar(s[len(kw)])) {
			return kw
		}
	}
	return ""
}
