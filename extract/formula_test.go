package extract

import (
	"strings"
	"testing"
)

func joinTokens(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func findToken(tokens []Token, class TokenClass, text string) bool {
	for _, tok := range tokens {
		if tok.Class == class && tok.Text == text {
			return true
		}
	}
	return false
}

func TestTokenizeFormulaRoundTrip(t *testing.T) {
	inputs := []string{
		`=SUMIF(B2:B100, "Confirmed", A2:A100)`,
		`=IF(A1>10, "big", "small")`,
		`=$A$1+B2*3.14`,
		`plain words without structure`,
		`="unterminated`,
	}

	for _, input := range inputs {
		tokens := TokenizeFormula(input)
		if got := joinTokens(tokens); got != input {
			t.Errorf("Tokens do not reassemble input:\n  in:  %q\n  out: %q", input, got)
		}
	}
}

func TestTokenizeFormulaClassification(t *testing.T) {
	tokens := TokenizeFormula(`=SUMIF(B2:B100, "Confirmed", A2:A100)`)

	if !findToken(tokens, TokenFunction, "SUMIF") {
		t.Errorf("SUMIF should be a function, got %#v", tokens)
	}
	if !findToken(tokens, TokenCellRef, "B2:B100") {
		t.Errorf("B2:B100 should be a cell range, got %#v", tokens)
	}
	if !findToken(tokens, TokenString, `"Confirmed"`) {
		t.Errorf(`"Confirmed" should be a string, got %#v`, tokens)
	}
	if !findToken(tokens, TokenOperator, "=") {
		t.Errorf("= should be an operator, got %#v", tokens)
	}
}

func TestTokenizeFormulaAbsoluteRefs(t *testing.T) {
	tokens := TokenizeFormula(`=$A$1:$B$2`)
	if !findToken(tokens, TokenCellRef, "$A$1:$B$2") {
		t.Errorf("Absolute range not recognized, got %#v", tokens)
	}
}

func TestTokenizeFormulaFunctionNeedsParen(t *testing.T) {
	// SUM without a following paren is a column run, not a function
	tokens := TokenizeFormula(`SUM`)
	if findToken(tokens, TokenFunction, "SUM") {
		t.Errorf("Bare SUM should not be a function, got %#v", tokens)
	}
}

func TestTokenizeFormulaNumbers(t *testing.T) {
	tokens := TokenizeFormula(`=3.14+42`)
	if !findToken(tokens, TokenNumber, "3.14") || !findToken(tokens, TokenNumber, "42") {
		t.Errorf("Numbers not recognized, got %#v", tokens)
	}
}
