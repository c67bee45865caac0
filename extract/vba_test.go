package extract

import (
	"testing"
)

func TestTokenizeVBARoundTrip(t *testing.T) {
	inputs := []string{
		`Sub DeleteEmptyRows()`,
		`    If Application.CountA(Rows(i)) = 0 Then`,
		`    Dim msg As String ' holds the result`,
		`    msg = "done"`,
		`End Sub`,
	}

	for _, input := range inputs {
		tokens := TokenizeVBA(input)
		if got := joinTokens(tokens); got != input {
			t.Errorf("Tokens do not reassemble input:\n  in:  %q\n  out: %q", input, got)
		}
	}
}

func TestTokenizeVBAClassification(t *testing.T) {
	tokens := TokenizeVBA(`Dim total As Long`)

	if !findToken(tokens, TokenKeyword, "Dim") {
		t.Errorf("Dim should be a keyword, got %#v", tokens)
	}
	if !findToken(tokens, TokenKeyword, "As") {
		t.Errorf("As should be a keyword, got %#v", tokens)
	}
	if !findToken(tokens, TokenKeyword, "Long") {
		t.Errorf("Long should be a keyword, got %#v", tokens)
	}
	if !findToken(tokens, TokenPlain, "total") {
		t.Errorf("total should be plain, got %#v", tokens)
	}
}

func TestTokenizeVBAComment(t *testing.T) {
	tokens := TokenizeVBA(`x = 1 ' set "x"`)

	if !findToken(tokens, TokenComment, `' set "x"`) {
		t.Errorf("Comment should run to end of line, got %#v", tokens)
	}
}

func TestTokenizeVBAApostropheInString(t *testing.T) {
	tokens := TokenizeVBA(`msg = "it's fine"`)

	if !findToken(tokens, TokenString, `"it's fine"`) {
		t.Errorf("Apostrophe inside a string should not start a comment, got %#v", tokens)
	}
	for _, tok := range tokens {
		if tok.Class == TokenComment {
			t.Errorf("Unexpected comment token: %#v", tok)
		}
	}
}

func TestTokenizeVBAMultiwordKeywords(t *testing.T) {
	tokens := TokenizeVBA("End If")
	if !findToken(tokens, TokenKeyword, "End If") {
		t.Errorf("End If should be a single keyword, got %#v", tokens)
	}

	// "End Iffy" must not match "End If"
	tokens = TokenizeVBA("End Iffy")
	if findToken(tokens, TokenKeyword, "End If") {
		t.Errorf("End Iffy should not match End If, got %#v", tokens)
	}
}

func TestTokenizeVBAObjects(t *testing.T) {
	tokens := TokenizeVBA(`Application.Workbooks(1).Activate`)

	if !findToken(tokens, TokenObject, "Application") {
		t.Errorf("Application should be an object, got %#v", tokens)
	}
	if !findToken(tokens, TokenObject, "Activate") {
		t.Errorf("Activate should be an object, got %#v", tokens)
	}
	if !findToken(tokens, TokenNumber, "1") {
		t.Errorf("1 should be a number, got %#v", tokens)
	}
}
