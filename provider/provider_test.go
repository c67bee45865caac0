package provider

import (
	"errors"
	"strings"
	"testing"
)

func TestInvalidCredentialMatches(t *testing.T) {
	err := invalidCredential(errors.New("401 unauthorized"))

	if !errors.Is(err, ErrInvalidCredential) {
		t.Error("Wrapped error should match ErrInvalidCredential")
	}
	if !strings.Contains(err.Error(), "401 unauthorized") {
		t.Errorf("Underlying message lost: %v", err)
	}
}

func TestLooksLikeAuthError(t *testing.T) {
	authMessages := []string{
		"API key not valid. Please pass a valid API key.",
		"error: API_KEY_INVALID",
		"Invalid API Key provided",
		"invalid x-api-key",
		"Incorrect API key provided: sk-...",
	}
	for _, msg := range authMessages {
		if !looksLikeAuthError(msg) {
			t.Errorf("Should classify as auth error: %q", msg)
		}
	}

	otherMessages := []string{
		"connection refused",
		"model not found",
		"rate limit exceeded",
		"context deadline exceeded",
	}
	for _, msg := range otherMessages {
		if looksLikeAuthError(msg) {
			t.Errorf("Should not classify as auth error: %q", msg)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		`"Summing Columns"`:     "Summing Columns",
		`**Bold Title**`:        "Bold Title",
		"  padded  ":            "padded",
		"“smart quotes”":        "smart quotes",
		"It's a title":          "Its a title",
		"Plain Title":           "Plain Title",
		"* 'Mixed' \"Title\" *": "Mixed Title",
	}

	for input, expected := range cases {
		if got := CleanTitle(input); got != expected {
			t.Errorf("CleanTitle(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestTitlePromptEmbedsQuestion(t *testing.T) {
	prompt := TitlePrompt("How do I use SUMIF?")

	if !strings.Contains(prompt, `"How do I use SUMIF?"`) {
		t.Errorf("Question missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "five words maximum") {
		t.Errorf("Length constraint missing: %q", prompt)
	}
}

func TestSystemInstructionMandatesTypedFences(t *testing.T) {
	for _, fence := range []string{"```excel", "```vba", "```csv"} {
		if !strings.Contains(SystemInstruction, fence) {
			t.Errorf("System instruction should mandate %s fences", fence)
		}
	}
}

func TestMapProviderIDToType(t *testing.T) {
	if MapProviderIDToType("gemini") != ProviderTypeGemini {
		t.Error("gemini should map to the Gemini provider")
	}
	if MapProviderIDToType("openai") != ProviderTypeOpenAI {
		t.Error("openai should map to the OpenAI provider")
	}
	if MapProviderIDToType("anthropic") != ProviderTypeAnthropic {
		t.Error("anthropic should map to the Anthropic provider")
	}
}

func TestNewProviderRejectsUnknownType(t *testing.T) {
	if _, err := NewProvider(Config{Type: "telegraph"}); err == nil {
		t.Error("Unknown provider type should be rejected")
	}
}
