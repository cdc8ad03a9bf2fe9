package services

import (
	"errors"
	"strings"
	"testing"

	"flashdeck-backend/internal/models"
)

func TestParseDrafts_WellFormedReply(t *testing.T) {
	raw := `{
		"flashcards": [
			{"question": "What is a goroutine?", "answer": "A lightweight thread", "choices": ["A lightweight thread", "A kernel thread", "A process", "A mutex"]},
			{"question": "What does chan do?", "answer": "Communicates between goroutines", "choices": ["Allocates memory", "Communicates between goroutines", "Stops the GC", "Formats strings"]},
			{"question": "What is a slice?", "answer": "A view over an array", "choices": ["A linked list", "A view over an array", "A hash map", "A channel"]},
			{"question": "What is defer?", "answer": "Delays a call until return", "choices": ["Delays a call until return", "Panics", "Spawns a goroutine", "Imports a package"]},
			{"question": "What is an interface?", "answer": "A method set contract", "choices": ["A method set contract", "A struct", "A pointer", "A constant"]}
		]
	}`

	drafts, err := parseDrafts(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accepted := validateDrafts(drafts)
	if len(accepted) != 5 {
		t.Fatalf("expected 5 accepted drafts, got %d", len(accepted))
	}
}

func TestParseDrafts_StripsCodeFence(t *testing.T) {
	raw := "```json\n{\"flashcards\": [{\"question\": \"Q\", \"answer\": \"A\", \"choices\": [\"A\", \"B\", \"C\", \"D\"]}]}\n```"

	drafts, err := parseDrafts(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
}

func TestParseDrafts_NonJSONReply(t *testing.T) {
	_, err := parseDrafts("Sorry, I cannot help with that.")
	if err == nil {
		t.Fatal("expected error for non-JSON reply")
	}

	var formatErr *InvalidFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected InvalidFormatError, got %T", err)
	}
}

func TestParseDrafts_MissingFlashcardsKey(t *testing.T) {
	_, err := parseDrafts(`{"cards": []}`)
	if err == nil {
		t.Fatal("expected error when flashcards key is missing")
	}

	var formatErr *InvalidFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected InvalidFormatError, got %T", err)
	}
}

func TestValidateDrafts_DropsMalformed(t *testing.T) {
	raw := `{
		"flashcards": [
			{"question": "Valid one?", "answer": "Yes", "choices": ["Yes", "No", "Maybe", "Never"]},
			{"question": "Missing answer?", "answer": "", "choices": ["A", "B", "C", "D"]},
			{"question": "Too few choices?", "answer": "A", "choices": ["A", "B"]},
			{"question": "", "answer": "Empty question", "choices": ["A", "B", "C", "D"]},
			{"question": "Valid two?", "answer": "Also yes", "choices": ["Also yes", "Nope", "Perhaps", "Unclear"]}
		]
	}`

	drafts, err := parseDrafts(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 5 {
		t.Fatalf("expected 5 parsed drafts, got %d", len(drafts))
	}

	accepted := validateDrafts(drafts)
	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted drafts, got %d", len(accepted))
	}

	if accepted[0].Question != "Valid one?" || accepted[1].Question != "Valid two?" {
		t.Errorf("accepted drafts out of order: %q, %q", accepted[0].Question, accepted[1].Question)
	}
}

func TestValidateDrafts_TrimsWhitespace(t *testing.T) {
	drafts := []models.FlashcardDraft{
		{Question: "  Padded?  ", Answer: " Yes ", Choices: []string{"Yes", "No", "Maybe", "Never"}},
	}

	accepted := validateDrafts(drafts)
	if len(accepted) != 1 {
		t.Fatalf("expected 1 accepted draft, got %d", len(accepted))
	}
	if accepted[0].Question != "Padded?" {
		t.Errorf("expected trimmed question, got %q", accepted[0].Question)
	}
}

func TestBuildFlashcardPrompt(t *testing.T) {
	prompt := buildFlashcardPrompt("photosynthesis", 5)

	if !strings.Contains(prompt, "photosynthesis") {
		t.Error("prompt should name the topic")
	}
	if !strings.Contains(prompt, "Create 5 flashcards") {
		t.Error("prompt should request the desired count")
	}
	if !strings.Contains(prompt, `"flashcards"`) {
		t.Error("prompt should declare the JSON schema")
	}
	if !strings.Contains(prompt, "SHUFFLE THE CORRECT ANSWER") {
		t.Error("prompt should require shuffled choices")
	}
}

func TestBuildMaterialPrompt(t *testing.T) {
	prompt := buildMaterialPrompt("The mitochondria is the powerhouse of the cell.", 3)

	if !strings.Contains(prompt, "---MATERIAL START---") {
		t.Error("prompt should delimit the material")
	}
	if !strings.Contains(prompt, "mitochondria") {
		t.Error("prompt should embed the material")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{}\n```", "{}"},
		{"bare fence", "```\n{}\n```", "{}"},
		{"no fence", "{}", "{}"},
		{"surrounding whitespace", "  {}  ", "{}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.input); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
