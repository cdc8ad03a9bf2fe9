package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	ChoiceA   *string   `json:"choice_a"`
	ChoiceB   *string   `json:"choice_b"`
	ChoiceC   *string   `json:"choice_c"`
	ChoiceD   *string   `json:"choice_d"`
	Answered  bool      `json:"answered"`
	CreatedAt time.Time `json:"created_at"`
}

// FlashcardDraft is an unpersisted card candidate produced by the generator,
// pending validation.
type FlashcardDraft struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Choices  []string `json:"choices"`
}

type GenerateRequest struct {
	Topic    string `json:"topic"`
	NumCards int    `json:"num_cards"`
}

type GenerateStubRequest struct {
	Title string `json:"title"`
}

type AnswerRequest struct {
	Outcome string `json:"outcome"` // "correct" | "incorrect"
}
