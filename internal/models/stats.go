package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
)

// AnswerEvent is append-only: one row per answer submission.
type AnswerEvent struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FlashcardID uuid.UUID `json:"flashcard_id"`
	Outcome     string    `json:"outcome"`
	AnsweredAt  time.Time `json:"answered_at"`
}

type UserTotals struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// WeeklyBucket carries the ISO year alongside the week number so buckets on
// either side of a year boundary stay distinct.
type WeeklyBucket struct {
	WeekLabel string `json:"week_label"`
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

type RankingEntry struct {
	Username     string  `json:"username"`
	Correct      int     `json:"correct"`
	Incorrect    int     `json:"incorrect"`
	AccuracyRate float64 `json:"accuracy_rate"`
}
