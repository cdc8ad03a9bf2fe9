package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
)

// FlashcardStore is the slice of the flashcard repository the scoring service
// reads from. *repository.FlashcardRepo satisfies it.
type FlashcardStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error)
}

// AnswerStore persists answer events atomically with the card's answered
// flag. *repository.StatsRepo satisfies it; it must return
// repository.ErrAlreadyAnswered when the card was answered by an earlier
// submission.
type AnswerStore interface {
	RecordAnswer(ctx context.Context, event *models.AnswerEvent) error
}

type ScoringService struct {
	flashStore  FlashcardStore
	answerStore AnswerStore
}

func NewScoringService(flashStore FlashcardStore, answerStore AnswerStore) *ScoringService {
	return &ScoringService{
		flashStore:  flashStore,
		answerStore: answerStore,
	}
}

// RecordAnswer validates the submission, appends the answer event and marks
// the card answered. Already-answered cards are rejected rather than
// double-counted; the store's conditional update is authoritative, so two
// racing submissions can never both append an event.
func (s *ScoringService) RecordAnswer(ctx context.Context, userID, flashcardID uuid.UUID, outcome string) (*models.AnswerEvent, error) {
	if err := ValidateOutcome(outcome); err != nil {
		return nil, err
	}

	card, err := s.flashStore.GetByID(ctx, flashcardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard not found"}
		}
		return nil, err
	}

	if card.UserID != userID {
		return nil, &ForbiddenError{Message: "Access denied"}
	}

	if card.Answered {
		return nil, &ConflictError{Message: "Flashcard has already been answered"}
	}

	event := &models.AnswerEvent{
		UserID:      userID,
		FlashcardID: flashcardID,
		Outcome:     outcome,
	}

	if err := s.answerStore.RecordAnswer(ctx, event); err != nil {
		if errors.Is(err, repository.ErrAlreadyAnswered) {
			return nil, &ConflictError{Message: "Flashcard has already been answered"}
		}
		return nil, err
	}

	return event, nil
}

// ValidateOutcome accepts only the two recorded outcome values.
func ValidateOutcome(outcome string) error {
	if outcome != models.OutcomeCorrect && outcome != models.OutcomeIncorrect {
		return &ValidationError{Fields: map[string]string{
			"outcome": "Outcome must be 'correct' or 'incorrect'",
		}}
	}
	return nil
}
