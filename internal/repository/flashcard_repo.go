package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashdeck-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// CreateBatch persists validated drafts for one owner in a single transaction.
// Drafts without a full choice set (legacy stub path) store null choices.
func (r *FlashcardRepo) CreateBatch(ctx context.Context, userID uuid.UUID, drafts []models.FlashcardDraft) (int, error) {
	if len(drafts) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	created := 0
	for _, d := range drafts {
		var a, b, c, dd *string
		if len(d.Choices) >= 4 {
			a, b, c, dd = &d.Choices[0], &d.Choices[1], &d.Choices[2], &d.Choices[3]
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO flashcards (id, user_id, question, answer, choice_a, choice_b, choice_c, choice_d)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), userID, d.Question, d.Answer, a, b, c, dd,
		)
		if err != nil {
			return 0, err
		}
		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return created, nil
}

// ListUnanswered returns only answered=false cards for the owner, in
// insertion order.
func (r *FlashcardRepo) ListUnanswered(ctx context.Context, userID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, user_id, question, answer, choice_a, choice_b, choice_c, choice_d, answered, created_at
		FROM flashcards WHERE user_id = $1 AND answered = FALSE ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]models.Flashcard, 0)
	for rows.Next() {
		var c models.Flashcard
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Question, &c.Answer,
			&c.ChoiceA, &c.ChoiceB, &c.ChoiceC, &c.ChoiceD,
			&c.Answered, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *FlashcardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, user_id, question, answer, choice_a, choice_b, choice_c, choice_d, answered, created_at
		FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Question, &c.Answer,
		&c.ChoiceA, &c.ChoiceB, &c.ChoiceC, &c.ChoiceD,
		&c.Answered, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MarkAnswered is idempotent: setting answered on an already-answered card is
// harmless.
func (r *FlashcardRepo) MarkAnswered(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE flashcards SET answered = TRUE WHERE id = $1", id)
	return err
}
