package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashdeck-backend/internal/models"
)

// ErrAlreadyAnswered is returned when the card was flipped to answered by an
// earlier submission, including one racing inside another transaction.
var ErrAlreadyAnswered = errors.New("flashcard already answered")

type StatsRepo struct {
	pool *pgxpool.Pool
}

type WeeklyRow struct {
	ISOYear   int
	ISOWeek   int
	Correct   int
	Incorrect int
}

type RankingRow struct {
	Username  string
	Correct   int
	Incorrect int
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// RecordAnswer flips the card to answered and appends the event in one
// transaction, so a card never disappears from the unanswered list without a
// matching event. The conditional UPDATE is the guarantee that at most one
// event is ever recorded per card: a second submission updates zero rows and
// gets ErrAlreadyAnswered, no matter how the two submissions interleave.
func (r *StatsRepo) RecordAnswer(ctx context.Context, event *models.AnswerEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"UPDATE flashcards SET answered = TRUE WHERE id = $1 AND answered = FALSE",
		event.FlashcardID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAnswered
	}

	event.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO answer_events (id, user_id, flashcard_id, outcome)
		 VALUES ($1, $2, $3, $4)
		 RETURNING answered_at`,
		event.ID, event.UserID, event.FlashcardID, event.Outcome,
	).Scan(&event.AnsweredAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *StatsRepo) Totals(ctx context.Context, userID uuid.UUID) (*models.UserTotals, error) {
	totals := &models.UserTotals{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE outcome = 'correct'),
			COUNT(*) FILTER (WHERE outcome = 'incorrect')
		FROM answer_events
		WHERE user_id = $1
	`, userID).Scan(&totals.Correct, &totals.Incorrect)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// WeeklyTrend groups events by ISO year and week of answered_at, ascending.
func (r *StatsRepo) WeeklyTrend(ctx context.Context, userID uuid.UUID) ([]WeeklyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			EXTRACT(ISOYEAR FROM answered_at)::int AS iso_year,
			EXTRACT(WEEK FROM answered_at)::int AS iso_week,
			COUNT(*) FILTER (WHERE outcome = 'correct') AS correct,
			COUNT(*) FILTER (WHERE outcome = 'incorrect') AS incorrect
		FROM answer_events
		WHERE user_id = $1
		GROUP BY iso_year, iso_week
		ORDER BY iso_year ASC, iso_week ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]WeeklyRow, 0)
	for rows.Next() {
		var b WeeklyRow
		if err := rows.Scan(&b.ISOYear, &b.ISOWeek, &b.Correct, &b.Incorrect); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Ranking left-joins users to events so zero-activity users still appear,
// ordered by correct count descending.
func (r *StatsRepo) Ranking(ctx context.Context) ([]RankingRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			u.username,
			COALESCE(COUNT(e.id) FILTER (WHERE e.outcome = 'correct'), 0) AS correct,
			COALESCE(COUNT(e.id) FILTER (WHERE e.outcome = 'incorrect'), 0) AS incorrect
		FROM users u
		LEFT JOIN answer_events e ON e.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY correct DESC, u.username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]RankingRow, 0)
	for rows.Next() {
		var e RankingRow
		if err := rows.Scan(&e.Username, &e.Correct, &e.Incorrect); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
