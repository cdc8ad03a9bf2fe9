package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
)

type StatsService struct {
	statsRepo *repository.StatsRepo
}

func NewStatsService(statsRepo *repository.StatsRepo) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

func (s *StatsService) Totals(ctx context.Context, userID uuid.UUID) (*models.UserTotals, error) {
	return s.statsRepo.Totals(ctx, userID)
}

// WeeklyTrend returns the correct/incorrect history grouped by ISO week,
// oldest first.
func (s *StatsService) WeeklyTrend(ctx context.Context, userID uuid.UUID) ([]models.WeeklyBucket, error) {
	rows, err := s.statsRepo.WeeklyTrend(ctx, userID)
	if err != nil {
		return nil, err
	}

	buckets := make([]models.WeeklyBucket, len(rows))
	for i, row := range rows {
		buckets[i] = models.WeeklyBucket{
			WeekLabel: WeekLabel(row.ISOYear, row.ISOWeek),
			Year:      row.ISOYear,
			Week:      row.ISOWeek,
			Correct:   row.Correct,
			Incorrect: row.Incorrect,
		}
	}
	return buckets, nil
}

// Ranking includes every user, zero-activity ones with zero counts, ordered
// by correct count descending (the repository orders the rows).
func (s *StatsService) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	rows, err := s.statsRepo.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.RankingEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.RankingEntry{
			Username:     row.Username,
			Correct:      row.Correct,
			Incorrect:    row.Incorrect,
			AccuracyRate: AccuracyRate(row.Correct, row.Incorrect),
		}
	}
	return entries, nil
}

// AccuracyRate is correct/(correct+incorrect)*100 rounded to 2 decimals, or 0
// when the user has no events.
func AccuracyRate(correct, incorrect int) float64 {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

// WeekLabel includes the ISO year so week 1 of consecutive years never
// collapses into the same label.
func WeekLabel(isoYear, isoWeek int) string {
	return fmt.Sprintf("Week %d %d", isoWeek, isoYear)
}
