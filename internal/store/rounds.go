package store

import (
	"context"

	"github.com/google/uuid"
)

// CreateRoundWithScores inserts the round and its scores in one transaction.
// Any failure rolls back every row.
func (r *Repository) CreateRoundWithScores(ctx context.Context, round *Round, scores []RoundScore) error {
	dbTx := r.db.WithContext(ctx).Begin()
	if dbTx.Error != nil {
		return dbError(dbTx.Error)
	}

	if err := dbTx.Create(round).Error; err != nil {
		dbTx.Rollback()
		return dbError(err)
	}
	for i := range scores {
		scores[i].RoundID = round.ID
		if err := dbTx.Create(&scores[i]).Error; err != nil {
			dbTx.Rollback()
			return dbError(err)
		}
	}

	if err := dbTx.Commit().Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetRound(ctx context.Context, id uuid.UUID) (*Round, error) {
	var round Round
	if err := r.db.WithContext(ctx).First(&round, "id = ?", id).Error; err != nil {
		return nil, dbError(err)
	}
	return &round, nil
}

func (r *Repository) ListRounds(ctx context.Context, userID string) ([]Round, error) {
	var out []Round
	q := r.db.WithContext(ctx).Order("played_at, id")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (r *Repository) ListRoundScores(ctx context.Context, roundID uuid.UUID) ([]RoundScore, error) {
	var out []RoundScore
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("player_name, hole_number").
		Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}
