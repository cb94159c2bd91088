package repository

import (
	"context"
	"errors"
	"fmt"

	"diary-app/src/database"
	"diary-app/src/domain"

	"github.com/sirupsen/logrus"
)

// CompletionRepository implements domain.CompletionRepository
type CompletionRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db *database.DB, logger *logrus.Logger) domain.CompletionRepository {
	return &CompletionRepository{db: db, logger: logger}
}

const completionColumns = `id, user_id, item_id, item_type, completion_date`

func scanCompletion(row interface{ Scan(...interface{}) error }) (*domain.Completion, error) {
	var c domain.Completion
	var itemType, date string
	if err := row.Scan(&c.ID, &c.UserID, &c.ItemID, &itemType, &date); err != nil {
		return nil, err
	}
	c.ItemType = domain.ItemType(itemType)
	c.CompletionDate = domain.Date(date)
	return &c, nil
}

func (r *CompletionRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("完了記録の取得に失敗")
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	completions := []domain.Completion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// List retrieves every completion row of the owner
func (r *CompletionRepository) List(ctx context.Context, owner string) ([]domain.Completion, error) {
	return r.query(ctx, `SELECT `+completionColumns+` FROM completions WHERE user_id = $1
		ORDER BY completion_date, id`, owner)
}

// ListByItem retrieves the completion rows of one item
func (r *CompletionRepository) ListByItem(ctx context.Context, owner, itemID string, itemType domain.ItemType) ([]domain.Completion, error) {
	return r.query(ctx, `SELECT `+completionColumns+` FROM completions
		WHERE user_id = $1 AND item_id = $2 AND item_type = $3
		ORDER BY completion_date`, owner, itemID, string(itemType))
}

// Upsert inserts the completion, or returns the existing row for the same natural key
func (r *CompletionRepository) Upsert(ctx context.Context, owner string, c *domain.Completion) (*domain.Completion, error) {
	// DO UPDATE にしないと RETURNING が既存行を返さない
	query := `
		INSERT INTO completions (` + completionColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_id, item_type, completion_date)
		DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + completionColumns

	out, err := scanCompletion(r.db.QueryRowContext(ctx, query,
		newID(), owner, c.ItemID, string(c.ItemType), string(c.CompletionDate)))
	if err != nil {
		r.logger.WithError(err).Error("完了記録の保存に失敗")
		return nil, fmt.Errorf("failed to upsert completion: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"item_id":   out.ItemID,
		"item_type": out.ItemType,
		"date":      out.CompletionDate,
	}).Debug("完了記録を保存しました")
	return out, nil
}

// Delete removes one completion row
func (r *CompletionRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM completions WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("完了記録の削除に失敗")
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	return err
}
