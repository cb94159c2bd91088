package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diary-app/src/database"
	"diary-app/src/domain"

	"github.com/sirupsen/logrus"
)

// MemoRepository implements domain.MemoRepository
type MemoRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewMemoRepository creates a new memo repository
func NewMemoRepository(db *database.DB, logger *logrus.Logger) domain.MemoRepository {
	return &MemoRepository{db: db, logger: logger}
}

const memoColumns = `id, user_id, memo_date, content, updated_at`

func scanMemo(row interface{ Scan(...interface{}) error }) (*domain.Memo, error) {
	var m domain.Memo
	var date string
	if err := row.Scan(&m.ID, &m.UserID, &date, &m.Content, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.MemoDate = domain.Date(date)
	return &m, nil
}

// Upsert writes the memo of (owner, memo_date); the last write wins
func (r *MemoRepository) Upsert(ctx context.Context, owner string, m *domain.Memo) (*domain.Memo, error) {
	query := `
		INSERT INTO daily_memos (` + memoColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, memo_date)
		DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		RETURNING ` + memoColumns

	out, err := scanMemo(r.db.QueryRowContext(ctx, query,
		newID(), owner, string(m.MemoDate), m.Content, time.Now()))
	if err != nil {
		r.logger.WithError(err).Error("メモの保存に失敗")
		return nil, fmt.Errorf("failed to upsert memo: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"memo_id": out.ID, "owner_id": owner, "date": out.MemoDate}).Info("メモを保存しました")
	return out, nil
}

// GetByDate retrieves the memo of a day
func (r *MemoRepository) GetByDate(ctx context.Context, owner string, date domain.Date) (*domain.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM daily_memos WHERE user_id = $1 AND memo_date = $2`

	m, err := scanMemo(r.db.QueryRowContext(ctx, query, owner, string(date)))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("メモの取得に失敗")
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	return m, nil
}

// ListRange retrieves memos dated within [from, to]
func (r *MemoRepository) ListRange(ctx context.Context, owner string, from, to domain.Date) ([]domain.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM daily_memos
		WHERE user_id = $1 AND memo_date >= $2 AND memo_date <= $3
		ORDER BY memo_date`

	rows, err := r.db.QueryContext(ctx, query, owner, string(from), string(to))
	if err != nil {
		r.logger.WithError(err).Error("メモ一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	memos := []domain.Memo{}
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, *m)
	}
	return memos, rows.Err()
}

// Delete removes a memo by id
func (r *MemoRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM daily_memos WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("メモの削除に失敗")
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	return err
}
