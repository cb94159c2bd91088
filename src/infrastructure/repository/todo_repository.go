package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"diary-app/src/database"
	"diary-app/src/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newID() string {
	return uuid.New().String()
}

// notFound maps sql.ErrNoRows to domain.ErrRecordNotFound
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	return err
}

// execOne runs a write that must touch exactly one owner-scoped row
func execOne(ctx context.Context, db *database.DB, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DailyTodoRepository stores daily todos in PostgreSQL
type DailyTodoRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewDailyTodoRepository creates a new daily todo repository
func NewDailyTodoRepository(db *database.DB, logger *logrus.Logger) domain.DailyTodoRepository {
	return &DailyTodoRepository{db: db, logger: logger}
}

// Create inserts a daily todo
func (r *DailyTodoRepository) Create(ctx context.Context, owner string, t *domain.DailyTodo) (*domain.DailyTodo, error) {
	rec := *t
	rec.ID = newID()
	rec.UserID = owner
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO daily_todos (id, user_id, text, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, rec.ID, owner, rec.Text, rec.IsActive, rec.CreatedAt); err != nil {
		r.logger.WithError(err).Error("毎日のTODOの作成に失敗")
		return nil, fmt.Errorf("failed to create daily todo: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"todo_id": rec.ID, "owner_id": owner}).Info("毎日のTODOを作成しました")
	return &rec, nil
}

// GetByID retrieves a daily todo of the owner
func (r *DailyTodoRepository) GetByID(ctx context.Context, owner, id string) (*domain.DailyTodo, error) {
	query := `
		SELECT id, user_id, text, is_active, created_at
		FROM daily_todos WHERE id = $1 AND user_id = $2`

	var t domain.DailyTodo
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&t.ID, &t.UserID, &t.Text, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("毎日のTODOの取得に失敗")
		return nil, fmt.Errorf("failed to get daily todo: %w", err)
	}
	return &t, nil
}

// List retrieves the owner's daily todos in creation order
func (r *DailyTodoRepository) List(ctx context.Context, owner string) ([]domain.DailyTodo, error) {
	query := `
		SELECT id, user_id, text, is_active, created_at
		FROM daily_todos WHERE user_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("毎日のTODO一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list daily todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.DailyTodo{}
	for rows.Next() {
		var t domain.DailyTodo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update replaces text and the active flag
func (r *DailyTodoRepository) Update(ctx context.Context, owner string, t *domain.DailyTodo) (*domain.DailyTodo, error) {
	query := `
		UPDATE daily_todos SET text = $1, is_active = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, text, is_active, created_at`

	var out domain.DailyTodo
	err := r.db.QueryRowContext(ctx, query, t.Text, t.IsActive, t.ID, owner).
		Scan(&out.ID, &out.UserID, &out.Text, &out.IsActive, &out.CreatedAt)
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("毎日のTODOの更新に失敗")
		return nil, fmt.Errorf("failed to update daily todo: %w", err)
	}
	return &out, nil
}

// Delete removes a daily todo; its completions are left in place
func (r *DailyTodoRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM daily_todos WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("毎日のTODOの削除に失敗")
		return fmt.Errorf("failed to delete daily todo: %w", err)
	}
	return err
}

// MonthlyTodoRepository stores monthly todos in PostgreSQL
type MonthlyTodoRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewMonthlyTodoRepository creates a new monthly todo repository
func NewMonthlyTodoRepository(db *database.DB, logger *logrus.Logger) domain.MonthlyTodoRepository {
	return &MonthlyTodoRepository{db: db, logger: logger}
}

// Create inserts a monthly todo
func (r *MonthlyTodoRepository) Create(ctx context.Context, owner string, t *domain.MonthlyTodo) (*domain.MonthlyTodo, error) {
	rec := *t
	rec.ID = newID()
	rec.UserID = owner
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO monthly_todos (id, user_id, text, repeat_date, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, rec.ID, owner, rec.Text, rec.RepeatDate, rec.CreatedAt); err != nil {
		r.logger.WithError(err).Error("毎月のTODOの作成に失敗")
		return nil, fmt.Errorf("failed to create monthly todo: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"todo_id": rec.ID, "owner_id": owner, "repeat_date": rec.RepeatDate}).Info("毎月のTODOを作成しました")
	return &rec, nil
}

// GetByID retrieves a monthly todo of the owner
func (r *MonthlyTodoRepository) GetByID(ctx context.Context, owner, id string) (*domain.MonthlyTodo, error) {
	query := `
		SELECT id, user_id, text, repeat_date, created_at
		FROM monthly_todos WHERE id = $1 AND user_id = $2`

	var t domain.MonthlyTodo
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&t.ID, &t.UserID, &t.Text, &t.RepeatDate, &t.CreatedAt)
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("毎月のTODOの取得に失敗")
		return nil, fmt.Errorf("failed to get monthly todo: %w", err)
	}
	return &t, nil
}

// List retrieves the owner's monthly todos ordered by repeat day
func (r *MonthlyTodoRepository) List(ctx context.Context, owner string) ([]domain.MonthlyTodo, error) {
	query := `
		SELECT id, user_id, text, repeat_date, created_at
		FROM monthly_todos WHERE user_id = $1
		ORDER BY repeat_date, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("毎月のTODO一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list monthly todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.MonthlyTodo{}
	for rows.Next() {
		var t domain.MonthlyTodo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.RepeatDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan monthly todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update replaces text and repeat day
func (r *MonthlyTodoRepository) Update(ctx context.Context, owner string, t *domain.MonthlyTodo) (*domain.MonthlyTodo, error) {
	query := `
		UPDATE monthly_todos SET text = $1, repeat_date = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, text, repeat_date, created_at`

	var out domain.MonthlyTodo
	err := r.db.QueryRowContext(ctx, query, t.Text, t.RepeatDate, t.ID, owner).
		Scan(&out.ID, &out.UserID, &out.Text, &out.RepeatDate, &out.CreatedAt)
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("毎月のTODOの更新に失敗")
		return nil, fmt.Errorf("failed to update monthly todo: %w", err)
	}
	return &out, nil
}

// Delete removes a monthly todo
func (r *MonthlyTodoRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM monthly_todos WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("毎月のTODOの削除に失敗")
		return fmt.Errorf("failed to delete monthly todo: %w", err)
	}
	return err
}
