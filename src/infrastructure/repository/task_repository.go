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

// DeadlineTaskRepository stores deadline tasks in PostgreSQL
type DeadlineTaskRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewDeadlineTaskRepository creates a new deadline task repository
func NewDeadlineTaskRepository(db *database.DB, logger *logrus.Logger) domain.DeadlineTaskRepository {
	return &DeadlineTaskRepository{db: db, logger: logger}
}

const deadlineTaskColumns = `id, user_id, text, created_date, deadline_date, created_at`

// Create inserts a deadline task
func (r *DeadlineTaskRepository) Create(ctx context.Context, owner string, t *domain.DeadlineTask) (*domain.DeadlineTask, error) {
	rec := *t
	rec.ID = newID()
	rec.UserID = owner
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO deadline_tasks (` + deadlineTaskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, owner, rec.Text, string(rec.CreatedDate), string(rec.DeadlineDate), rec.CreatedAt)
	if err != nil {
		r.logger.WithError(err).Error("期限付きタスクの作成に失敗")
		return nil, fmt.Errorf("failed to create deadline task: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"task_id":  rec.ID,
		"owner_id": owner,
		"deadline": rec.DeadlineDate,
	}).Info("期限付きタスクを作成しました")
	return &rec, nil
}

func scanDeadlineTask(row interface{ Scan(...interface{}) error }) (*domain.DeadlineTask, error) {
	var t domain.DeadlineTask
	var created, deadline string
	if err := row.Scan(&t.ID, &t.UserID, &t.Text, &created, &deadline, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedDate = domain.Date(created)
	t.DeadlineDate = domain.Date(deadline)
	return &t, nil
}

// GetByID retrieves a deadline task of the owner
func (r *DeadlineTaskRepository) GetByID(ctx context.Context, owner, id string) (*domain.DeadlineTask, error) {
	query := `SELECT ` + deadlineTaskColumns + ` FROM deadline_tasks WHERE id = $1 AND user_id = $2`

	t, err := scanDeadlineTask(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("期限付きタスクの取得に失敗")
		return nil, fmt.Errorf("failed to get deadline task: %w", err)
	}
	return t, nil
}

// List retrieves the owner's deadline tasks ordered by deadline
func (r *DeadlineTaskRepository) List(ctx context.Context, owner string) ([]domain.DeadlineTask, error) {
	query := `SELECT ` + deadlineTaskColumns + ` FROM deadline_tasks WHERE user_id = $1
		ORDER BY deadline_date, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("期限付きタスク一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list deadline tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.DeadlineTask{}
	for rows.Next() {
		t, err := scanDeadlineTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deadline task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update replaces text and the date window
func (r *DeadlineTaskRepository) Update(ctx context.Context, owner string, t *domain.DeadlineTask) (*domain.DeadlineTask, error) {
	query := `
		UPDATE deadline_tasks SET text = $1, created_date = $2, deadline_date = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + deadlineTaskColumns

	out, err := scanDeadlineTask(r.db.QueryRowContext(ctx, query,
		t.Text, string(t.CreatedDate), string(t.DeadlineDate), t.ID, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("期限付きタスクの更新に失敗")
		return nil, fmt.Errorf("failed to update deadline task: %w", err)
	}
	return out, nil
}

// Delete removes a deadline task
func (r *DeadlineTaskRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM deadline_tasks WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("期限付きタスクの削除に失敗")
		return fmt.Errorf("failed to delete deadline task: %w", err)
	}
	return err
}

// SpecificScheduleRepository stores one-off schedules in PostgreSQL
type SpecificScheduleRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewSpecificScheduleRepository creates a new schedule repository
func NewSpecificScheduleRepository(db *database.DB, logger *logrus.Logger) domain.SpecificScheduleRepository {
	return &SpecificScheduleRepository{db: db, logger: logger}
}

const scheduleColumns = `id, user_id, text, schedule_date, created_at`

func scanSchedule(row interface{ Scan(...interface{}) error }) (*domain.SpecificSchedule, error) {
	var s domain.SpecificSchedule
	var date string
	if err := row.Scan(&s.ID, &s.UserID, &s.Text, &date, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.ScheduleDate = domain.Date(date)
	return &s, nil
}

// Create inserts a schedule
func (r *SpecificScheduleRepository) Create(ctx context.Context, owner string, s *domain.SpecificSchedule) (*domain.SpecificSchedule, error) {
	rec := *s
	rec.ID = newID()
	rec.UserID = owner
	rec.CreatedAt = time.Now()

	query := `INSERT INTO specific_schedules (` + scheduleColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, owner, rec.Text, string(rec.ScheduleDate), rec.CreatedAt); err != nil {
		r.logger.WithError(err).Error("予定の作成に失敗")
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"schedule_id": rec.ID, "owner_id": owner}).Info("予定を作成しました")
	return &rec, nil
}

// GetByID retrieves a schedule of the owner
func (r *SpecificScheduleRepository) GetByID(ctx context.Context, owner, id string) (*domain.SpecificSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM specific_schedules WHERE id = $1 AND user_id = $2`

	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("予定の取得に失敗")
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// List retrieves the owner's schedules ordered by schedule date
func (r *SpecificScheduleRepository) List(ctx context.Context, owner string) ([]domain.SpecificSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM specific_schedules WHERE user_id = $1
		ORDER BY schedule_date, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("予定一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []domain.SpecificSchedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// Update replaces text and date
func (r *SpecificScheduleRepository) Update(ctx context.Context, owner string, s *domain.SpecificSchedule) (*domain.SpecificSchedule, error) {
	query := `
		UPDATE specific_schedules SET text = $1, schedule_date = $2
		WHERE id = $3 AND user_id = $4
		RETURNING ` + scheduleColumns

	out, err := scanSchedule(r.db.QueryRowContext(ctx, query, s.Text, string(s.ScheduleDate), s.ID, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("予定の更新に失敗")
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return out, nil
}

// Delete removes a schedule
func (r *SpecificScheduleRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM specific_schedules WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("予定の削除に失敗")
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return err
}
