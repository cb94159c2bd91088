package gormstore

import (
	"context"
	"errors"
	"time"

	"diary-app/src/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewStore wires every SQLite repository
func NewStore(db *gorm.DB, logger *logrus.Logger) *domain.Store {
	return &domain.Store{
		DailyTodos: &table[domain.DailyTodo]{
			db: db, logger: logger, name: domain.TableDailyTodos, order: "created_at, id",
			stamp: func(r *domain.DailyTodo, id, owner string, now time.Time) {
				r.ID, r.UserID, r.CreatedAt = id, owner, now
			},
			key: func(r *domain.DailyTodo) string { return r.ID },
		},
		MonthlyTodos: &table[domain.MonthlyTodo]{
			db: db, logger: logger, name: domain.TableMonthlyTodos, order: "repeat_date, created_at, id",
			stamp: func(r *domain.MonthlyTodo, id, owner string, now time.Time) {
				r.ID, r.UserID, r.CreatedAt = id, owner, now
			},
			key: func(r *domain.MonthlyTodo) string { return r.ID },
		},
		DeadlineTasks: &table[domain.DeadlineTask]{
			db: db, logger: logger, name: domain.TableDeadlineTasks, order: "deadline_date, created_at, id",
			stamp: func(r *domain.DeadlineTask, id, owner string, now time.Time) {
				r.ID, r.UserID, r.CreatedAt = id, owner, now
			},
			key: func(r *domain.DeadlineTask) string { return r.ID },
		},
		SpecificSchedules: &table[domain.SpecificSchedule]{
			db: db, logger: logger, name: domain.TableSpecificSchedules, order: "schedule_date, created_at, id",
			stamp: func(r *domain.SpecificSchedule, id, owner string, now time.Time) {
				r.ID, r.UserID, r.CreatedAt = id, owner, now
			},
			key: func(r *domain.SpecificSchedule) string { return r.ID },
		},
		Taxes: &table[domain.Tax]{
			db: db, logger: logger, name: domain.TableTaxes, order: "due_date IS NULL, due_date, id",
			stamp: func(r *domain.Tax, id, owner string, _ time.Time) {
				r.ID, r.UserID = id, owner
			},
			key: func(r *domain.Tax) string { return r.ID },
		},
		Approvals: &table[domain.Approval]{
			db: db, logger: logger, name: domain.TableApprovals, order: "transaction_date DESC, id",
			stamp: func(r *domain.Approval, id, owner string, _ time.Time) {
				r.ID, r.UserID = id, owner
			},
			key: func(r *domain.Approval) string { return r.ID },
		},
		Completions: &CompletionRepository{db: db, logger: logger},
		Memos:       &MemoRepository{db: db, logger: logger},
	}
}

// CompletionRepository implements domain.CompletionRepository on SQLite
type CompletionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func (r *CompletionRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(domain.TableCompletions)
}

func (r *CompletionRepository) List(ctx context.Context, owner string) ([]domain.Completion, error) {
	out := []domain.Completion{}
	if err := r.scoped(ctx).Where("user_id = ?", owner).Order("completion_date, id").Find(&out).Error; err != nil {
		return nil, failed(r.logger, "list", domain.TableCompletions, err)
	}
	return out, nil
}

func (r *CompletionRepository) ListByItem(ctx context.Context, owner, itemID string, itemType domain.ItemType) ([]domain.Completion, error) {
	out := []domain.Completion{}
	err := r.scoped(ctx).
		Where("user_id = ? AND item_id = ? AND item_type = ?", owner, itemID, string(itemType)).
		Order("completion_date").
		Find(&out).Error
	if err != nil {
		return nil, failed(r.logger, "list by item", domain.TableCompletions, err)
	}
	return out, nil
}

// Upsert inserts the row unless the natural key already exists, then returns the stored row
func (r *CompletionRepository) Upsert(ctx context.Context, owner string, c *domain.Completion) (*domain.Completion, error) {
	rec := domain.Completion{
		ID:             uuid.New().String(),
		UserID:         owner,
		ItemID:         c.ItemID,
		ItemType:       c.ItemType,
		CompletionDate: c.CompletionDate,
	}
	err := r.scoped(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "item_type"}, {Name: "completion_date"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		return nil, failed(r.logger, "upsert", domain.TableCompletions, err)
	}

	var out domain.Completion
	err = r.scoped(ctx).
		Where("item_id = ? AND item_type = ? AND completion_date = ?", c.ItemID, string(c.ItemType), string(c.CompletionDate)).
		First(&out).Error
	if err != nil {
		return nil, failed(r.logger, "reload", domain.TableCompletions, err)
	}
	return &out, nil
}

func (r *CompletionRepository) Delete(ctx context.Context, owner, id string) error {
	res := r.scoped(ctx).Where("user_id = ? AND id = ?", owner, id).Delete(&domain.Completion{})
	if res.Error != nil {
		return failed(r.logger, "delete", domain.TableCompletions, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// MemoRepository implements domain.MemoRepository on SQLite
type MemoRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func (r *MemoRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(domain.TableDailyMemos)
}

// Upsert keeps exactly one row per (owner, memo_date)
func (r *MemoRepository) Upsert(ctx context.Context, owner string, m *domain.Memo) (*domain.Memo, error) {
	rec := domain.Memo{
		ID:        uuid.New().String(),
		UserID:    owner,
		MemoDate:  m.MemoDate,
		Content:   m.Content,
		UpdatedAt: time.Now(),
	}
	err := r.scoped(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "memo_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return nil, failed(r.logger, "upsert", domain.TableDailyMemos, err)
	}
	return r.GetByDate(ctx, owner, m.MemoDate)
}

func (r *MemoRepository) GetByDate(ctx context.Context, owner string, date domain.Date) (*domain.Memo, error) {
	var out domain.Memo
	err := r.scoped(ctx).Where("user_id = ? AND memo_date = ?", owner, string(date)).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, failed(r.logger, "get", domain.TableDailyMemos, err)
	}
	return &out, nil
}

func (r *MemoRepository) ListRange(ctx context.Context, owner string, from, to domain.Date) ([]domain.Memo, error) {
	out := []domain.Memo{}
	err := r.scoped(ctx).
		Where("user_id = ? AND memo_date >= ? AND memo_date <= ?", owner, string(from), string(to)).
		Order("memo_date").
		Find(&out).Error
	if err != nil {
		return nil, failed(r.logger, "list", domain.TableDailyMemos, err)
	}
	return out, nil
}

func (r *MemoRepository) Delete(ctx context.Context, owner, id string) error {
	res := r.scoped(ctx).Where("user_id = ? AND id = ?", owner, id).Delete(&domain.Memo{})
	if res.Error != nil {
		return failed(r.logger, "delete", domain.TableDailyMemos, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
