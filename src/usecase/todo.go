package usecase

import (
	"context"

	"diary-app/src/domain"
	"diary-app/src/feed"
)

// UpdateDailyTodoRequest represents a partial update; nil fields are kept
type UpdateDailyTodoRequest struct {
	Text     *string
	IsActive *bool
}

// UpdateMonthlyTodoRequest represents a partial update
type UpdateMonthlyTodoRequest struct {
	Text       *string
	RepeatDate *int
}

// CreateDeadlineTaskRequest represents input for a deadline task.
// An empty CreatedDate means today.
type CreateDeadlineTaskRequest struct {
	Text         string
	CreatedDate  string
	DeadlineDate string
}

// UpdateDeadlineTaskRequest represents a partial update
type UpdateDeadlineTaskRequest struct {
	Text         *string
	CreatedDate  *string
	DeadlineDate *string
}

// UpdateScheduleRequest represents a partial update
type UpdateScheduleRequest struct {
	Text         *string
	ScheduleDate *string
}

// TodoUsecase manages the four kinds of calendar items
type TodoUsecase interface {
	ListDailyTodos(ctx context.Context, owner string) ([]domain.DailyTodo, error)
	CreateDailyTodo(ctx context.Context, owner, text string) (*domain.DailyTodo, error)
	UpdateDailyTodo(ctx context.Context, owner, id string, req UpdateDailyTodoRequest) (*domain.DailyTodo, error)
	DeleteDailyTodo(ctx context.Context, owner, id string) error

	ListMonthlyTodos(ctx context.Context, owner string) ([]domain.MonthlyTodo, error)
	CreateMonthlyTodo(ctx context.Context, owner, text string, repeatDate int) (*domain.MonthlyTodo, error)
	UpdateMonthlyTodo(ctx context.Context, owner, id string, req UpdateMonthlyTodoRequest) (*domain.MonthlyTodo, error)
	DeleteMonthlyTodo(ctx context.Context, owner, id string) error

	ListDeadlineTasks(ctx context.Context, owner string) ([]domain.DeadlineTask, error)
	CreateDeadlineTask(ctx context.Context, owner string, req CreateDeadlineTaskRequest) (*domain.DeadlineTask, error)
	UpdateDeadlineTask(ctx context.Context, owner, id string, req UpdateDeadlineTaskRequest) (*domain.DeadlineTask, error)
	DeleteDeadlineTask(ctx context.Context, owner, id string) error

	ListSchedules(ctx context.Context, owner string) ([]domain.SpecificSchedule, error)
	CreateSchedule(ctx context.Context, owner, text, date string) (*domain.SpecificSchedule, error)
	UpdateSchedule(ctx context.Context, owner, id string, req UpdateScheduleRequest) (*domain.SpecificSchedule, error)
	DeleteSchedule(ctx context.Context, owner, id string) error
}

type todoUsecase struct {
	store *domain.Store
	pub   feed.Publisher
	clock Clock
}

// NewTodoUsecase creates a new todo usecase
func NewTodoUsecase(store *domain.Store, pub feed.Publisher, clock Clock) TodoUsecase {
	return &todoUsecase{store: store, pub: pub, clock: clock}
}

func validRepeatDate(d int) bool {
	return d >= 1 && d <= 31
}

// --- daily ---

func (u *todoUsecase) ListDailyTodos(ctx context.Context, owner string) ([]domain.DailyTodo, error) {
	return u.store.DailyTodos.List(ctx, owner)
}

func (u *todoUsecase) CreateDailyTodo(ctx context.Context, owner, text string) (*domain.DailyTodo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}
	created, err := u.store.DailyTodos.Create(ctx, owner, &domain.DailyTodo{Text: text, IsActive: true})
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableDailyTodos, owner, created)
	return created, nil
}

func (u *todoUsecase) UpdateDailyTodo(ctx context.Context, owner, id string, req UpdateDailyTodoRequest) (*domain.DailyTodo, error) {
	existing, err := u.store.DailyTodos.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if req.Text != nil {
		if existing.Text, err = normalizeText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	updated, err := u.store.DailyTodos.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableDailyTodos, owner, updated)
	return updated, nil
}

func (u *todoUsecase) DeleteDailyTodo(ctx context.Context, owner, id string) error {
	existing, err := u.store.DailyTodos.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.store.DailyTodos.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableDailyTodos, owner, existing)
	return nil
}

// --- monthly ---

func (u *todoUsecase) ListMonthlyTodos(ctx context.Context, owner string) ([]domain.MonthlyTodo, error) {
	return u.store.MonthlyTodos.List(ctx, owner)
}

func (u *todoUsecase) CreateMonthlyTodo(ctx context.Context, owner, text string, repeatDate int) (*domain.MonthlyTodo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}
	if !validRepeatDate(repeatDate) {
		return nil, ErrInvalidRepeatDate
	}
	created, err := u.store.MonthlyTodos.Create(ctx, owner, &domain.MonthlyTodo{Text: text, RepeatDate: repeatDate})
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableMonthlyTodos, owner, created)
	return created, nil
}

func (u *todoUsecase) UpdateMonthlyTodo(ctx context.Context, owner, id string, req UpdateMonthlyTodoRequest) (*domain.MonthlyTodo, error) {
	existing, err := u.store.MonthlyTodos.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if req.Text != nil {
		if existing.Text, err = normalizeText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.RepeatDate != nil {
		if !validRepeatDate(*req.RepeatDate) {
			return nil, ErrInvalidRepeatDate
		}
		existing.RepeatDate = *req.RepeatDate
	}
	updated, err := u.store.MonthlyTodos.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableMonthlyTodos, owner, updated)
	return updated, nil
}

func (u *todoUsecase) DeleteMonthlyTodo(ctx context.Context, owner, id string) error {
	existing, err := u.store.MonthlyTodos.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.store.MonthlyTodos.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableMonthlyTodos, owner, existing)
	return nil
}

// --- deadline ---

func (u *todoUsecase) ListDeadlineTasks(ctx context.Context, owner string) ([]domain.DeadlineTask, error) {
	return u.store.DeadlineTasks.List(ctx, owner)
}

func (u *todoUsecase) CreateDeadlineTask(ctx context.Context, owner string, req CreateDeadlineTaskRequest) (*domain.DeadlineTask, error) {
	text, err := normalizeText(req.Text)
	if err != nil {
		return nil, err
	}
	created := u.clock.Today()
	if req.CreatedDate != "" {
		if created, err = parseDate(req.CreatedDate); err != nil {
			return nil, err
		}
	}
	deadline, err := parseDate(req.DeadlineDate)
	if err != nil {
		return nil, err
	}
	if deadline.Before(created) {
		return nil, ErrInvalidDateRange
	}

	task, err := u.store.DeadlineTasks.Create(ctx, owner, &domain.DeadlineTask{
		Text:         text,
		CreatedDate:  created,
		DeadlineDate: deadline,
	})
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableDeadlineTasks, owner, task)
	return task, nil
}

func (u *todoUsecase) UpdateDeadlineTask(ctx context.Context, owner, id string, req UpdateDeadlineTaskRequest) (*domain.DeadlineTask, error) {
	existing, err := u.store.DeadlineTasks.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if req.Text != nil {
		if existing.Text, err = normalizeText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.CreatedDate != nil {
		if existing.CreatedDate, err = parseDate(*req.CreatedDate); err != nil {
			return nil, err
		}
	}
	if req.DeadlineDate != nil {
		if existing.DeadlineDate, err = parseDate(*req.DeadlineDate); err != nil {
			return nil, err
		}
	}
	if existing.DeadlineDate.Before(existing.CreatedDate) {
		return nil, ErrInvalidDateRange
	}
	updated, err := u.store.DeadlineTasks.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableDeadlineTasks, owner, updated)
	return updated, nil
}

func (u *todoUsecase) DeleteDeadlineTask(ctx context.Context, owner, id string) error {
	existing, err := u.store.DeadlineTasks.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.store.DeadlineTasks.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableDeadlineTasks, owner, existing)
	return nil
}

// --- specific schedules ---

func (u *todoUsecase) ListSchedules(ctx context.Context, owner string) ([]domain.SpecificSchedule, error) {
	return u.store.SpecificSchedules.List(ctx, owner)
}

func (u *todoUsecase) CreateSchedule(ctx context.Context, owner, text, date string) (*domain.SpecificSchedule, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	created, err := u.store.SpecificSchedules.Create(ctx, owner, &domain.SpecificSchedule{Text: text, ScheduleDate: d})
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableSpecificSchedules, owner, created)
	return created, nil
}

func (u *todoUsecase) UpdateSchedule(ctx context.Context, owner, id string, req UpdateScheduleRequest) (*domain.SpecificSchedule, error) {
	existing, err := u.store.SpecificSchedules.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if req.Text != nil {
		if existing.Text, err = normalizeText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.ScheduleDate != nil {
		if existing.ScheduleDate, err = parseDate(*req.ScheduleDate); err != nil {
			return nil, err
		}
	}
	updated, err := u.store.SpecificSchedules.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableSpecificSchedules, owner, updated)
	return updated, nil
}

func (u *todoUsecase) DeleteSchedule(ctx context.Context, owner, id string) error {
	existing, err := u.store.SpecificSchedules.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.store.SpecificSchedules.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableSpecificSchedules, owner, existing)
	return nil
}
