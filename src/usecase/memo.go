package usecase

import (
	"context"
	"time"
	"unicode/utf8"

	"diary-app/src/domain"
	"diary-app/src/feed"
)

const maxMemoLength = 10000

// MemoUsecase defines the interface for daily memo business logic
type MemoUsecase interface {
	SaveMemo(ctx context.Context, owner, date, content string) (*domain.Memo, error)
	GetMemo(ctx context.Context, owner, date string) (*domain.Memo, error)
	ListMemos(ctx context.Context, owner string, year, month int) ([]domain.Memo, error)
	DeleteMemo(ctx context.Context, owner, date string) error
}

type memoUsecase struct {
	memoRepo domain.MemoRepository
	pub      feed.Publisher
}

// NewMemoUsecase creates a new memo usecase
func NewMemoUsecase(memoRepo domain.MemoRepository, pub feed.Publisher) MemoUsecase {
	return &memoUsecase{
		memoRepo: memoRepo,
		pub:      pub,
	}
}

// SaveMemo writes the memo of a day; repeated saves replace the content
func (u *memoUsecase) SaveMemo(ctx context.Context, owner, date, content string) (*domain.Memo, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(content) > maxMemoLength {
		return nil, ErrInvalidContent
	}

	// 既存かどうかでイベント種別を決める
	typ := feed.EventInsert
	if _, err := u.memoRepo.GetByDate(ctx, owner, d); err == nil {
		typ = feed.EventUpdate
	}

	saved, err := u.memoRepo.Upsert(ctx, owner, &domain.Memo{MemoDate: d, Content: content})
	if err != nil {
		return nil, err
	}
	emit(u.pub, typ, domain.TableDailyMemos, owner, saved)
	return saved, nil
}

// GetMemo retrieves the memo of a day
func (u *memoUsecase) GetMemo(ctx context.Context, owner, date string) (*domain.Memo, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	memo, err := u.memoRepo.GetByDate(ctx, owner, d)
	if err != nil {
		return nil, translate(err)
	}
	return memo, nil
}

// ListMemos retrieves the memos of one month
func (u *memoUsecase) ListMemos(ctx context.Context, owner string, year, month int) ([]domain.Memo, error) {
	if year < 1 || year > 9999 {
		return nil, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	m := time.Month(month)
	from := domain.NewDate(year, m, 1)
	to := domain.NewDate(year, m, domain.DaysInMonth(year, m))
	return u.memoRepo.ListRange(ctx, owner, from, to)
}

// DeleteMemo removes the memo of a day
func (u *memoUsecase) DeleteMemo(ctx context.Context, owner, date string) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}
	memo, err := u.memoRepo.GetByDate(ctx, owner, d)
	if err != nil {
		return translate(err)
	}
	if err := u.memoRepo.Delete(ctx, owner, memo.ID); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableDailyMemos, owner, memo)
	return nil
}
