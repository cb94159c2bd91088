package usecase

import (
	"errors"

	"diary-app/src/domain"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidText       = errors.New("text is required and must be at most 500 characters")
	ErrInvalidContent    = errors.New("memo content must be at most 10000 characters")
	ErrInvalidDate       = errors.New("date must be a valid YYYY-MM-DD calendar date")
	ErrInvalidDateRange  = errors.New("created date must not be after the deadline date")
	ErrInvalidRepeatDate = errors.New("repeat date must be between 1 and 31")
	ErrInvalidItemType   = errors.New("item type must be daily_todo, monthly_todo, deadline_task or specific_schedule")
	ErrInvalidAmount     = errors.New("amount must be zero or greater")
	ErrInvalidYear       = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidReportKind = errors.New("report kind must be tax, approval or combined")
	ErrNotApplicable     = errors.New("item does not apply to the given date")
	ErrNoReportData      = errors.New("no records for the requested year")
)

// translate maps store-level errors onto the usecase sentinels
func translate(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
