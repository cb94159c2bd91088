package handler

import (
	"diary-app/src/validator"
)

// CreateDailyTodoRequestDTO represents HTTP request for creating a daily todo
type CreateDailyTodoRequestDTO struct {
	Text string `json:"text" validate:"required,max=500,safe_text"`
}

// UpdateDailyTodoRequestDTO represents HTTP request for updating a daily todo
type UpdateDailyTodoRequestDTO struct {
	Text     *string `json:"text,omitempty" validate:"omitempty,max=500,safe_text"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateMonthlyTodoRequestDTO represents HTTP request for creating a monthly todo
type CreateMonthlyTodoRequestDTO struct {
	Text       string `json:"text" validate:"required,max=500,safe_text"`
	RepeatDate int    `json:"repeat_date" validate:"required,min=1,max=31"`
}

// UpdateMonthlyTodoRequestDTO represents HTTP request for updating a monthly todo
type UpdateMonthlyTodoRequestDTO struct {
	Text       *string `json:"text,omitempty" validate:"omitempty,max=500,safe_text"`
	RepeatDate *int    `json:"repeat_date,omitempty" validate:"omitempty,min=1,max=31"`
}

// CreateDeadlineTaskRequestDTO represents HTTP request for creating a deadline task
type CreateDeadlineTaskRequestDTO struct {
	Text         string `json:"text" validate:"required,max=500,safe_text"`
	CreatedDate  string `json:"created_date" validate:"omitempty,calendar_date"`
	DeadlineDate string `json:"deadline_date" validate:"required,calendar_date"`
}

// UpdateDeadlineTaskRequestDTO represents HTTP request for updating a deadline task
type UpdateDeadlineTaskRequestDTO struct {
	Text         *string `json:"text,omitempty" validate:"omitempty,max=500,safe_text"`
	CreatedDate  *string `json:"created_date,omitempty" validate:"omitempty,calendar_date"`
	DeadlineDate *string `json:"deadline_date,omitempty" validate:"omitempty,calendar_date"`
}

// CreateScheduleRequestDTO represents HTTP request for creating a specific schedule
type CreateScheduleRequestDTO struct {
	Text         string `json:"text" validate:"required,max=500,safe_text"`
	ScheduleDate string `json:"schedule_date" validate:"required,calendar_date"`
}

// UpdateScheduleRequestDTO represents HTTP request for updating a specific schedule
type UpdateScheduleRequestDTO struct {
	Text         *string `json:"text,omitempty" validate:"omitempty,max=500,safe_text"`
	ScheduleDate *string `json:"schedule_date,omitempty" validate:"omitempty,calendar_date"`
}

// ToggleCompletionRequestDTO represents HTTP request for toggling a completion
type ToggleCompletionRequestDTO struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	ItemType string `json:"item_type" validate:"required,item_type"`
	Date     string `json:"date" validate:"omitempty,calendar_date"`
}

// SaveMemoRequestDTO represents HTTP request for saving the memo of a day
type SaveMemoRequestDTO struct {
	Content string `json:"content" validate:"max=10000"`
}

// TaxRequestDTO represents HTTP request for creating or replacing a tax record
type TaxRequestDTO struct {
	TaxType   string  `json:"tax_type" validate:"required,max=100,safe_text"`
	TaxAmount float64 `json:"tax_amount" validate:"gte=0"`
	Memo      string  `json:"memo" validate:"max=1000,safe_text"`
	IsPaid    bool    `json:"is_paid"`
	DueDate   string  `json:"due_date" validate:"omitempty,calendar_date"`
}

// ApprovalRequestDTO represents HTTP request for creating or replacing an approval record
type ApprovalRequestDTO struct {
	ClientName        string  `json:"client_name" validate:"required,max=200,safe_text"`
	TransactionAmount float64 `json:"transaction_amount" validate:"gte=0"`
	Memo              string  `json:"memo" validate:"max=1000,safe_text"`
	TransactionDate   string  `json:"transaction_date" validate:"omitempty,calendar_date"`
	TaxInvoiceIssued  bool    `json:"tax_invoice_issued"`
}

// YearQueryDTO represents the optional ?year= filter
type YearQueryDTO struct {
	Year int `form:"year" validate:"omitempty,min=1,max=9999"`
}

// MonthQueryDTO represents the ?year=&month= filter of the memo list
type MonthQueryDTO struct {
	Year  int `form:"year" validate:"required,min=1,max=9999"`
	Month int `form:"month" validate:"required,min=1,max=12"`
}

// DateQueryDTO represents the optional ?date= parameter; empty means today
type DateQueryDTO struct {
	Date string `form:"date" validate:"omitempty,calendar_date"`
}

// WeatherQueryDTO represents the optional coordinates of the weather lookup
type WeatherQueryDTO struct {
	Lat *float64 `form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `form:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// ListResponseDTO wraps list results
type ListResponseDTO[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ErrorResponseDTO represents HTTP error response
type ErrorResponseDTO struct {
	Error   string                      `json:"error"`
	Message string                      `json:"message,omitempty"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

func listResponse[T any](items []T) ListResponseDTO[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponseDTO[T]{Items: items, Total: len(items)}
}
