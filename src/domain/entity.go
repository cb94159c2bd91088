package domain

import (
	"time"
)

// ItemType identifies which table a completion refers to
type ItemType string

const (
	ItemTypeDaily    ItemType = "daily_todo"
	ItemTypeMonthly  ItemType = "monthly_todo"
	ItemTypeDeadline ItemType = "deadline_task"
	ItemTypeSpecific ItemType = "specific_schedule"
)

// Category is the label the calendar shows next to an item
type Category string

const (
	CategoryDaily    Category = "daily"
	CategoryMonthly  Category = "monthly"
	CategoryDeadline Category = "deadline"
	CategorySpecific Category = "specific"
)

// Table names, shared by the record stores and the change feed
const (
	TableDailyTodos        = "daily_todos"
	TableMonthlyTodos      = "monthly_todos"
	TableDeadlineTasks     = "deadline_tasks"
	TableSpecificSchedules = "specific_schedules"
	TableCompletions       = "completions"
	TableDailyMemos        = "daily_memos"
	TableTaxes             = "tax_management"
	TableApprovals         = "approval_management"
)

// Tables lists every table a client may subscribe to
var Tables = []string{
	TableDailyTodos,
	TableMonthlyTodos,
	TableDeadlineTasks,
	TableSpecificSchedules,
	TableCompletions,
	TableDailyMemos,
	TableTaxes,
	TableApprovals,
}

// DailyTodo applies to every date
type DailyTodo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// MonthlyTodo applies to dates whose day of month equals RepeatDate
type MonthlyTodo struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	RepeatDate int       `json:"repeat_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeadlineTask applies to every date in [CreatedDate, DeadlineDate]
type DeadlineTask struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Text         string    `json:"text"`
	CreatedDate  Date      `json:"created_date"`
	DeadlineDate Date      `json:"deadline_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// SpecificSchedule applies only to ScheduleDate
type SpecificSchedule struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Text         string    `json:"text"`
	ScheduleDate Date      `json:"schedule_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Completion records that an item was marked done on a date.
// (ItemID, ItemType, CompletionDate) is unique.
type Completion struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	ItemID         string   `json:"item_id"`
	ItemType       ItemType `json:"item_type"`
	CompletionDate Date     `json:"completion_date"`
}

// Memo is the single note of a day; (UserID, MemoDate) is unique
type Memo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MemoDate  Date      `json:"memo_date"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tax is one tax payment to track
type Tax struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	TaxType   string  `json:"tax_type"`
	TaxAmount float64 `json:"tax_amount"`
	Memo      string  `json:"memo"`
	IsPaid    bool    `json:"is_paid"`
	DueDate   *Date   `json:"due_date"`
	PaidDate  *Date   `json:"paid_date"`
}

// Approval is one client transaction to track
type Approval struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	ClientName        string  `json:"client_name"`
	TransactionAmount float64 `json:"transaction_amount"`
	Memo              string  `json:"memo"`
	TransactionDate   Date    `json:"transaction_date"`
	TaxInvoiceIssued  bool    `json:"tax_invoice_issued"`
}

// IsValid validates the item type
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeDaily, ItemTypeMonthly, ItemTypeDeadline, ItemTypeSpecific:
		return true
	default:
		return false
	}
}

// Category returns the calendar category of an item type
func (t ItemType) Category() Category {
	switch t {
	case ItemTypeDaily:
		return CategoryDaily
	case ItemTypeMonthly:
		return CategoryMonthly
	case ItemTypeDeadline:
		return CategoryDeadline
	case ItemTypeSpecific:
		return CategorySpecific
	default:
		return ""
	}
}

// String returns string representation of ItemType
func (t ItemType) String() string {
	return string(t)
}

// IsTable reports whether name is a known table
func IsTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
