package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"diary-app/src/database"
	"diary-app/src/domain"

	"github.com/sirupsen/logrus"
)

func nullDate(d *domain.Date) sql.NullString {
	if d == nil || *d == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*d), Valid: true}
}

func datePtr(s sql.NullString) *domain.Date {
	if !s.Valid {
		return nil
	}
	d := domain.Date(s.String)
	return &d
}

// TaxRepository stores tax payments in PostgreSQL
type TaxRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewTaxRepository creates a new tax repository
func NewTaxRepository(db *database.DB, logger *logrus.Logger) domain.TaxRepository {
	return &TaxRepository{db: db, logger: logger}
}

const taxColumns = `id, user_id, tax_type, tax_amount, memo, is_paid, due_date, paid_date`

func scanTax(row interface{ Scan(...interface{}) error }) (*domain.Tax, error) {
	var t domain.Tax
	var due, paid sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.TaxType, &t.TaxAmount, &t.Memo, &t.IsPaid, &due, &paid); err != nil {
		return nil, err
	}
	t.DueDate = datePtr(due)
	t.PaidDate = datePtr(paid)
	return &t, nil
}

// Create inserts a tax record
func (r *TaxRepository) Create(ctx context.Context, owner string, t *domain.Tax) (*domain.Tax, error) {
	query := `
		INSERT INTO tax_management (` + taxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taxColumns

	out, err := scanTax(r.db.QueryRowContext(ctx, query,
		newID(), owner, t.TaxType, t.TaxAmount, t.Memo, t.IsPaid, nullDate(t.DueDate), nullDate(t.PaidDate)))
	if err != nil {
		r.logger.WithError(err).Error("税金記録の作成に失敗")
		return nil, fmt.Errorf("failed to create tax record: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"tax_id": out.ID, "owner_id": owner}).Info("税金記録を作成しました")
	return out, nil
}

// GetByID retrieves a tax record of the owner
func (r *TaxRepository) GetByID(ctx context.Context, owner, id string) (*domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM tax_management WHERE id = $1 AND user_id = $2`

	t, err := scanTax(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("税金記録の取得に失敗")
		return nil, fmt.Errorf("failed to get tax record: %w", err)
	}
	return t, nil
}

// List retrieves the owner's tax records, undated ones last
func (r *TaxRepository) List(ctx context.Context, owner string) ([]domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM tax_management WHERE user_id = $1
		ORDER BY due_date NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("税金記録一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list tax records: %w", err)
	}
	defer rows.Close()

	taxes := []domain.Tax{}
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax record: %w", err)
		}
		taxes = append(taxes, *t)
	}
	return taxes, rows.Err()
}

// Update replaces every mutable column
func (r *TaxRepository) Update(ctx context.Context, owner string, t *domain.Tax) (*domain.Tax, error) {
	query := `
		UPDATE tax_management
		SET tax_type = $1, tax_amount = $2, memo = $3, is_paid = $4, due_date = $5, paid_date = $6
		WHERE id = $7 AND user_id = $8
		RETURNING ` + taxColumns

	out, err := scanTax(r.db.QueryRowContext(ctx, query,
		t.TaxType, t.TaxAmount, t.Memo, t.IsPaid, nullDate(t.DueDate), nullDate(t.PaidDate), t.ID, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("税金記録の更新に失敗")
		return nil, fmt.Errorf("failed to update tax record: %w", err)
	}
	return out, nil
}

// Delete removes a tax record
func (r *TaxRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM tax_management WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("税金記録の削除に失敗")
		return fmt.Errorf("failed to delete tax record: %w", err)
	}
	return err
}

// ApprovalRepository stores client transactions in PostgreSQL
type ApprovalRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *database.DB, logger *logrus.Logger) domain.ApprovalRepository {
	return &ApprovalRepository{db: db, logger: logger}
}

const approvalColumns = `id, user_id, client_name, transaction_amount, memo, transaction_date, tax_invoice_issued`

func scanApproval(row interface{ Scan(...interface{}) error }) (*domain.Approval, error) {
	var a domain.Approval
	var date string
	if err := row.Scan(&a.ID, &a.UserID, &a.ClientName, &a.TransactionAmount, &a.Memo, &date, &a.TaxInvoiceIssued); err != nil {
		return nil, err
	}
	a.TransactionDate = domain.Date(date)
	return &a, nil
}

// Create inserts an approval record
func (r *ApprovalRepository) Create(ctx context.Context, owner string, a *domain.Approval) (*domain.Approval, error) {
	query := `
		INSERT INTO approval_management (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + approvalColumns

	out, err := scanApproval(r.db.QueryRowContext(ctx, query,
		newID(), owner, a.ClientName, a.TransactionAmount, a.Memo, string(a.TransactionDate), a.TaxInvoiceIssued))
	if err != nil {
		r.logger.WithError(err).Error("取引記録の作成に失敗")
		return nil, fmt.Errorf("failed to create approval record: %w", err)
	}

	r.logger.WithFields(logrus.Fields{"approval_id": out.ID, "owner_id": owner}).Info("取引記録を作成しました")
	return out, nil
}

// GetByID retrieves an approval record of the owner
func (r *ApprovalRepository) GetByID(ctx context.Context, owner, id string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_management WHERE id = $1 AND user_id = $2`

	a, err := scanApproval(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("取引記録の取得に失敗")
		return nil, fmt.Errorf("failed to get approval record: %w", err)
	}
	return a, nil
}

// List retrieves the owner's approval records, newest transaction first
func (r *ApprovalRepository) List(ctx context.Context, owner string) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_management WHERE user_id = $1
		ORDER BY transaction_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.WithError(err).Error("取引記録一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list approval records: %w", err)
	}
	defer rows.Close()

	approvals := []domain.Approval{}
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval record: %w", err)
		}
		approvals = append(approvals, *a)
	}
	return approvals, rows.Err()
}

// Update replaces every mutable column
func (r *ApprovalRepository) Update(ctx context.Context, owner string, a *domain.Approval) (*domain.Approval, error) {
	query := `
		UPDATE approval_management
		SET client_name = $1, transaction_amount = $2, memo = $3, transaction_date = $4, tax_invoice_issued = $5
		WHERE id = $6 AND user_id = $7
		RETURNING ` + approvalColumns

	out, err := scanApproval(r.db.QueryRowContext(ctx, query,
		a.ClientName, a.TransactionAmount, a.Memo, string(a.TransactionDate), a.TaxInvoiceIssued, a.ID, owner))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		r.logger.WithError(err).Error("取引記録の更新に失敗")
		return nil, fmt.Errorf("failed to update approval record: %w", err)
	}
	return out, nil
}

// Delete removes an approval record
func (r *ApprovalRepository) Delete(ctx context.Context, owner, id string) error {
	err := execOne(ctx, r.db, `DELETE FROM approval_management WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		r.logger.WithError(err).Error("取引記録の削除に失敗")
		return fmt.Errorf("failed to delete approval record: %w", err)
	}
	return err
}

// NewStore wires every PostgreSQL repository
func NewStore(db *database.DB, logger *logrus.Logger) *domain.Store {
	return &domain.Store{
		DailyTodos:        NewDailyTodoRepository(db, logger),
		MonthlyTodos:      NewMonthlyTodoRepository(db, logger),
		DeadlineTasks:     NewDeadlineTaskRepository(db, logger),
		SpecificSchedules: NewSpecificScheduleRepository(db, logger),
		Completions:       NewCompletionRepository(db, logger),
		Memos:             NewMemoRepository(db, logger),
		Taxes:             NewTaxRepository(db, logger),
		Approvals:         NewApprovalRepository(db, logger),
	}
}
