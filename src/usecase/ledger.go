package usecase

import (
	"context"
	"strings"

	"diary-app/src/domain"
	"diary-app/src/feed"
)

// TaxInput represents input for creating or replacing a tax record.
// DueDate is optional; an empty string clears it.
type TaxInput struct {
	TaxType   string
	TaxAmount float64
	Memo      string
	IsPaid    bool
	DueDate   string
}

// ApprovalInput represents input for an approval record.
// An empty TransactionDate means today.
type ApprovalInput struct {
	ClientName        string
	TransactionAmount float64
	Memo              string
	TransactionDate   string
	TaxInvoiceIssued  bool
}

// LedgerUsecase manages tax payments and client transactions
type LedgerUsecase interface {
	ListTaxes(ctx context.Context, owner string, year int) ([]domain.Tax, error)
	CreateTax(ctx context.Context, owner string, in TaxInput) (*domain.Tax, error)
	UpdateTax(ctx context.Context, owner, id string, in TaxInput) (*domain.Tax, error)
	DeleteTax(ctx context.Context, owner, id string) error
	TogglePaid(ctx context.Context, owner, id string) (*domain.Tax, error)

	ListApprovals(ctx context.Context, owner string, year int) ([]domain.Approval, error)
	CreateApproval(ctx context.Context, owner string, in ApprovalInput) (*domain.Approval, error)
	UpdateApproval(ctx context.Context, owner, id string, in ApprovalInput) (*domain.Approval, error)
	DeleteApproval(ctx context.Context, owner, id string) error
	ToggleInvoice(ctx context.Context, owner, id string) (*domain.Approval, error)
}

type ledgerUsecase struct {
	taxes     domain.TaxRepository
	approvals domain.ApprovalRepository
	pub       feed.Publisher
	clock     Clock
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(taxes domain.TaxRepository, approvals domain.ApprovalRepository, pub feed.Publisher, clock Clock) LedgerUsecase {
	return &ledgerUsecase{taxes: taxes, approvals: approvals, pub: pub, clock: clock}
}

// TaxesForYear keeps the records whose due date falls in year.
// Records without a due date count toward currentYear.
func TaxesForYear(taxes []domain.Tax, year, currentYear int) []domain.Tax {
	out := []domain.Tax{}
	for _, t := range taxes {
		y := currentYear
		if t.DueDate != nil && t.DueDate.Valid() {
			y = t.DueDate.Year()
		}
		if y == year {
			out = append(out, t)
		}
	}
	return out
}

// ApprovalsForYear keeps the records whose transaction date falls in year
func ApprovalsForYear(approvals []domain.Approval, year int) []domain.Approval {
	out := []domain.Approval{}
	for _, a := range approvals {
		if a.TransactionDate.Year() == year {
			out = append(out, a)
		}
	}
	return out
}

func (u *ledgerUsecase) applyTaxInput(t *domain.Tax, in TaxInput) error {
	taxType := strings.TrimSpace(in.TaxType)
	if taxType == "" || len([]rune(taxType)) > maxTextLength {
		return ErrInvalidText
	}
	if in.TaxAmount < 0 {
		return ErrInvalidAmount
	}
	t.TaxType = taxType
	t.TaxAmount = in.TaxAmount
	t.Memo = strings.TrimSpace(in.Memo)

	t.DueDate = nil
	if in.DueDate != "" {
		d, err := parseDate(in.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = &d
	}

	u.setPaid(t, in.IsPaid)
	return nil
}

// setPaid keeps paid_date consistent with is_paid
func (u *ledgerUsecase) setPaid(t *domain.Tax, paid bool) {
	if paid {
		if !t.IsPaid || t.PaidDate == nil {
			today := u.clock.Today()
			t.PaidDate = &today
		}
	} else {
		t.PaidDate = nil
	}
	t.IsPaid = paid
}

func (u *ledgerUsecase) ListTaxes(ctx context.Context, owner string, year int) ([]domain.Tax, error) {
	taxes, err := u.taxes.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		return taxes, nil
	}
	return TaxesForYear(taxes, year, u.clock.Year()), nil
}

func (u *ledgerUsecase) CreateTax(ctx context.Context, owner string, in TaxInput) (*domain.Tax, error) {
	var t domain.Tax
	if err := u.applyTaxInput(&t, in); err != nil {
		return nil, err
	}
	created, err := u.taxes.Create(ctx, owner, &t)
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableTaxes, owner, created)
	return created, nil
}

func (u *ledgerUsecase) UpdateTax(ctx context.Context, owner, id string, in TaxInput) (*domain.Tax, error) {
	existing, err := u.taxes.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := u.applyTaxInput(existing, in); err != nil {
		return nil, err
	}
	updated, err := u.taxes.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableTaxes, owner, updated)
	return updated, nil
}

func (u *ledgerUsecase) DeleteTax(ctx context.Context, owner, id string) error {
	existing, err := u.taxes.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.taxes.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableTaxes, owner, existing)
	return nil
}

// TogglePaid flips is_paid; paying stamps today as paid_date, unpaying clears it
func (u *ledgerUsecase) TogglePaid(ctx context.Context, owner, id string) (*domain.Tax, error) {
	existing, err := u.taxes.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	u.setPaid(existing, !existing.IsPaid)
	updated, err := u.taxes.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableTaxes, owner, updated)
	return updated, nil
}

func (u *ledgerUsecase) applyApprovalInput(a *domain.Approval, in ApprovalInput) error {
	name := strings.TrimSpace(in.ClientName)
	if name == "" || len([]rune(name)) > maxTextLength {
		return ErrInvalidText
	}
	if in.TransactionAmount < 0 {
		return ErrInvalidAmount
	}
	date := u.clock.Today()
	if in.TransactionDate != "" {
		d, err := parseDate(in.TransactionDate)
		if err != nil {
			return err
		}
		date = d
	}
	a.ClientName = name
	a.TransactionAmount = in.TransactionAmount
	a.Memo = strings.TrimSpace(in.Memo)
	a.TransactionDate = date
	a.TaxInvoiceIssued = in.TaxInvoiceIssued
	return nil
}

func (u *ledgerUsecase) ListApprovals(ctx context.Context, owner string, year int) ([]domain.Approval, error) {
	approvals, err := u.approvals.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		return approvals, nil
	}
	return ApprovalsForYear(approvals, year), nil
}

func (u *ledgerUsecase) CreateApproval(ctx context.Context, owner string, in ApprovalInput) (*domain.Approval, error) {
	var a domain.Approval
	if err := u.applyApprovalInput(&a, in); err != nil {
		return nil, err
	}
	created, err := u.approvals.Create(ctx, owner, &a)
	if err != nil {
		return nil, err
	}
	emit(u.pub, feed.EventInsert, domain.TableApprovals, owner, created)
	return created, nil
}

func (u *ledgerUsecase) UpdateApproval(ctx context.Context, owner, id string, in ApprovalInput) (*domain.Approval, error) {
	existing, err := u.approvals.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	if in.TransactionDate == "" {
		in.TransactionDate = existing.TransactionDate.String()
	}
	if err := u.applyApprovalInput(existing, in); err != nil {
		return nil, err
	}
	updated, err := u.approvals.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableApprovals, owner, updated)
	return updated, nil
}

func (u *ledgerUsecase) DeleteApproval(ctx context.Context, owner, id string) error {
	existing, err := u.approvals.GetByID(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	if err := u.approvals.Delete(ctx, owner, id); err != nil {
		return translate(err)
	}
	emit(u.pub, feed.EventDelete, domain.TableApprovals, owner, existing)
	return nil
}

// ToggleInvoice flips whether the tax invoice has been issued
func (u *ledgerUsecase) ToggleInvoice(ctx context.Context, owner, id string) (*domain.Approval, error) {
	existing, err := u.approvals.GetByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	existing.TaxInvoiceIssued = !existing.TaxInvoiceIssued
	updated, err := u.approvals.Update(ctx, owner, existing)
	if err != nil {
		return nil, translate(err)
	}
	emit(u.pub, feed.EventUpdate, domain.TableApprovals, owner, updated)
	return updated, nil
}
