package usecase

import (
	"context"
	"fmt"

	"diary-app/src/domain"
	"diary-app/src/logger"

	"github.com/sirupsen/logrus"
)

// ReportKind selects which yearly report to produce
type ReportKind string

const (
	ReportTax      ReportKind = "tax"
	ReportApproval ReportKind = "approval"
	ReportCombined ReportKind = "combined"
)

// IsValid validates the report kind
func (k ReportKind) IsValid() bool {
	switch k {
	case ReportTax, ReportApproval, ReportCombined:
		return true
	default:
		return false
	}
}

// ReportRenderer turns yearly records into a document
type ReportRenderer interface {
	Tax(taxes []domain.Tax, year int, generated domain.Date) ([]byte, error)
	Approval(approvals []domain.Approval, year int, generated domain.Date) ([]byte, error)
	Combined(taxes []domain.Tax, approvals []domain.Approval, year int, generated domain.Date) ([]byte, error)
}

// ReportArchiver stores a copy of every generated report
type ReportArchiver interface {
	Archive(ctx context.Context, owner, name string, data []byte) (string, error)
}

// ReportFile is a rendered report
type ReportFile struct {
	Name string
	Data []byte
}

// ReportUsecase produces the yearly PDF reports
type ReportUsecase interface {
	Generate(ctx context.Context, owner string, kind ReportKind, year int) (*ReportFile, error)
}

type reportUsecase struct {
	ledger   LedgerUsecase
	renderer ReportRenderer
	archiver ReportArchiver
	clock    Clock
}

// NewReportUsecase creates a new report usecase; archiver may be nil
func NewReportUsecase(ledger LedgerUsecase, renderer ReportRenderer, archiver ReportArchiver, clock Clock) ReportUsecase {
	return &reportUsecase{ledger: ledger, renderer: renderer, archiver: archiver, clock: clock}
}

// ReportFileName names a report after its kind, year and generation date
func ReportFileName(kind ReportKind, year int, generated domain.Date) string {
	return fmt.Sprintf("%s_report_%d_%s.pdf", kind, year, generated)
}

func (u *reportUsecase) Generate(ctx context.Context, owner string, kind ReportKind, year int) (*ReportFile, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidReportKind
	}
	if year == 0 {
		year = u.clock.Year()
	}
	if year < 1 || year > 9999 {
		return nil, ErrInvalidYear
	}

	var taxes []domain.Tax
	var approvals []domain.Approval
	var err error
	if kind != ReportApproval {
		if taxes, err = u.ledger.ListTaxes(ctx, owner, year); err != nil {
			return nil, err
		}
	}
	if kind != ReportTax {
		if approvals, err = u.ledger.ListApprovals(ctx, owner, year); err != nil {
			return nil, err
		}
	}
	if len(taxes) == 0 && len(approvals) == 0 {
		return nil, ErrNoReportData
	}

	today := u.clock.Today()
	var data []byte
	switch kind {
	case ReportTax:
		data, err = u.renderer.Tax(taxes, year, today)
	case ReportApproval:
		data, err = u.renderer.Approval(approvals, year, today)
	case ReportCombined:
		data, err = u.renderer.Combined(taxes, approvals, year, today)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}

	file := &ReportFile{Name: ReportFileName(kind, year, today), Data: data}

	if u.archiver != nil {
		// アーカイブ失敗はダウンロードを妨げない
		if key, err := u.archiver.Archive(ctx, owner, file.Name, data); err != nil {
			logger.Log.WithError(err).WithField("file", file.Name).Warn("レポートのアーカイブに失敗")
		} else {
			logger.WithFields(logrus.Fields{"owner_id": owner, "key": key}).Info("レポートをアーカイブしました")
		}
	}
	return file, nil
}
