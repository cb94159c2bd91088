package report

import (
	"math"

	"diary-app/src/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TaxSummary totals the tax amounts of a report
type TaxSummary struct {
	Total  float64
	Paid   float64
	Unpaid float64
	Count  int
}

// ApprovalSummary totals the transactions of a report
type ApprovalSummary struct {
	Total  float64
	Count  int
	Issued int
}

// SummarizeTaxes computes the tax totals
func SummarizeTaxes(taxes []domain.Tax) TaxSummary {
	s := TaxSummary{Count: len(taxes)}
	for _, t := range taxes {
		s.Total += t.TaxAmount
		if t.IsPaid {
			s.Paid += t.TaxAmount
		}
	}
	s.Unpaid = s.Total - s.Paid
	return s
}

// SummarizeApprovals computes the transaction totals
func SummarizeApprovals(approvals []domain.Approval) ApprovalSummary {
	s := ApprovalSummary{Count: len(approvals)}
	for _, a := range approvals {
		s.Total += a.TransactionAmount
		if a.TaxInvoiceIssued {
			s.Issued++
		}
	}
	return s
}

var amountPrinter = message.NewPrinter(language.Korean)

// FormatAmount renders a won amount with digit grouping, e.g. "1,234,500 KRW"
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%d KRW", int64(math.Round(v)))
}
