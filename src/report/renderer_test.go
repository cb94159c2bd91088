package report_test

import (
	"bytes"
	"fmt"
	"testing"

	"diary-app/src/domain"
	"diary-app/src/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generated = domain.Date("2024-03-15")

func datePtr(s string) *domain.Date {
	d := domain.Date(s)
	return &d
}

func sampleTaxes() []domain.Tax {
	return []domain.Tax{
		{ID: "t1", TaxType: "VAT", TaxAmount: 1200000, IsPaid: true, DueDate: datePtr("2024-01-25"), PaidDate: datePtr("2024-01-20")},
		{ID: "t2", TaxType: "부가가치세", TaxAmount: 34500.4, DueDate: datePtr("2024-07-25")},
		{ID: "t3", TaxType: "Income tax", TaxAmount: 0},
	}
}

func sampleApprovals() []domain.Approval {
	return []domain.Approval{
		{ID: "a1", ClientName: "Acme", TransactionAmount: 550000, TransactionDate: "2024-02-01", TaxInvoiceIssued: true},
		{ID: "a2", ClientName: "A very long client name that certainly does not fit in the column", TransactionAmount: 10, TransactionDate: "2024-02-03"},
	}
}

func TestSummaries(t *testing.T) {
	ts := report.SummarizeTaxes(sampleTaxes())
	assert.Equal(t, 3, ts.Count)
	assert.InDelta(t, 1234500.4, ts.Total, 0.001)
	assert.InDelta(t, 1200000, ts.Paid, 0.001)
	assert.InDelta(t, 34500.4, ts.Unpaid, 0.001)

	as := report.SummarizeApprovals(sampleApprovals())
	assert.Equal(t, 2, as.Count)
	assert.Equal(t, 1, as.Issued)
	assert.InDelta(t, 550010, as.Total, 0.001)

	empty := report.SummarizeTaxes(nil)
	assert.Zero(t, empty.Total)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,500 KRW", report.FormatAmount(1234500.4))
	assert.Equal(t, "0 KRW", report.FormatAmount(0))
	assert.Equal(t, "999 KRW", report.FormatAmount(999))
}

func TestRenderer(t *testing.T) {
	r := report.NewRenderer()

	t.Run("税金レポート", func(t *testing.T) {
		out, err := r.Tax(sampleTaxes(), 2024, generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	})

	t.Run("決裁レポート", func(t *testing.T) {
		out, err := r.Approval(sampleApprovals(), 2024, generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	})

	t.Run("総合レポート", func(t *testing.T) {
		out, err := r.Combined(sampleTaxes(), sampleApprovals(), 2024, generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

		// 片方が空でも生成できる
		out, err = r.Combined(nil, sampleApprovals(), 2024, generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	})

	t.Run("複数ページ", func(t *testing.T) {
		many := make([]domain.Tax, 0, 120)
		for i := 0; i < 120; i++ {
			many = append(many, domain.Tax{ID: fmt.Sprint(i), TaxType: fmt.Sprintf("tax %d", i), TaxAmount: float64(i * 1000)})
		}
		short, err := r.Tax(many[:2], 2024, generated)
		require.NoError(t, err)
		long, err := r.Tax(many, 2024, generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(long, []byte("%PDF-")))
		assert.Greater(t, len(long), len(short))
	})
}
