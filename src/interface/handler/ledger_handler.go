package handler

import (
	"net/http"

	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LedgerHandler handles tax and approval records
type LedgerHandler struct {
	base
	ledger usecase.LedgerUsecase
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledger usecase.LedgerUsecase, v *validator.CustomValidator, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{base: newBase(v, logger), ledger: ledger}
}

func toTaxInput(req TaxRequestDTO) usecase.TaxInput {
	return usecase.TaxInput{
		TaxType:   req.TaxType,
		TaxAmount: req.TaxAmount,
		Memo:      req.Memo,
		IsPaid:    req.IsPaid,
		DueDate:   req.DueDate,
	}
}

func toApprovalInput(req ApprovalRequestDTO) usecase.ApprovalInput {
	return usecase.ApprovalInput{
		ClientName:        req.ClientName,
		TransactionAmount: req.TransactionAmount,
		Memo:              req.Memo,
		TransactionDate:   req.TransactionDate,
		TaxInvoiceIssued:  req.TaxInvoiceIssued,
	}
}

// ListTaxes lists tax records, optionally only those of ?year=
func (h *LedgerHandler) ListTaxes(c *gin.Context) {
	var q YearQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}
	taxes, err := h.ledger.ListTaxes(c.Request.Context(), middleware.OwnerID(c), q.Year)
	if err != nil {
		h.fail(c, err, "税金リストの取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(taxes))
}

// CreateTax creates a tax record
func (h *LedgerHandler) CreateTax(c *gin.Context) {
	var req TaxRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}
	tax, err := h.ledger.CreateTax(c.Request.Context(), middleware.OwnerID(c), toTaxInput(req))
	if err != nil {
		h.fail(c, err, "税金の作成")
		return
	}
	h.logger.WithField("tax_id", tax.ID).Info("税金を登録しました")
	c.JSON(http.StatusCreated, tax)
}

// UpdateTax replaces a tax record
func (h *LedgerHandler) UpdateTax(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req TaxRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}
	tax, err := h.ledger.UpdateTax(c.Request.Context(), middleware.OwnerID(c), id, toTaxInput(req))
	if err != nil {
		h.fail(c, err, "税金の更新")
		return
	}
	c.JSON(http.StatusOK, tax)
}

// DeleteTax deletes a tax record
func (h *LedgerHandler) DeleteTax(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteTax(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "税金の削除")
		return
	}
	c.Status(http.StatusNoContent)
}

// TogglePaid flips the paid state of a tax record
func (h *LedgerHandler) TogglePaid(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	tax, err := h.ledger.TogglePaid(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		h.fail(c, err, "納付状態の切り替え")
		return
	}
	c.JSON(http.StatusOK, tax)
}

// ListApprovals lists approval records, optionally only those of ?year=
func (h *LedgerHandler) ListApprovals(c *gin.Context) {
	var q YearQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}
	approvals, err := h.ledger.ListApprovals(c.Request.Context(), middleware.OwnerID(c), q.Year)
	if err != nil {
		h.fail(c, err, "決裁リストの取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(approvals))
}

// CreateApproval creates an approval record
func (h *LedgerHandler) CreateApproval(c *gin.Context) {
	var req ApprovalRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}
	approval, err := h.ledger.CreateApproval(c.Request.Context(), middleware.OwnerID(c), toApprovalInput(req))
	if err != nil {
		h.fail(c, err, "決裁の作成")
		return
	}
	h.logger.WithField("approval_id", approval.ID).Info("決裁を登録しました")
	c.JSON(http.StatusCreated, approval)
}

// UpdateApproval replaces an approval record
func (h *LedgerHandler) UpdateApproval(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ApprovalRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}
	approval, err := h.ledger.UpdateApproval(c.Request.Context(), middleware.OwnerID(c), id, toApprovalInput(req))
	if err != nil {
		h.fail(c, err, "決裁の更新")
		return
	}
	c.JSON(http.StatusOK, approval)
}

// DeleteApproval deletes an approval record
func (h *LedgerHandler) DeleteApproval(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteApproval(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "決裁の削除")
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleInvoice flips the tax invoice flag of an approval record
func (h *LedgerHandler) ToggleInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	approval, err := h.ledger.ToggleInvoice(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		h.fail(c, err, "税金計算書状態の切り替え")
		return
	}
	c.JSON(http.StatusOK, approval)
}
