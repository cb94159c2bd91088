package handler

import (
	"net/http"

	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MemoHandler handles HTTP requests for daily memos
type MemoHandler struct {
	base
	memos usecase.MemoUsecase
}

// NewMemoHandler creates a new memo handler
func NewMemoHandler(memos usecase.MemoUsecase, v *validator.CustomValidator, logger *logrus.Logger) *MemoHandler {
	return &MemoHandler{base: newBase(v, logger), memos: memos}
}

// ListMemos lists the memos of one month
func (h *MemoHandler) ListMemos(c *gin.Context) {
	var q MonthQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}

	memos, err := h.memos.ListMemos(c.Request.Context(), middleware.OwnerID(c), q.Year, q.Month)
	if err != nil {
		h.fail(c, err, "メモリストの取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(memos))
}

// GetMemo retrieves the memo of a date
func (h *MemoHandler) GetMemo(c *gin.Context) {
	memo, err := h.memos.GetMemo(c.Request.Context(), middleware.OwnerID(c), c.Param("date"))
	if err != nil {
		h.fail(c, err, "メモの取得")
		return
	}
	c.JSON(http.StatusOK, memo)
}

// SaveMemo creates or replaces the memo of a date
func (h *MemoHandler) SaveMemo(c *gin.Context) {
	var req SaveMemoRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	owner := middleware.OwnerID(c)
	memo, err := h.memos.SaveMemo(c.Request.Context(), owner, c.Param("date"), req.Content)
	if err != nil {
		h.fail(c, err, "メモの保存")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"owner_id":  owner,
		"memo_date": memo.MemoDate,
	}).Info("メモを保存しました")
	c.JSON(http.StatusOK, memo)
}

// DeleteMemo deletes the memo of a date
func (h *MemoHandler) DeleteMemo(c *gin.Context) {
	if err := h.memos.DeleteMemo(c.Request.Context(), middleware.OwnerID(c), c.Param("date")); err != nil {
		h.fail(c, err, "メモの削除")
		return
	}
	c.Status(http.StatusNoContent)
}
