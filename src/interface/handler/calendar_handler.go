package handler

import (
	"net/http"
	"strconv"

	"diary-app/src/domain"
	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CalendarHandler handles day resolution and completion toggles
type CalendarHandler struct {
	base
	calendar usecase.CalendarUsecase
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendar usecase.CalendarUsecase, v *validator.CustomValidator, logger *logrus.Logger) *CalendarHandler {
	return &CalendarHandler{base: newBase(v, logger), calendar: calendar}
}

// Day returns the items of one date with their completion flags
func (h *CalendarHandler) Day(c *gin.Context) {
	day, err := h.calendar.Day(c.Request.Context(), middleware.OwnerID(c), c.Param("date"))
	if err != nil {
		h.fail(c, err, "日別TODOの取得")
		return
	}
	c.JSON(http.StatusOK, day)
}

// Month returns the badge counts of every day of a month
func (h *CalendarHandler) Month(c *gin.Context) {
	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid month",
			Message: "year and month must be numbers",
		})
		return
	}

	cells, err := h.calendar.Month(c.Request.Context(), middleware.OwnerID(c), year, month)
	if err != nil {
		h.fail(c, err, "月間サマリーの取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(cells))
}

// PendingDeadlines lists deadline tasks that were never completed
func (h *CalendarHandler) PendingDeadlines(c *gin.Context) {
	var q DateQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}

	items, err := h.calendar.PendingDeadlines(c.Request.Context(), middleware.OwnerID(c), q.Date)
	if err != nil {
		h.fail(c, err, "未完了の期限付きタスク取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(items))
}

// ListCompletions lists every completion row of the owner
func (h *CalendarHandler) ListCompletions(c *gin.Context) {
	completions, err := h.calendar.ListCompletions(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err, "完了記録の取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(completions))
}

// ToggleCompletion flips the completion state of one item on one date
func (h *CalendarHandler) ToggleCompletion(c *gin.Context) {
	var req ToggleCompletionRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	owner := middleware.OwnerID(c)
	patch, err := h.calendar.ToggleCompletion(c.Request.Context(), owner, domain.ItemType(req.ItemType), req.ItemID, req.Date)
	if err != nil {
		h.fail(c, err, "完了状態の切り替え")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"owner_id":  owner,
		"item_id":   patch.ItemID,
		"item_type": patch.ItemType,
		"date":      patch.Date,
		"completed": patch.Completed,
	}).Info("完了状態を切り替えました")
	c.JSON(http.StatusOK, patch)
}
