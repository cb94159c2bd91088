package handler

import (
	"errors"
	"net/http"

	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"
	"diary-app/src/weather"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// base carries what every handler needs for binding and error reporting
type base struct {
	validator *validator.CustomValidator
	logger    *logrus.Logger
}

func newBase(v *validator.CustomValidator, logger *logrus.Logger) base {
	if v == nil {
		v = validator.NewCustomValidator()
	}
	return base{validator: v, logger: logger}
}

// bindJSON decodes and validates the body, answering 400 itself on failure
func (b *base) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		b.logger.WithError(err).Warn("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return false
	}
	return b.validate(c, req)
}

// bindQuery decodes and validates query parameters
func (b *base) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return false
	}
	return b.validate(c, req)
}

func (b *base) validate(c *gin.Context, req any) bool {
	err := b.validator.Validate(req)
	if err == nil {
		return true
	}
	resp := ErrorResponseDTO{Error: "Validation failed", Message: err.Error()}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		resp.Details = ve.Errors
	}
	c.JSON(http.StatusBadRequest, resp)
	return false
}

// pathID reads and validates the :id parameter
func (b *base) pathID(c *gin.Context) (string, bool) {
	id, err := b.validator.ValidateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid ID",
			Message: err.Error(),
		})
		return "", false
	}
	return id, true
}

// fail logs err and answers with the status its kind maps to
func (b *base) fail(c *gin.Context, err error, action string) {
	status := statusFor(err)
	entry := b.logger.WithError(err).WithFields(logrus.Fields{
		"owner_id": middleware.OwnerID(c),
		"status":   status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error(action + "に失敗")
		c.JSON(status, ErrorResponseDTO{Error: http.StatusText(status)})
		return
	}
	entry.Warn(action + "に失敗")
	c.JSON(status, ErrorResponseDTO{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrNotApplicable),
		errors.Is(err, usecase.ErrNoReportData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrInvalidText),
		errors.Is(err, usecase.ErrInvalidContent),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrInvalidRepeatDate),
		errors.Is(err, usecase.ErrInvalidItemType),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidYear),
		errors.Is(err, usecase.ErrInvalidMonth),
		errors.Is(err, usecase.ErrInvalidReportKind),
		errors.Is(err, weather.ErrInvalidCoordinates):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
