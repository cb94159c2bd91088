package handler

import (
	"fmt"
	"net/http"

	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler serves the yearly PDF reports
type ReportHandler struct {
	base
	reports usecase.ReportUsecase
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports usecase.ReportUsecase, v *validator.CustomValidator, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{base: newBase(v, logger), reports: reports}
}

// Download renders the :kind report of ?year= (default: current year) as an attachment
func (h *ReportHandler) Download(c *gin.Context) {
	var q YearQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}

	owner := middleware.OwnerID(c)
	kind := usecase.ReportKind(c.Param("kind"))
	file, err := h.reports.Generate(c.Request.Context(), owner, kind, q.Year)
	if err != nil {
		h.fail(c, err, "レポートの生成")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"owner_id": owner,
		"kind":     kind,
		"file":     file.Name,
		"size":     len(file.Data),
	}).Info("レポートを生成しました")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, "application/pdf", file.Data)
}
