package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalyzeHandler runs the fetch-and-import pipeline.
type AnalyzeHandler struct {
	analyzer Analyzer
	log      *logrus.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(analyzer Analyzer, log *logrus.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, log: log}
}

// Analyze handles POST /api/analyze/:login. Any pipeline failure,
// unknown login included, maps to a 400 with the error message in the
// envelope; there is no partial-success reporting.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	login := c.Param("login")

	result, err := h.analyzer.Analyze(c.Request.Context(), login)
	if err != nil {
		h.log.WithError(err).WithField("login", login).Error("analysis failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully analyzed user: %s", login),
		"data":    result,
	})
}
