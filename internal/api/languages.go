package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LanguageHandler serves cross-user language queries.
type LanguageHandler struct {
	stats StatsReader
	log   *logrus.Logger
}

// NewLanguageHandler creates a LanguageHandler.
func NewLanguageHandler(stats StatsReader, log *logrus.Logger) *LanguageHandler {
	return &LanguageHandler{stats: stats, log: log}
}

// Popular handles GET /api/languages/popular: the top 20 languages
// across all analyzed users by repository count.
func (h *LanguageHandler) Popular(c *gin.Context) {
	languages, err := h.stats.GetPopularLanguages(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to get popular languages")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"popular_languages": languages,
	})
}
