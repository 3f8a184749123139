package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ghgraph/ghgraph/internal/graph"
)

// defaultRepoLimit bounds the repository listing when the caller does not
// pass a limit.
const defaultRepoLimit = 50

// UserHandler serves per-user read queries.
type UserHandler struct {
	stats StatsReader
	log   *logrus.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(stats StatsReader, log *logrus.Logger) *UserHandler {
	return &UserHandler{stats: stats, log: log}
}

// Stats handles GET /api/user/:login/stats.
func (h *UserHandler) Stats(c *gin.Context) {
	login := c.Param("login")

	stats, err := h.stats.GetUserStats(c.Request.Context(), login)
	if err != nil {
		if errors.Is(err, graph.ErrNoData) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("No data found for user: %s", login))
			return
		}
		h.log.WithError(err).WithField("login", login).Error("failed to get user stats")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(c, http.StatusOK, stats)
}

// Repositories handles GET /api/user/:login/repositories?limit=N.
func (h *UserHandler) Repositories(c *gin.Context) {
	login := c.Param("login")

	limit := defaultRepoLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	repos, err := h.stats.GetTopRepositories(c.Request.Context(), login, limit)
	if err != nil {
		h.log.WithError(err).WithField("login", login).Error("failed to get repositories")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"repositories": repos,
		"count":        len(repos),
	})
}
