package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ghgraph/ghgraph/internal/graph"
)

// NetworkHandler serves the graph-visualization payload.
type NetworkHandler struct {
	stats StatsReader
	log   *logrus.Logger
}

// NewNetworkHandler creates a NetworkHandler.
func NewNetworkHandler(stats StatsReader, log *logrus.Logger) *NetworkHandler {
	return &NetworkHandler{stats: stats, log: log}
}

// Graph handles GET /api/network/graph/:login.
func (h *NetworkHandler) Graph(c *gin.Context) {
	login := c.Param("login")

	network, err := h.stats.GetNetworkGraph(c.Request.Context(), login)
	if err != nil {
		if errors.Is(err, graph.ErrNoData) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("No graph data found for user: %s", login))
			return
		}
		h.log.WithError(err).WithField("login", login).Error("failed to get network graph")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(c, http.StatusOK, network)
}
