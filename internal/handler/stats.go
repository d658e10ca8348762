package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/maxviazov/bank-branches-graphql/pkg/response"
)

type StatsHandler struct {
	svc  service.StatsService
	opts Options
}

func NewStatsHandler(svc service.StatsService, opts Options) *StatsHandler {
	return &StatsHandler{svc: svc, opts: opts}
}

func (h *StatsHandler) Register(r gin.IRouter) {
	r.GET(StatsPath, h.get)
}

func (h *StatsHandler) get(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{
		"banks":            stats.Banks,
		"branches":         stats.Branches,
		"graphql_endpoint": h.opts.graphqlPath(),
		"api_version":      h.opts.Version,
	})
}
