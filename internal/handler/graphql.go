package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/maxviazov/bank-branches-graphql/internal/metrics"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/rs/zerolog"
)

type graphqlRequest struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables" form:"-"`
}

// GraphQLHandler executes GraphQL requests over HTTP (POST JSON bodies and
// GET query strings).
type GraphQLHandler struct {
	schema *graphql.Schema
	opts   Options
}

func NewGraphQLHandler(schema *graphql.Schema, opts Options) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, opts: opts}
}

func (h *GraphQLHandler) Register(r gin.IRouter) {
	path := h.opts.graphqlPath()
	r.POST(path, h.post)
	r.GET(path, h.get)
}

func (h *GraphQLHandler) post(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "request body must be a JSON object with a query")
		return
	}
	h.exec(c, req)
}

func (h *GraphQLHandler) get(c *gin.Context) {
	var req graphqlRequest
	_ = c.ShouldBindQuery(&req)
	if req.Query == "" {
		if h.opts.Debug {
			page, err := renderGraphiQL(h.opts)
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", page)
			return
		}
		h.badRequest(c, "missing query")
		return
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			h.badRequest(c, "variables must be a JSON object")
			return
		}
	}
	h.exec(c, req)
}

func (h *GraphQLHandler) exec(c *gin.Context, req graphqlRequest) {
	if req.Query == "" {
		h.badRequest(c, "missing query")
		return
	}
	start := time.Now()
	// one bank cache per HTTP request
	ctx := service.WithRequestCache(c.Request.Context())
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	metrics.GraphQLRequestDuration.Observe(time.Since(start).Seconds())
	outcome := "ok"
	if len(resp.Errors) > 0 {
		outcome = "error"
	}
	metrics.GraphQLRequests.WithLabelValues(outcome).Inc()

	zerolog.Ctx(ctx).Debug().
		Str("operation", req.OperationName).
		Int("errors", len(resp.Errors)).
		Dur("took", time.Since(start)).
		Msg("graphql executed")

	c.JSON(http.StatusOK, resp)
}

func (h *GraphQLHandler) badRequest(c *gin.Context, msg string) {
	metrics.GraphQLRequests.WithLabelValues("error").Inc()
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": []gin.H{{"message": msg, "extensions": gin.H{"code": "BAD_REQUEST"}}},
	})
}
