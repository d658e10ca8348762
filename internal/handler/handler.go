package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options carries what the routes need to know about the running service.
type Options struct {
	AppName     string
	Version     string
	GraphQLPath string
	// Debug enables the GraphiQL page on GET requests without a query.
	Debug bool
}

func (o Options) graphqlPath() string {
	if o.GraphQLPath == "" {
		return DefaultGraphQLPath
	}
	return o.GraphQLPath
}

// NewEngine builds a gin engine with recovery, request logging and CORS.
func NewEngine(logger zerolog.Logger, corsOrigins []string, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), CORS(corsOrigins))
	return r
}

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, opts Options, repo Pinger, statsSvc service.StatsService, schema *graphql.Schema) {
	h := NewHealthHandler(repo, opts)

	// Health probes
	r.GET(LivePath, h.Liveness)
	r.GET(ReadyPath, h.Readiness)
	r.GET(HealthPath, h.Health)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":          "Welcome to " + opts.AppName,
			"version":          opts.Version,
			"graphql_endpoint": opts.graphqlPath(),
			"schema":           SchemaPath,
			"health":           HealthPath,
		})
	})
	r.GET(MetricsPath, gin.WrapH(promhttp.Handler()))

	RegisterDocs(r, opts)
	NewStatsHandler(statsSvc, opts).Register(r)
	NewGraphQLHandler(schema, opts).Register(r)
}
