package handler

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/bank-branches-graphql/internal/graph"
)

// Minimal HTML that loads GraphiQL from a CDN and points it at the GraphQL endpoint.
// This avoids bundling assets and keeps the binary small.
//
//go:embed graphiql.html
var graphiqlHTML string

var graphiqlTmpl = template.Must(template.New("graphiql").Parse(graphiqlHTML))

// RegisterDocs mounts documentation endpoints at the root:
//   - GET /schema.graphql: the SDL served by the API
//
// The GraphiQL page itself is served by the GraphQL handler in debug mode.
func RegisterDocs(r *gin.Engine, _ Options) {
	r.GET(SchemaPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(graph.SDL()))
	})
}

func renderGraphiQL(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	err := graphiqlTmpl.Execute(&buf, struct{ Title, Endpoint string }{
		Title:    opts.AppName + " GraphiQL",
		Endpoint: opts.graphqlPath(),
	})
	return buf.Bytes(), err
}
