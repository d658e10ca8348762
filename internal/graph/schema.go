// Package graph exposes the services as a schema-first GraphQL API built on
// graph-gophers/graphql-go. Resolvers translate between GraphQL arguments and
// service calls; they hold no logic of their own.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by the API.
func SDL() string { return schemaSDL }

// Options bounds query cost.
type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// DefaultOptions are used for zero values in Options.
var DefaultOptions = Options{MaxDepth: 8, MaxParallelism: 10}

// NewSchema parses the SDL and binds it to resolvers backed by the services.
func NewSchema(branches service.BranchService, banks service.BankService, opts Options, logger zerolog.Logger) (*graphql.Schema, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions.MaxDepth
	}
	if opts.MaxParallelism <= 0 {
		opts.MaxParallelism = DefaultOptions.MaxParallelism
	}
	root := &Resolver{branches: branches, banks: banks}
	schema, err := graphql.ParseSchema(schemaSDL, root,
		graphql.UseStringDescriptions(),
		graphql.MaxDepth(opts.MaxDepth),
		graphql.MaxParallelism(opts.MaxParallelism),
		graphql.Logger(panicLogger{log: logger.With().Str("module", "graph").Logger()}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger routes resolver panics to zerolog.
type panicLogger struct{ log zerolog.Logger }

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error().Interface("panic", value).Msg("graphql resolver panic")
}
