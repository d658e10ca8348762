package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/graph"
	"github.com/maxviazov/bank-branches-graphql/internal/handler"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*cfgPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("app", cfg.App.Name).Str("version", cfg.App.Version).Msg("starting service")

			st, err := openStorage(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("storage connection failed")
				return err
			}
			defer st.close()

			limits := pagination.Limits{
				DefaultPageSize: cfg.Pagination.DefaultPageSize,
				MaxPageSize:     cfg.Pagination.MaxPageSize,
			}
			assembler := service.NewAssembler(st.banks)
			branchSvc := service.NewBranchService(st.branches, st.tx, assembler, limits, log)
			bankSvc := service.NewBankService(st.banks, st.tx, assembler, limits, log)
			statsSvc := service.NewStatsService(st.banks, st.branches, st.tx, log)

			// counts are informative only; an empty database still serves
			if stats, err := statsSvc.Stats(ctx); err != nil {
				log.Warn().Err(err).Msg("could not fetch database statistics")
			} else {
				log.Info().Int("banks", stats.Banks).Int("branches", stats.Branches).Msg("database ready")
			}

			schema, err := graph.NewSchema(branchSvc, bankSvc, graph.Options{}, log)
			if err != nil {
				return err
			}

			opts := handler.Options{
				AppName:     cfg.App.Name,
				Version:     cfg.App.Version,
				GraphQLPath: cfg.HTTP.GraphQLPath,
				Debug:       cfg.App.Debug,
			}
			engine := handler.NewEngine(log, cfg.HTTP.CORSOrigins, cfg.App.Debug)
			handler.Register(engine, opts, st.pinger, statsSvc, schema)

			srv := &http.Server{
				Addr:              cfg.App.Addr(),
				Handler:           engine,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("graphql", opts.GraphQLPath).Bool("debug", opts.Debug).Msg("http server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error().Err(err).Msg("http server failed")
					return err
				}
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown failed")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}
