package main

import (
	"context"

	"github.com/maxviazov/bank-branches-graphql/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := openStorage(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("storage connection failed")
				return err
			}
			defer st.close()

			applied, err := migrations.Up(ctx, st.db, st.driver)
			if err != nil {
				log.Error().Err(err).Msg("migrations failed")
				return err
			}
			for _, m := range applied {
				log.Info().Int64("version", m.Version).Str("source", m.Source).Str("took", m.Duration).Msg("migration applied")
			}
			version, err := migrations.Version(ctx, st.db, st.driver)
			if err != nil {
				return err
			}
			log.Info().Int("applied", len(applied)).Int64("version", version).Msg("schema up to date")
			return nil
		},
	}
}
