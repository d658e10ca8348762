package main

import (
	"context"

	"github.com/maxviazov/bank-branches-graphql/internal/ingest"
	"github.com/maxviazov/bank-branches-graphql/migrations"
	"github.com/spf13/cobra"
)

func newIngestCmd(cfgPath *string) *cobra.Command {
	var (
		file    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the bank branches CSV into the configured database",
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

			if migrate {
				if _, err := migrations.Up(ctx, st.db, st.driver); err != nil {
					log.Error().Err(err).Msg("migrations failed")
					return err
				}
			}
			if _, err := ingest.LoadFile(ctx, st.importer, file, log); err != nil {
				log.Error().Err(err).Msg("ingest failed")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "data/bank_branches.csv", "CSV dataset to load")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply schema migrations before loading")
	return cmd
}
