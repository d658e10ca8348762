package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/bank-branches-graphql/internal/config"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/maxviazov/bank-branches-graphql/internal/repository/postgres"
	"github.com/maxviazov/bank-branches-graphql/internal/repository/sqlite"
	"github.com/rs/zerolog"
)

// storage bundles the repositories of the configured backend.
type storage struct {
	driver   string
	banks    repository.BankRepository
	branches repository.BranchRepository
	tx       repository.TxManager
	pinger   repository.Pinger
	importer repository.Importer
	// db is a database/sql handle on the same backend, used by migrations.
	db    *sql.DB
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	timeout := cfg.Storage.QueryTimeout
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		return &storage{
			driver:   "postgres",
			banks:    postgres.NewBankRepository(pool, timeout),
			branches: postgres.NewBranchRepository(pool, timeout),
			tx:       postgres.NewTxManager(pool),
			pinger:   postgres.NewPinger(pool),
			importer: postgres.NewImporter(pool),
			db:       db,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, log)
		if err != nil {
			return nil, err
		}
		return &storage{
			driver:   "sqlite",
			banks:    sqlite.NewBankRepository(db, timeout),
			branches: sqlite.NewBranchRepository(db, timeout),
			tx:       sqlite.NewTxManager(db),
			pinger:   sqlite.NewPinger(db),
			importer: sqlite.NewImporter(db),
			db:       db,
			close:    func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
