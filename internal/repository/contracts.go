package repository

import (
	"context"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager runs a unit of work inside one read-only transaction, so a count
// and the page fetched after it observe the same snapshot.
type TxManager interface {
	WithinReadTx(ctx context.Context, fn TxFunc) error
}

// BankRepository declares read operations for banks.
// Listing order is by primary key (id), which keeps cursors reproducible.
type BankRepository interface {
	Count(ctx context.Context, preds []Predicate) (int, error)
	List(ctx context.Context, preds []Predicate, p Page) ([]model.Bank, error)
	GetByID(ctx context.Context, id int64) (model.Bank, error)
	// GetByIDs returns the banks that exist among ids; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Bank, error)
}

// BranchRepository declares read operations for branches.
// Listing order is by primary key (ifsc). Branches whose bank_id is dangling
// are still returned; resolving their bank is the caller's concern.
type BranchRepository interface {
	Count(ctx context.Context, preds []Predicate) (int, error)
	List(ctx context.Context, preds []Predicate, p Page) ([]model.Branch, error)
	GetByIFSC(ctx context.Context, ifsc string) (model.Branch, error)
}

// ImportRow is one denormalized record of the source dataset.
type ImportRow struct {
	IFSC     string
	BankName string
	Branch   string
	Address  string
	City     string
	District string
	State    string
}

// ImportResult reports how many rows were actually inserted.
type ImportResult struct {
	Banks    int
	Branches int
}

// Importer loads the dataset before the service is started. Existing banks
// (by name) and branches (by ifsc) are left untouched. It is used by the
// ingest command only; the query path never writes.
type Importer interface {
	Import(ctx context.Context, rows []ImportRow) (ImportResult, error)
}
