package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

// BankNode is a bank as exposed to the query surface.
type BankNode struct {
	model.Bank
}

// BranchNode is a branch as exposed to the query surface. Its bank is
// resolved on demand through the request's BankLoader.
type BranchNode struct {
	model.Branch
	loader *BankLoader
}

// Bank resolves the branch's bank. Repeated calls within one request return
// the same snapshot and never query storage twice for the same id.
func (n BranchNode) Bank(ctx context.Context) (BankNode, error) {
	if n.loader == nil {
		return BankNode{}, fmt.Errorf("branch %s: bank loader not attached", n.IFSC)
	}
	return n.loader.Load(ctx, n.IFSC, n.BankID)
}

// BankLoader batches and memoizes bank lookups for one request. Ids are
// registered while a page is assembled and fetched together on the first Load.
type BankLoader struct {
	repo repository.BankRepository

	mu      sync.Mutex
	pending map[int64]struct{}
	fetched map[int64]bool // id -> was found
	banks   map[int64]model.Bank
}

func NewBankLoader(repo repository.BankRepository) *BankLoader {
	return &BankLoader{
		repo:    repo,
		pending: make(map[int64]struct{}),
		fetched: make(map[int64]bool),
		banks:   make(map[int64]model.Bank),
	}
}

// Register queues ids for the next batch.
func (l *BankLoader) Register(ids ...int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if _, done := l.fetched[id]; done || id <= 0 {
			continue
		}
		l.pending[id] = struct{}{}
	}
}

// Load returns the bank with id on behalf of branch ifsc. A bank that does not
// exist is ErrDataIntegrity; storage failures are returned as they are and may
// be retried by a later Load.
func (l *BankLoader) Load(ctx context.Context, ifsc string, id int64) (BankNode, error) {
	if id <= 0 {
		return BankNode{}, fmt.Errorf("%w: branch %s has no bank", ErrDataIntegrity, ifsc)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, done := l.fetched[id]; !done {
		l.pending[id] = struct{}{}
		ids := make([]int64, 0, len(l.pending))
		for pid := range l.pending {
			ids = append(ids, pid)
		}
		found, err := l.repo.GetByIDs(ctx, ids)
		if err != nil {
			return BankNode{}, err
		}
		for _, pid := range ids {
			l.fetched[pid] = false
		}
		for _, b := range found {
			l.banks[b.ID] = b
			l.fetched[b.ID] = true
		}
		clear(l.pending)
	}

	if !l.fetched[id] {
		return BankNode{}, fmt.Errorf("%w: branch %s references missing bank %d", ErrDataIntegrity, ifsc, id)
	}
	return BankNode{Bank: l.banks[id]}, nil
}

type requestCache struct {
	once   sync.Once
	loader *BankLoader
}

type requestCacheKey struct{}

// WithRequestCache scopes bank resolution to ctx: every node assembled under
// the returned context shares one BankLoader.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestCacheKey{}, &requestCache{})
}

// Assembler turns storage rows into nodes.
type Assembler struct {
	banks repository.BankRepository
}

func NewAssembler(banks repository.BankRepository) *Assembler {
	return &Assembler{banks: banks}
}

// loader returns the request's loader, or a fresh one when ctx carries no cache.
func (a *Assembler) loader(ctx context.Context) *BankLoader {
	rc, ok := ctx.Value(requestCacheKey{}).(*requestCache)
	if !ok {
		return NewBankLoader(a.banks)
	}
	rc.once.Do(func() { rc.loader = NewBankLoader(a.banks) })
	return rc.loader
}

// Branches assembles a page of branches and registers their bank ids so the
// first Bank call loads them in one query.
func (a *Assembler) Branches(ctx context.Context, rows []model.Branch) []BranchNode {
	l := a.loader(ctx)
	out := make([]BranchNode, len(rows))
	ids := make([]int64, 0, len(rows))
	for i, r := range rows {
		out[i] = BranchNode{Branch: r, loader: l}
		ids = append(ids, r.BankID)
	}
	l.Register(ids...)
	return out
}

func (a *Assembler) Branch(ctx context.Context, row model.Branch) BranchNode {
	return a.Branches(ctx, []model.Branch{row})[0]
}

func (a *Assembler) Banks(rows []model.Bank) []BankNode {
	out := make([]BankNode, len(rows))
	for i, r := range rows {
		out[i] = BankNode{Bank: r}
	}
	return out
}
