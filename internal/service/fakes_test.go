package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
)

// memStore is an in-memory dataset shared by the fake repositories.
type memStore struct {
	mu       sync.Mutex
	banks    []model.Bank   // ordered by id
	branches []model.Branch // ordered by ifsc
	err      error          // returned by every call when set

	getByIDsCalls [][]int64
	counts        int
	lists         int
}

func (m *memStore) bankName(id int64) (string, bool) {
	for _, b := range m.banks {
		if b.ID == id {
			return b.Name, true
		}
	}
	return "", false
}

func match(p repository.Predicate, value string, present bool) bool {
	if !present {
		return false
	}
	switch p.Match {
	case repository.MatchExact:
		return strings.EqualFold(value, p.Value)
	default:
		return strings.Contains(strings.ToLower(value), strings.ToLower(p.Value))
	}
}

func (m *memStore) branchMatches(b model.Branch, preds []repository.Predicate) bool {
	for _, p := range preds {
		var v string
		present := true
		switch p.Field {
		case repository.FieldIFSC:
			v = b.IFSC
		case repository.FieldCity:
			v = b.City
		case repository.FieldDistrict:
			v = b.District
		case repository.FieldState:
			v = b.State
		case repository.FieldBranchName:
			v = b.Branch
		case repository.FieldBankName:
			v, present = m.bankName(b.BankID)
		}
		if !match(p, v, present) {
			return false
		}
	}
	return true
}

func window[T any](items []T, p repository.Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(items))
	return slices.Clone(items[p.Offset:end])
}

type fakeBranchRepo struct{ *memStore }

func (r fakeBranchRepo) filtered(preds []repository.Predicate) []model.Branch {
	var out []model.Branch
	for _, b := range r.branches {
		if r.branchMatches(b, preds) {
			out = append(out, b)
		}
	}
	return out
}

func (r fakeBranchRepo) Count(_ context.Context, preds []repository.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts++
	if r.err != nil {
		return 0, r.err
	}
	return len(r.filtered(preds)), nil
}

func (r fakeBranchRepo) List(_ context.Context, preds []repository.Predicate, p repository.Page) ([]model.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	return window(r.filtered(preds), p), nil
}

func (r fakeBranchRepo) GetByIFSC(_ context.Context, ifsc string) (model.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return model.Branch{}, r.err
	}
	for _, b := range r.branches {
		if b.IFSC == ifsc {
			return b, nil
		}
	}
	return model.Branch{}, repository.ErrNotFound
}

type fakeBankRepo struct{ *memStore }

func (r fakeBankRepo) filtered(preds []repository.Predicate) []model.Bank {
	var out []model.Bank
	for _, b := range r.banks {
		ok := true
		for _, p := range preds {
			if !match(p, b.Name, true) {
				ok = false
			}
		}
		if ok {
			out = append(out, b)
		}
	}
	return out
}

func (r fakeBankRepo) Count(_ context.Context, preds []repository.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts++
	if r.err != nil {
		return 0, r.err
	}
	return len(r.filtered(preds)), nil
}

func (r fakeBankRepo) List(_ context.Context, preds []repository.Predicate, p repository.Page) ([]model.Bank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	return window(r.filtered(preds), p), nil
}

func (r fakeBankRepo) GetByID(_ context.Context, id int64) (model.Bank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return model.Bank{}, r.err
	}
	for _, b := range r.banks {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Bank{}, repository.ErrNotFound
}

func (r fakeBankRepo) GetByIDs(_ context.Context, ids []int64) ([]model.Bank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDsCalls = append(r.getByIDsCalls, slices.Clone(ids))
	if r.err != nil {
		return nil, r.err
	}
	var out []model.Bank
	for _, b := range r.banks {
		if slices.Contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeTx records transaction boundaries and runs fn inline.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinReadTx(ctx context.Context, fn repository.TxFunc) error {
	f.calls++
	return fn(ctx)
}

// alphaStore holds banks Alpha, Beta and Gamma and five branches: four of
// Alpha and one of Beta.
func alphaStore() *memStore {
	return &memStore{
		banks: []model.Bank{
			{ID: 1, Name: "Alpha"},
			{ID: 2, Name: "Beta"},
			{ID: 3, Name: "Gamma"},
		},
		branches: []model.Branch{
			{IFSC: "ALPH0000001", Branch: "Fort", City: "Mumbai", District: "Mumbai", State: "Maharashtra", BankID: 1},
			{IFSC: "ALPH0000002", Branch: "Connaught Place", City: "New Delhi", District: "New Delhi", State: "Delhi", BankID: 1},
			{IFSC: "ALPH0000003", Branch: "Camp", City: "Pune", District: "Pune", State: "Maharashtra", BankID: 1},
			{IFSC: "ALPH0000004", Branch: "T Nagar", City: "Chennai", District: "Chennai", State: "Tamil Nadu", BankID: 1},
			{IFSC: "BETA0000001", Branch: "Andheri", City: "Mumbai", District: "Mumbai Suburban", State: "Maharashtra", BankID: 2},
		},
	}
}

func newBranchService(m *memStore) (BranchService, *fakeTx) {
	tx := &fakeTx{}
	svc := NewBranchService(fakeBranchRepo{m}, tx, NewAssembler(fakeBankRepo{m}), pagination.DefaultLimits, zerolog.Nop())
	return svc, tx
}

func newBankService(m *memStore) (BankService, *fakeTx) {
	tx := &fakeTx{}
	svc := NewBankService(fakeBankRepo{m}, tx, NewAssembler(fakeBankRepo{m}), pagination.DefaultLimits, zerolog.Nop())
	return svc, tx
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
