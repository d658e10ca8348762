// Package contract holds behavioral test suites every storage backend must
// pass. Backends wire them up from their own _test.go files.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

// Fixture is one freshly migrated, empty store.
type Fixture struct {
	Banks    repository.BankRepository
	Branches repository.BranchRepository
	Tx       repository.TxManager
	Importer repository.Importer
	Pinger   repository.Pinger
}

type Factory func(t *testing.T) (Fixture, func())

// SeedRows is the dataset the suites load. The last row has no bank, which
// leaves its branch with a NULL bank_id.
var SeedRows = []repository.ImportRow{
	{IFSC: "ALPH0000001", BankName: "ALPHA BANK", Branch: "Fort", Address: "1 Main Rd", City: "Mumbai", District: "Mumbai", State: "Maharashtra"},
	{IFSC: "BETA0000001", BankName: "BETA BANK", Branch: "Andheri 100%_West", Address: "2 Link Rd", City: "MUMBAI", District: "Mumbai Suburban", State: "Maharashtra"},
	{IFSC: "ALPH0000002", BankName: "ALPHA BANK", Branch: "Camp", Address: "3 MG Rd", City: "Pune", District: "Pune", State: "Maharashtra"},
	{IFSC: "GAMM0000001", BankName: "GAMMA COOPERATIVE", Branch: "Connaught Place", Address: "4 Janpath", City: "New Delhi", District: "New Delhi", State: "Delhi"},
	{IFSC: "ZZZZ0000001", BankName: "", Branch: "Orphan", Address: "5 Beach Rd", City: "Chennai", District: "Chennai", State: "Tamil Nadu"},
}

// AccentedRow carries non-ASCII capitals. It is imported only by the suites
// that check case folding, so counts over SeedRows stay unchanged.
var AccentedRow = repository.ImportRow{
	IFSC: "ECOL0000001", BankName: "ÉCOLE BANK", Branch: "Île Saint-Louis", Address: "6 Quai d'Orléans",
	City: "PARIS", District: "ÎLE-DE-FRANCE", State: "ÉTAT",
}

func withAccentedRow(t *testing.T, f Fixture) {
	t.Helper()
	if _, err := f.Importer.Import(context.Background(), []repository.ImportRow{AccentedRow}); err != nil {
		t.Fatalf("import accented row: %v", err)
	}
}

func seeded(t *testing.T, makeFixture Factory) Fixture {
	t.Helper()
	f, cleanup := makeFixture(t)
	t.Cleanup(cleanup)
	if _, err := f.Importer.Import(context.Background(), SeedRows); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return f
}

func contains(field repository.Field, v string) repository.Predicate {
	return repository.Predicate{Field: field, Match: repository.MatchContains, Value: v}
}

func exact(field repository.Field, v string) repository.Predicate {
	return repository.Predicate{Field: field, Match: repository.MatchExact, Value: v}
}

func ifscs(branches []model.Branch) []string {
	out := make([]string, len(branches))
	for i, b := range branches {
		out[i] = b.IFSC
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func RunImporterContract(t *testing.T, makeFixture Factory) {
	t.Helper()

	t.Run("import_then_reimport", func(t *testing.T) {
		f, cleanup := makeFixture(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		res, err := f.Importer.Import(ctx, SeedRows)
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if res.Banks != 3 || res.Branches != 5 {
			t.Fatalf("unexpected first import: %+v", res)
		}
		res, err = f.Importer.Import(ctx, SeedRows)
		if err != nil {
			t.Fatalf("reimport: %v", err)
		}
		if res.Banks != 0 || res.Branches != 0 {
			t.Fatalf("reimport must skip existing rows, got %+v", res)
		}
	})
}

func RunBankRepositoryContract(t *testing.T, makeFixture Factory) {
	t.Helper()

	t.Run("list_ordered_by_id", func(t *testing.T) {
		f := seeded(t, makeFixture)
		banks, err := f.Banks.List(context.Background(), nil, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(banks) != 3 {
			t.Fatalf("expected 3 banks, got %d", len(banks))
		}
		for i := 1; i < len(banks); i++ {
			if banks[i-1].ID >= banks[i].ID {
				t.Fatalf("banks not ordered by id: %+v", banks)
			}
		}
		if banks[0].Name != "ALPHA BANK" || banks[2].Name != "GAMMA COOPERATIVE" {
			t.Fatalf("unexpected order: %+v", banks)
		}
	})

	t.Run("count_and_offset_windows", func(t *testing.T) {
		f := seeded(t, makeFixture)
		ctx := context.Background()
		n, err := f.Banks.Count(ctx, nil)
		if err != nil || n != 3 {
			t.Fatalf("count=%d err=%v", n, err)
		}
		first, err := f.Banks.List(ctx, nil, repository.Page{Limit: 2, Offset: 0})
		if err != nil || len(first) != 2 {
			t.Fatalf("first window len=%d err=%v", len(first), err)
		}
		rest, err := f.Banks.List(ctx, nil, repository.Page{Limit: 2, Offset: 2})
		if err != nil || len(rest) != 1 {
			t.Fatalf("second window len=%d err=%v", len(rest), err)
		}
		if rest[0].ID <= first[1].ID {
			t.Fatalf("windows overlap: %+v %+v", first, rest)
		}
		past, err := f.Banks.List(ctx, nil, repository.Page{Limit: 2, Offset: 10})
		if err != nil || len(past) != 0 {
			t.Fatalf("window past the end len=%d err=%v", len(past), err)
		}
	})

	t.Run("name_filter", func(t *testing.T) {
		f := seeded(t, makeFixture)
		ctx := context.Background()
		preds := []repository.Predicate{contains(repository.FieldBankName, "Bank")}
		n, err := f.Banks.Count(ctx, preds)
		if err != nil || n != 2 {
			t.Fatalf("count=%d err=%v", n, err)
		}
		banks, err := f.Banks.List(ctx, preds, repository.Page{Limit: 10})
		if err != nil || len(banks) != 2 {
			t.Fatalf("len=%d err=%v", len(banks), err)
		}
	})

	t.Run("name_filter_folds_non_ascii", func(t *testing.T) {
		f := seeded(t, makeFixture)
		withAccentedRow(t, f)
		ctx := context.Background()
		preds := []repository.Predicate{contains(repository.FieldBankName, "école")}
		n, err := f.Banks.Count(ctx, preds)
		if err != nil || n != 1 {
			t.Fatalf("count=%d err=%v", n, err)
		}
		banks, err := f.Banks.List(ctx, preds, repository.Page{Limit: 10})
		if err != nil || len(banks) != 1 || banks[0].Name != AccentedRow.BankName {
			t.Fatalf("banks=%+v err=%v", banks, err)
		}
	})

	t.Run("branch_field_rejected", func(t *testing.T) {
		f := seeded(t, makeFixture)
		_, err := f.Banks.Count(context.Background(), []repository.Predicate{contains(repository.FieldCity, "Pune")})
		if err == nil {
			t.Fatal("expected error for a branch-only field")
		}
	})

	t.Run("get_by_id_and_not_found", func(t *testing.T) {
		f := seeded(t, makeFixture)
		ctx := context.Background()
		banks, _ := f.Banks.List(ctx, nil, repository.Page{Limit: 1})
		got, err := f.Banks.GetByID(ctx, banks[0].ID)
		if err != nil || got != banks[0] {
			t.Fatalf("get: %+v err=%v", got, err)
		}
		_, err = f.Banks.GetByID(ctx, 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("get_by_ids_skips_missing", func(t *testing.T) {
		f := seeded(t, makeFixture)
		ctx := context.Background()
		banks, _ := f.Banks.List(ctx, nil, repository.Page{Limit: 10})
		got, err := f.Banks.GetByIDs(ctx, []int64{banks[1].ID, 999999, banks[0].ID, banks[1].ID})
		if err != nil {
			t.Fatalf("get many: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 banks, got %+v", got)
		}
		none, err := f.Banks.GetByIDs(ctx, nil)
		if err != nil || len(none) != 0 {
			t.Fatalf("empty ids: %+v err=%v", none, err)
		}
	})
}

func RunBranchRepositoryContract(t *testing.T, makeFixture Factory) {
	t.Helper()

	t.Run("list_ordered_by_ifsc_keeps_dangling", func(t *testing.T) {
		f := seeded(t, makeFixture)
		branches, err := f.Branches.List(context.Background(), nil, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []string{"ALPH0000001", "ALPH0000002", "BETA0000001", "GAMM0000001", "ZZZZ0000001"}
		if !equal(ifscs(branches), want) {
			t.Fatalf("got %v want %v", ifscs(branches), want)
		}
		if branches[4].BankID != 0 {
			t.Fatalf("branch without bank must report bank id 0, got %d", branches[4].BankID)
		}
		if branches[0].BankID == 0 || branches[0].BankID != branches[1].BankID {
			t.Fatalf("ALPHA branches must share a bank: %+v", branches[:2])
		}
	})

	cases := []struct {
		name  string
		preds []repository.Predicate
		want  []string
	}{
		{"city_contains_case_insensitive", []repository.Predicate{contains(repository.FieldCity, "umba")}, []string{"ALPH0000001", "BETA0000001"}},
		{"ifsc_exact", []repository.Predicate{exact(repository.FieldIFSC, "gamm0000001")}, []string{"GAMM0000001"}},
		{"ifsc_no_partial", []repository.Predicate{exact(repository.FieldIFSC, "GAMM")}, []string{}},
		{"state_contains", []repository.Predicate{contains(repository.FieldState, "MAHARASHTRA")}, []string{"ALPH0000001", "ALPH0000002", "BETA0000001"}},
		{"district_contains", []repository.Predicate{contains(repository.FieldDistrict, "suburban")}, []string{"BETA0000001"}},
		{"bank_name_contains", []repository.Predicate{contains(repository.FieldBankName, "alpha")}, []string{"ALPH0000001", "ALPH0000002"}},
		{"branch_name_contains", []repository.Predicate{contains(repository.FieldBranchName, "place")}, []string{"GAMM0000001"}},
		{"percent_is_literal", []repository.Predicate{contains(repository.FieldBranchName, "100%")}, []string{"BETA0000001"}},
		{"underscore_is_literal", []repository.Predicate{contains(repository.FieldBranchName, "_")}, []string{"BETA0000001"}},
		{"conjunction", []repository.Predicate{contains(repository.FieldCity, "Mumbai"), contains(repository.FieldBankName, "beta")}, []string{"BETA0000001"}},
		{"no_match", []repository.Predicate{contains(repository.FieldCity, "ZZZZZ_NONEXISTENT")}, []string{}},
	}
	for _, tc := range cases {
		t.Run("filter_"+tc.name, func(t *testing.T) {
			f := seeded(t, makeFixture)
			ctx := context.Background()
			n, err := f.Branches.Count(ctx, tc.preds)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			got, err := f.Branches.List(ctx, tc.preds, repository.Page{Limit: 10})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if n != len(tc.want) || !equal(ifscs(got), tc.want) {
				t.Fatalf("count=%d got %v want %v", n, ifscs(got), tc.want)
			}
		})
	}

	t.Run("filter_folds_non_ascii", func(t *testing.T) {
		f := seeded(t, makeFixture)
		withAccentedRow(t, f)
		ctx := context.Background()
		for _, preds := range [][]repository.Predicate{
			{contains(repository.FieldBankName, "école")},
			{contains(repository.FieldBranchName, "île saint")},
			{contains(repository.FieldDistrict, "Île-de")},
			{contains(repository.FieldState, "état")},
		} {
			n, err := f.Branches.Count(ctx, preds)
			if err != nil {
				t.Fatalf("count %+v: %v", preds, err)
			}
			got, err := f.Branches.List(ctx, preds, repository.Page{Limit: 10})
			if err != nil {
				t.Fatalf("list %+v: %v", preds, err)
			}
			if n != 1 || !equal(ifscs(got), []string{AccentedRow.IFSC}) {
				t.Fatalf("%+v: count=%d got %v", preds, n, ifscs(got))
			}
		}
	})

	t.Run("get_by_ifsc", func(t *testing.T) {
		f := seeded(t, makeFixture)
		ctx := context.Background()
		b, err := f.Branches.GetByIFSC(ctx, "BETA0000001")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if b.Branch != "Andheri 100%_West" || b.City != "MUMBAI" || b.BankID == 0 {
			t.Fatalf("unexpected branch: %+v", b)
		}
		_, err = f.Branches.GetByIFSC(ctx, "NONE0000000")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeFixture Factory) {
	t.Helper()

	t.Run("reads_inside_tx", func(t *testing.T) {
		f := seeded(t, makeFixture)
		var (
			n    int
			page []model.Branch
		)
		err := f.Tx.WithinReadTx(context.Background(), func(ctx context.Context) error {
			var err error
			if n, err = f.Branches.Count(ctx, nil); err != nil {
				return err
			}
			// nested call joins the outer transaction
			return f.Tx.WithinReadTx(ctx, func(ctx context.Context) error {
				page, err = f.Branches.List(ctx, nil, repository.Page{Limit: n})
				return err
			})
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		if n != 5 || len(page) != n {
			t.Fatalf("count=%d page=%d", n, len(page))
		}
	})

	t.Run("error_propagates", func(t *testing.T) {
		f, cleanup := makeFixture(t)
		t.Cleanup(cleanup)
		sentinel := errors.New("boom")
		err := f.Tx.WithinReadTx(context.Background(), func(ctx context.Context) error { return sentinel })
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makeFixture Factory) {
	t.Helper()
	f, cleanup := makeFixture(t)
	t.Cleanup(cleanup)
	if err := f.Pinger.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
