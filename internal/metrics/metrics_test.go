package metrics

import (
	"errors"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackStorage_CountsOutcome(t *testing.T) {
	ok := StorageQueries.WithLabelValues("test", "bank", "get", "ok")
	notFound := StorageQueries.WithLabelValues("test", "bank", "get", "not_found")
	beforeOK, beforeNF := testutil.ToFloat64(ok), testutil.ToFloat64(notFound)

	var err error
	TrackStorage("test", "bank", "get")(&err)

	err = repository.ErrNotFound
	TrackStorage("test", "bank", "get")(&err)

	if got := testutil.ToFloat64(ok) - beforeOK; got != 1 {
		t.Fatalf("expected 1 ok observation, got %v", got)
	}
	if got := testutil.ToFloat64(notFound) - beforeNF; got != 1 {
		t.Fatalf("expected 1 not_found observation, got %v", got)
	}
}

func TestStorageOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":          nil,
		"not_found":   repository.ErrNotFound,
		"unavailable": repository.Unavailable(errors.New("timeout")),
		"error":       errors.New("boom"),
	}
	for want, in := range cases {
		if got := storageOutcome(in); got != want {
			t.Fatalf("storageOutcome(%v) = %q, want %q", in, got, want)
		}
	}
}
