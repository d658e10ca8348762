// Package metrics defines the Prometheus collectors of the service. They are
// registered on the default registry via promauto and exposed at /metrics.
//
//   - bankgraph_storage_queries_total{backend, entity, op, outcome} (Counter)
//   - bankgraph_storage_query_duration_seconds{backend, entity, op} (Histogram)
//   - bankgraph_graphql_requests_total{outcome} (Counter)
//   - bankgraph_graphql_request_duration_seconds (Histogram)
package metrics

import (
	"errors"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bankgraph"

var (
	StorageQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_queries_total",
		Help:      "Storage reads by backend, entity, operation and outcome.",
	}, []string{"backend", "entity", "op", "outcome"})

	StorageQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_query_duration_seconds",
		Help:      "Storage read latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "entity", "op"})

	GraphQLRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_requests_total",
		Help:      "GraphQL requests by outcome (ok, error).",
	}, []string{"outcome"})

	GraphQLRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graphql_request_duration_seconds",
		Help:      "GraphQL execution latency.",
		Buckets:   prometheus.DefBuckets,
	})
)

// TrackStorage starts timing a storage call. The returned func records the
// outcome of *errp when the call returns:
//
//	func (r *repo) Count(ctx context.Context) (n int, err error) {
//		defer metrics.TrackStorage("postgres", "bank", "count")(&err)
func TrackStorage(backend, entity, op string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		StorageQueryDuration.WithLabelValues(backend, entity, op).Observe(time.Since(start).Seconds())
		StorageQueries.WithLabelValues(backend, entity, op, storageOutcome(*errp)).Inc()
	}
}

func storageOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
