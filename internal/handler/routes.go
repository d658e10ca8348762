package handler

// Fixed routes. The GraphQL endpoint path comes from configuration
// (http.graphql_path); DefaultGraphQLPath is its default.
const (
	DefaultGraphQLPath = "/graphql"
	SchemaPath         = "/schema.graphql"
	HealthPath         = "/health"
	LivePath           = "/live"
	ReadyPath          = "/ready"
	StatsPath          = "/stats"
	MetricsPath        = "/metrics"
)
