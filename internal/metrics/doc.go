// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package metrics defines the Prometheus collectors exported at /metrics.

All collectors are registered on the default registry through promauto.
Components record through the small Record* helpers rather than touching the
vectors directly.

# Metric Families

Store:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

Cache lookups:
  - cache_lookups_total{kind,outcome}   outcome: normalized, stale, miss, not_found, error

Provider:
  - provider_requests_total{endpoint,status}
  - provider_request_duration_seconds{endpoint}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Enrichment pool:
  - enrich_queue_depth
  - enrich_in_flight
  - enrich_tasks_total{kind,result}
  - enrich_task_duration_seconds{kind}
  - enrich_dropped_total{kind}
  - enrich_coalesced_total{kind}
  - journal_pending_entries

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
*/
package metrics
