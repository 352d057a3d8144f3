// Package trace provides durable storage for step reports.
//
// Every run of a step list produces an ordered sequence of reports, one
// per executed step. The trace store persists those reports to SQLite so
// that harness assertions and the CLI can inspect what a run did after
// the fact.
//
// # ARCHITECTURE
//
// A run is identified by a caller-chosen run ID (UUIDv7 by convention,
// see NewRunID). Reports within a run are keyed by a monotonically
// increasing sequence number assigned by the Sink. Writes use ON
// CONFLICT DO NOTHING so replaying a run against the same database is
// idempotent.
//
// The Sink type adapts a Store to the runner's report interface.
package trace
