// Package ingest provides bulk import of captured records.
//
// The Importer fans item preparation (validation, id derivation,
// catalog writes) out over a worker pool, while index commits happen in
// batches on a single goroutine under the engine lock. Per-item
// failures are logged and counted but do not abort the import.
package ingest
