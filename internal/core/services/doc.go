// Package services contains the core business logic: the delta-sync
// state machine, the chunk-and-batch ingestion engine and the retrieval
// context assembler. Services depend only on domain types and ports.
package services
