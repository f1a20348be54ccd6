// Package domain contains the core business entities for document
// synchronisation and retrieval. Types here have no dependencies on
// adapters or external services.
package domain
