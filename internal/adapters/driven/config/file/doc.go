// Package file holds the file-backed configuration and watermark
// adapters. Configuration is a single TOML document; the watermark is a
// tiny TOML file of its own, written atomically so a crash mid-write
// can never corrupt the sync window.
package file
