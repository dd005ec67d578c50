// Package registry stores blueprint documents for the hosting catalog.
//
// The store keeps decoded documents in memory and, when a root directory is
// configured, persists them as canonical YAML. Seeding walks a directory tree
// for blueprint sources; bundles move whole catalogs as compressed archives.
//
// Key Components:
//   - Store: cached, optionally file-backed blueprint storage
//   - Seeder: bulk-loads blueprint files from a directory tree
//   - Bundle import/export: .bpk archives (gzip-compressed tar)
package registry
