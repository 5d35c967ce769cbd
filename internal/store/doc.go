// Package store provides the persistence used by the development backend.
//
// It contains concrete implementations of the domain storage interfaces:
//   - Registered accounts with bcrypt password hashes (AccountFileStore)
//   - A small gazetteer of places for geocoding (Gazetteer)
//
// AccountFileStore serialises JSON to disk when given a directory and keeps
// everything in memory otherwise. All methods are concurrency-safe via internal
// locking. WriteFileAtomic is shared with the CLI config writer.
package store
