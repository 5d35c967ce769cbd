// Package crypto exposes the small set of primitives ServiceFlow needs.
//
// Contents
//
//   - bcrypt password hashing (HashPassword)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short fingerprints of identifiers for logging (Fingerprint)
//
// # Notes
//
// Plaintext passwords never leave the process that received them except as a
// bcrypt hash. Logs carry a Fingerprint of the email, never the email itself.
package crypto
