// Package domain defines the registration data model and the contracts shared by
// the wizard, the CLI and the development backend.
// It contains plain types (wire/state) and contracts (interfaces) only.
package domain
