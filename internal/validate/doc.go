// Package validate holds the pure field rules for each registration stage.
//
// Each stage is checked as a small struct tagged for go-playground/validator
// with three custom tags:
//
//   - notblank    value is non-empty after trimming whitespace
//   - phone10     value has exactly ten digits once non-digits are stripped
//   - basicemail  value has the local@domain.tld shape
//
// Failures are translated into a StageErrors map keyed by the form field name.
// An empty map means the stage is valid. Nothing here has side effects.
package validate
