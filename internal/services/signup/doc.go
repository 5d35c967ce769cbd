// Package signup turns a completed registration draft into an account.
//
// It builds the wire request, calls the account endpoint and maps failures to text
// the wizard can show in its error banner. Every submission runs inside a
// "signup.Submit" trace span and is logged with an email fingerprint only.
package signup
