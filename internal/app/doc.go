// Package app wires application dependencies for the CLI.
//
// It loads the YAML Config, builds the zap logger and constructs the backend
// client, location picker and signup service, exposing them via the Wire struct
// for commands to use. Each wizard session gets its own Controller from
// Wire.NewController.
package app
