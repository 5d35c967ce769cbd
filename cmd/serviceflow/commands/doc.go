// Package commands defines the serviceflow CLI and wires dependencies for subcommands.
//
// Commands
//
//   - register     Register a company (interactive wizard, or --no-input with flags)
//   - locate       Print address suggestions or the current location
//   - config init  Write the default config file
//
// # Implementation
//
// The root command loads the YAML config, builds the zap logger and the
// dependency graph (backend client, location picker, signup service) before any
// subcommand runs. The interactive wizard logs to logging.file or nowhere, so log
// lines never land on the screen it draws.
package commands
