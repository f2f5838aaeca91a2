// Package server implements the init and start subcommands of an
// application daemon.
package server
