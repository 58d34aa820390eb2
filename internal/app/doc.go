// Package app loads configuration and wires stores and services into the
// dependency graph the CLI (or an embedding server) consumes.
package app
