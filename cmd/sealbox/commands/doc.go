// Package commands implements the sealbox CLI: an operations and demo
// surface over the encrypted messaging core. One process invocation owns
// one session cache, closed (and wiped) on exit.
package commands
