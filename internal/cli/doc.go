// Package cli defines the Cobra command tree for cartctl. Each file registers
// its commands with the root command; openStore in session.go wires the cart
// store to the configured storage, catalog API and terminal notifier.
package cli
