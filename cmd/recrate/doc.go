// Package main hosts the recrate CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into filter
// resolution over the library database, batch conversion runs, and
// configuration scaffolding. It centralizes configuration resolution, library
// locking, and logger setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
