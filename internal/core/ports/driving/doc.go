// Package driving provides interfaces for entry-point adapters
// (primary/inbound ports): the batch pipeline and semantic query surface
// consumed by the CLI.
package driving
