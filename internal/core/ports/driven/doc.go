// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): persistence stores, the text extraction
// capabilities, and the embedding service.
package driven
