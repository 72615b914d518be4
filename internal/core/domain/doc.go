// Package domain contains the core entities of the file tagging system:
// catalogued files and their server locations, the filing tag taxonomy,
// tag label assignments, extracted content with embeddings, and path
// exclusion rules.
//
// Entities here carry no persistence or I/O concerns. The presence of a
// Content row is the canonical "already processed" marker for a file;
// there is no separate status field.
package domain
