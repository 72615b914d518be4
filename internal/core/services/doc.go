// Package services contains the application core: the batch pipeline
// orchestrator, the tag labeler, location resolution, the path exclusion
// policy, and semantic query. Services depend only on the driven ports;
// adapters are injected at CLI wiring time.
package services
