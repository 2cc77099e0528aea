// Package domain defines the data model shared by the pipeline kernel
// and its stages: the immutable context store, the stage contract, the
// debate transcript, verdicts, the final trading decision, the error
// taxonomy, and lifecycle events.
//
// Nothing in this package performs work; it is the vocabulary the
// kernel (internal/runtime) and the stage implementations (pkg/stages)
// agree on.
package domain
