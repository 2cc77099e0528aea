// Package runtime is the pipeline orchestration kernel: the fan-out
// group, the sequential chain, the verdict gate, the bounded feedback
// controller, and the driver that composes them into the fixed
// analyst -> deliberation -> gated-decision topology.
//
// The kernel treats every stage as an opaque function with a declared
// read/write contract; it schedules, merges and retries, and knows
// nothing about how stages compute their output.
package runtime
