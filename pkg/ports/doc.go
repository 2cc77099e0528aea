// Package ports defines the driven-side interfaces the built-in stages
// depend on: the opaque analysis/decision/review computations and the
// analyst report cache. Adapters live under pkg/adapters; each port
// ships an exported contract suite (Run*Contract) that implementations
// run in their own tests.
package ports
