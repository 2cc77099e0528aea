// Package stages implements the trading roles as pipeline stages:
// the fan-out analysts, the bull/bear researchers and judge of the
// debate, the risk synthesizer, the trader, and the reflection gate.
//
// Every stage delegates its actual computation to a port (Analyzer,
// Trader, ReflectionOracle), so the same topology runs against a model
// backend, the offline heuristic adapters, or test fakes.
package stages
