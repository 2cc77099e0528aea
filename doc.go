/*
Package synod is a deterministic decision pipeline for financial
instruments: concurrent analysts, an adversarial bull/bear debate, and
a reviewed trading decision with a bounded feedback loop.

It implements a "fan-out, deliberate, decide, review" architecture over
an immutable context store. Stages declare what they read and write,
the kernel enforces those contracts, and every merge produces a new
context version, so a run is fully reproducible from its inputs.

# Concept

A run starts from an instrument identifier and an optional seed. Four
analysts (technical, sentiment, news, fundamentals) execute concurrently
against the same snapshot and their reports are merged all-or-nothing.
A sequential deliberation follows: bull and bear researchers argue in
fixed order, a judge synthesizes the debate, and a risk stage assesses
the exposure. Finally the trader proposes a decision and a reflection
oracle reviews it; a revise verdict feeds the critique back into the
context and reruns the trader, up to a configured attempt budget. When
the budget is spent, the last decision is returned marked unverified.

# Key Features

  - Deterministic merges: fan-in results are order-independent, and
    conflicting write-sets are rejected at composition time.
  - Hexagonal architecture: analysis, decision and review are ports;
    any data source or inference service can sit behind them.
  - Bounded feedback: the review loop always terminates, accepted or
    exhausted, never silently discarding a decision.
  - Observability: lifecycle hooks feed structured logs and metrics
    without touching the kernel.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"synod"
		"synod/pkg/adapters/heuristic"
	)

	func main() {
		pipeline, err := synod.New(
			heuristic.NewAnalyzer(),
			heuristic.NewTrader(),
			heuristic.NewOracle(),
		)
		if err != nil {
			log.Fatal(err)
		}

		outcome, err := pipeline.Run(context.Background(), "NVDA", nil)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(outcome.Decision.Action, outcome.State)
	}
*/
package synod
