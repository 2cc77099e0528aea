package domain

import "context"

// Contract declares, ahead of execution, which context fields a stage
// reads and which it writes. The kernel validates write-set disjointness
// within a fan-out group at composition time, and checks after every
// execution that a stage only wrote what it declared.
type Contract struct {
	Reads  []string
	Writes []string
}

// WritesField reports whether the contract declares key as a write.
func (c Contract) WritesField(key string) bool {
	for _, w := range c.Writes {
		if w == key {
			return true
		}
	}
	return false
}

// StageResult is a successful stage's partial context update. A failing
// stage returns an error instead and contributes nothing to the merged
// context.
type StageResult struct {
	Updates map[string]any
}

// Stage is an opaque unit of computation. It receives an immutable
// context snapshot and cannot affect siblings running concurrently.
// How a stage produces its result (model calls, market data, rules) is
// invisible to the kernel.
type Stage interface {
	Name() string
	Contract() Contract
	Execute(ctx context.Context, view Context) (StageResult, error)
}

// StageFunc adapts a plain function into a Stage.
type StageFunc struct {
	StageName string
	Decl      Contract
	Fn        func(ctx context.Context, view Context) (StageResult, error)
}

func (s StageFunc) Name() string       { return s.StageName }
func (s StageFunc) Contract() Contract { return s.Decl }

func (s StageFunc) Execute(ctx context.Context, view Context) (StageResult, error) {
	return s.Fn(ctx, view)
}
