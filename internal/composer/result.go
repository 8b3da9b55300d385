package composer

import (
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/metrics"
)

// Phase names the step of the per-node state machine a failure occurred in.
type Phase string

const (
	PhaseResolvePlugin Phase = "resolve-plugin"
	PhaseGenerate      Phase = "generate"
	PhaseFold          Phase = "fold"
)

// RunError is a fatal per-node failure that aborted the whole run.
type RunError struct {
	NodeID string
	Phase  Phase
	Err    error
}

func (e *RunError) Error() string { return e.Err.Error() }
func (e *RunError) Unwrap() error { return e.Err }

// Warning is an advisory attached to an otherwise-successful run: a merge
// duplicate-skip or an unmergeable collision resolved in the first writer's
// favor.
type Warning struct {
	NodeID  string `json:"node_id"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the finalized output of one generation run: the output file map
// (final resolved path → merged content, unique by construction) plus the
// aggregated non-file outputs and advisory warnings.
type Result struct {
	RunID      string
	Files      map[string]string
	EnvVars    []codegen.EnvVar
	Scripts    []codegen.Script
	Interfaces []codegen.InterfaceDecl
	Docs       []codegen.Doc
	Warnings   []Warning
	Metrics    *metrics.GenerationMetrics
}

func newResult(runID string) *Result {
	return &Result{
		RunID: runID,
		Files: make(map[string]string),
	}
}
