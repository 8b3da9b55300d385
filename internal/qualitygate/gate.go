// Package qualitygate evaluates a finished composition run against
// configurable pass/fail criteria before its output is accepted.
package qualitygate

import (
	"fmt"
	"time"
)

// GateStatus represents the result of a quality gate check.
type GateStatus string

const (
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
	GateSkipped GateStatus = "skipped"
	GateWarning GateStatus = "warning"
)

// GateSeverity indicates how critical a gate failure is.
type GateSeverity string

const (
	SeverityCritical GateSeverity = "critical" // Output must be rejected
	SeverityRequired GateSeverity = "required" // Must pass but allows retry
	SeverityAdvisory GateSeverity = "advisory" // Warning only, does not block
)

// GateResult captures the outcome of a single gate evaluation.
type GateResult struct {
	Name        string        `json:"name"`
	Status      GateStatus    `json:"status"`
	Severity    GateSeverity  `json:"severity"`
	Score       float64       `json:"score"`     // 0.0-1.0 normalized
	Threshold   float64       `json:"threshold"` // Required minimum
	Message     string        `json:"message"`
	Details     []string      `json:"details,omitempty"`
	Duration    time.Duration `json:"duration"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

// Gate is the interface all quality gates must implement.
type Gate interface {
	Name() string
	Severity() GateSeverity
	Evaluate(ctx *EvalContext) (*GateResult, error)
}

// EvalContext provides data for gate evaluation, drawn from one
// composition run's result.
type EvalContext struct {
	FilesGenerated int               // Final output file count
	EmptyFiles     []string          // Paths whose content is empty
	NodesTotal     int               // Blueprint nodes composed
	MergeCount     int               // Same-path collisions merged
	Warnings       []string          // Run warnings (merge skips etc.)
	Paths          map[string]bool   // Set of final output paths
	Metadata       map[string]string // Additional context
}

// PipelineResult captures the complete gate pipeline evaluation.
type PipelineResult struct {
	Status       GateStatus    `json:"status"` // Overall: passed if all required gates pass
	Gates        []GateResult  `json:"gates"`
	PassedCount  int           `json:"passed_count"`
	FailedCount  int           `json:"failed_count"`
	SkippedCount int           `json:"skipped_count"`
	WarningCount int           `json:"warning_count"`
	Duration     time.Duration `json:"duration"`
	EvaluatedAt  time.Time     `json:"evaluated_at"`
	Summary      string        `json:"summary"`
}

// Pipeline orchestrates multiple quality gates in sequence.
type Pipeline struct {
	gates []Gate
}

// NewPipeline creates a new quality gate pipeline.
func NewPipeline(gates ...Gate) *Pipeline {
	return &Pipeline{gates: gates}
}

// AddGate appends a gate to the pipeline.
func (p *Pipeline) AddGate(g Gate) {
	p.gates = append(p.gates, g)
}

// Run evaluates all gates against the provided context. A critical gate
// failure stops evaluation; remaining gates are recorded as skipped.
func (p *Pipeline) Run(ctx *EvalContext) *PipelineResult {
	start := time.Now()
	result := &PipelineResult{
		Status:      GatePassed,
		EvaluatedAt: start,
	}

	aborted := false
	for _, g := range p.gates {
		if aborted {
			result.Gates = append(result.Gates, GateResult{
				Name:        g.Name(),
				Status:      GateSkipped,
				Severity:    g.Severity(),
				Message:     "Skipped: earlier critical gate failed",
				EvaluatedAt: time.Now(),
			})
			result.SkippedCount++
			continue
		}

		gateStart := time.Now()
		gr, err := g.Evaluate(ctx)
		if err != nil {
			gr = &GateResult{
				Name:     g.Name(),
				Status:   GateFailed,
				Severity: g.Severity(),
				Message:  fmt.Sprintf("Gate evaluation error: %v", err),
			}
		}
		gr.Duration = time.Since(gateStart)
		gr.EvaluatedAt = gateStart
		result.Gates = append(result.Gates, *gr)

		switch gr.Status {
		case GatePassed:
			result.PassedCount++
		case GateSkipped:
			result.SkippedCount++
		case GateWarning:
			result.WarningCount++
		case GateFailed:
			if g.Severity() == SeverityAdvisory {
				result.WarningCount++
				break
			}
			result.FailedCount++
			result.Status = GateFailed
			if g.Severity() == SeverityCritical {
				aborted = true
			}
		}
	}

	result.Duration = time.Since(start)
	result.Summary = fmt.Sprintf("%d passed, %d failed, %d skipped, %d warnings",
		result.PassedCount, result.FailedCount, result.SkippedCount, result.WarningCount)
	return result
}
