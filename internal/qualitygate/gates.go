package qualitygate

import "fmt"

// EmptyFileGate checks that no generated file ended up with empty content.
type EmptyFileGate struct {
	severity GateSeverity
}

func NewEmptyFileGate(severity GateSeverity) *EmptyFileGate {
	return &EmptyFileGate{severity: severity}
}

func (g *EmptyFileGate) Name() string           { return "empty-files" }
func (g *EmptyFileGate) Severity() GateSeverity { return g.severity }
func (g *EmptyFileGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	if len(ctx.EmptyFiles) == 0 {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = "No empty files in output"
	} else {
		r.Status = GateFailed
		r.Score = 0.0
		r.Message = fmt.Sprintf("%d generated file(s) are empty", len(ctx.EmptyFiles))
		r.Details = ctx.EmptyFiles
	}
	return r, nil
}

// WarningsGate checks that merge warnings stay under a per-node budget.
type WarningsGate struct {
	MaxPerNode float64
	severity   GateSeverity
}

func NewWarningsGate(maxPerNode float64, severity GateSeverity) *WarningsGate {
	return &WarningsGate{MaxPerNode: maxPerNode, severity: severity}
}

func (g *WarningsGate) Name() string           { return "warnings" }
func (g *WarningsGate) Severity() GateSeverity { return g.severity }
func (g *WarningsGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:      g.Name(),
		Severity:  g.severity,
		Threshold: g.MaxPerNode,
	}
	if ctx.NodesTotal == 0 {
		r.Status = GateSkipped
		r.Message = "No nodes composed"
		return r, nil
	}

	perNode := float64(len(ctx.Warnings)) / float64(ctx.NodesTotal)
	r.Score = perNode
	if perNode <= g.MaxPerNode {
		r.Status = GatePassed
		r.Message = fmt.Sprintf("%.1f warnings per node within budget %.1f", perNode, g.MaxPerNode)
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("%.1f warnings per node exceeds budget %.1f (%d total)",
			perNode, g.MaxPerNode, len(ctx.Warnings))
		r.Details = ctx.Warnings
	}
	return r, nil
}

// RequiredPathsGate checks that the output contains a set of anchor files,
// typically the scaffold entry points.
type RequiredPathsGate struct {
	Paths    []string
	severity GateSeverity
}

func NewRequiredPathsGate(paths []string, severity GateSeverity) *RequiredPathsGate {
	return &RequiredPathsGate{Paths: paths, severity: severity}
}

func (g *RequiredPathsGate) Name() string           { return "required-paths" }
func (g *RequiredPathsGate) Severity() GateSeverity { return g.severity }
func (g *RequiredPathsGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	if len(g.Paths) == 0 {
		r.Status = GateSkipped
		r.Message = "No required paths configured"
		return r, nil
	}

	var missing []string
	for _, p := range g.Paths {
		if !ctx.Paths[p] {
			missing = append(missing, p)
		}
	}
	found := len(g.Paths) - len(missing)
	r.Score = float64(found) / float64(len(g.Paths))
	r.Threshold = 1.0

	if len(missing) == 0 {
		r.Status = GatePassed
		r.Message = fmt.Sprintf("All %d required paths present", len(g.Paths))
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("%d of %d required paths missing", len(missing), len(g.Paths))
		r.Details = missing
	}
	return r, nil
}

// OutputGate checks that the run produced any files at all.
type OutputGate struct {
	severity GateSeverity
}

func NewOutputGate(severity GateSeverity) *OutputGate {
	return &OutputGate{severity: severity}
}

func (g *OutputGate) Name() string           { return "output" }
func (g *OutputGate) Severity() GateSeverity { return g.severity }
func (g *OutputGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	if ctx.FilesGenerated > 0 {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = fmt.Sprintf("Run produced %d files", ctx.FilesGenerated)
	} else {
		r.Status = GateFailed
		r.Score = 0.0
		r.Message = "Run produced no files"
	}
	return r, nil
}
