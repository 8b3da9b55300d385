package qualitygate

import (
	"github.com/quiltlabs/quilt/internal/composer"
)

// ContextFromResult builds an EvalContext from one composition run.
func ContextFromResult(res *composer.Result, nodesTotal int) *EvalContext {
	ctx := &EvalContext{
		FilesGenerated: len(res.Files),
		NodesTotal:     nodesTotal,
		Paths:          make(map[string]bool, len(res.Files)),
	}
	for p, content := range res.Files {
		ctx.Paths[p] = true
		if content == "" {
			ctx.EmptyFiles = append(ctx.EmptyFiles, p)
		}
	}
	for _, w := range res.Warnings {
		ctx.Warnings = append(ctx.Warnings, w.Message)
	}
	if res.Metrics != nil {
		ctx.MergeCount = res.Metrics.Merges
	}
	return ctx
}

// DefaultPipeline returns the gate set run by the CLI in strict mode:
// output is required, empty files block, excessive warnings advise.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		NewOutputGate(SeverityCritical),
		NewEmptyFileGate(SeverityRequired),
		NewWarningsGate(2.0, SeverityAdvisory),
	)
}
