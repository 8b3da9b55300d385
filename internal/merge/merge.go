// Package merge combines two file contents destined for the same output
// path. The strategy is chosen from the filename alone: barrel index files,
// type-declaration files, and constant-declaration files can be merged;
// anything else keeps the first writer and reports a warning.
package merge

import (
	"fmt"
	"path"
	"strings"
)

// Result is the outcome of one merge. Success is false only when the
// filename maps to no known strategy; Content is then the existing content
// unchanged and the caller decides policy (typically first writer wins).
type Result struct {
	Success  bool
	Content  string
	Warnings []string
}

// Strategy identifies how a colliding file is merged.
type Strategy int

const (
	StrategyUnsupported Strategy = iota
	StrategyBarrel
	StrategyTypes
	StrategyConstants
)

func (s Strategy) String() string {
	switch s {
	case StrategyBarrel:
		return "barrel"
	case StrategyTypes:
		return "types"
	case StrategyConstants:
		return "constants"
	default:
		return "unsupported"
	}
}

// DetectStrategy picks the merge strategy from the final filename.
func DetectStrategy(filename string) Strategy {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))

	switch {
	case stem == "index":
		return StrategyBarrel
	case strings.HasSuffix(base, ".d.ts"):
		return StrategyTypes
	case stem == "types" || strings.HasSuffix(stem, ".types") || strings.HasSuffix(stem, "-types"):
		return StrategyTypes
	case stem == "constants" || strings.HasSuffix(stem, ".constants") || strings.HasSuffix(stem, "-constants"):
		return StrategyConstants
	default:
		return StrategyUnsupported
	}
}

// Merge combines incoming content into existing content. Callers must pass
// the first-seen content as existing and the later colliding content as
// incoming: processing order is significant and caller-controlled.
func Merge(existing, incoming, filename string) Result {
	switch DetectStrategy(filename) {
	case StrategyBarrel:
		return mergeBarrel(existing, incoming)
	case StrategyTypes:
		return mergeDeclarations(existing, incoming, typesRules)
	case StrategyConstants:
		return mergeDeclarations(existing, incoming, constantsRules)
	default:
		return Result{
			Success: false,
			Content: existing,
			Warnings: []string{
				fmt.Sprintf("Cannot merge %s: no merge strategy for this file type, keeping first version", filename),
			},
		}
	}
}
