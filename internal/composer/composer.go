// Package composer drives one generation run: it resolves each blueprint
// node's plugin, invokes generation, routes every output file through path
// resolution, and folds the results into a single output file map, merging
// on collision.
package composer

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/merge"
	"github.com/quiltlabs/quilt/internal/metrics"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// TracerName is the instrumentation scope for composer spans.
const TracerName = "github.com/quiltlabs/quilt/internal/composer"

// Composer folds per-node plugin outputs into one generation result. Nodes
// are processed strictly one at a time in the order supplied by the caller:
// the merger's existing-vs-incoming semantics depend on that order.
type Composer struct {
	registry *plugins.Registry
	tracer   trace.Tracer
}

// New creates a composer backed by the given registry.
func New(registry *plugins.Registry) *Composer {
	return &Composer{
		registry: registry,
		tracer:   otel.Tracer(TracerName),
	}
}

// Compose runs one generation. The first unrecoverable error (registry
// miss, plugin generation failure) aborts the whole run with no partial
// result: a half-merged file map is not usable output. Merge failures on
// path collisions are not fatal; the first writer wins and a warning is
// recorded.
func (c *Composer) Compose(ctx context.Context, bp *blueprint.Blueprint) (*Result, error) {
	runID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "composer.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("blueprint.nodes", len(bp.Nodes)),
		))
	defer span.End()

	pathCtx := codegen.BuildPathContext(bp.Nodes)
	result := newResult(runID)
	m := metrics.New(runID)

	for i := range bp.Nodes {
		node := &bp.Nodes[i]
		nm, err := c.composeNode(ctx, node, pathCtx, result)
		m.AddNode(nm)
		if err != nil {
			m.Finish(err)
			span.RecordError(err)
			return nil, err
		}
	}

	m.CollectFiles(result.Files)
	m.Finish(nil)
	result.Metrics = m
	return result, nil
}

func (c *Composer) composeNode(ctx context.Context, node *blueprint.Node, pathCtx codegen.PathContext, result *Result) (metrics.NodeMetrics, error) {
	start := time.Now()
	nm := metrics.NodeMetrics{NodeID: node.ID, PluginID: node.Type}

	ctx, span := c.tracer.Start(ctx, "composer.node",
		trace.WithAttributes(
			attribute.String("node.id", node.ID),
			attribute.String("node.type", node.Type),
		))
	defer span.End()

	plugin, err := c.registry.Resolve(node.Type)
	if err != nil {
		nm.Duration = time.Since(start)
		return nm, &RunError{NodeID: node.ID, Phase: PhaseResolvePlugin,
			Err: fmt.Errorf("node %q (type %q): %w", node.ID, node.Type, err)}
	}

	output, err := plugin.Generate(ctx, node, pathCtx)
	if err != nil {
		nm.Duration = time.Since(start)
		return nm, &RunError{NodeID: node.ID, Phase: PhaseGenerate,
			Err: fmt.Errorf("node %q: generate: %w", node.ID, err)}
	}

	files := collectFiles(plugin, output)
	for _, f := range files {
		finalPath := codegen.Resolve(f.Path, f.Category, pathCtx, codegen.ResolveOptions{Scope: node.ID})
		merged, warnings := foldFile(result, finalPath, f.Content)
		if merged {
			nm.Merges++
		}
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, Warning{NodeID: node.ID, Path: finalPath, Message: w})
		}
		nm.Warnings += len(warnings)
	}
	nm.Files = len(files)

	// Non-file outputs concatenate in node-processing order; callers that
	// need deduplication apply it downstream.
	result.EnvVars = append(result.EnvVars, output.EnvVars...)
	result.Scripts = append(result.Scripts, output.Scripts...)
	result.Interfaces = append(result.Interfaces, output.Interfaces...)
	result.Docs = append(result.Docs, output.Docs...)

	nm.Duration = time.Since(start)
	return nm, nil
}

// collectFiles gathers a plugin's generated files plus the bulk-file
// variants: a pre-built component package routed through glob rules, and
// ready-made handler files destined for the API-route directory.
func collectFiles(plugin plugins.Plugin, output *codegen.Output) []codegen.File {
	files := make([]codegen.File, 0, len(output.Files))
	files = append(files, output.Files...)

	if pkg, ok := plugin.(plugins.ComponentPackageProvider); ok {
		rules := pkg.PackageRouting()
		for _, pf := range pkg.ComponentPackage() {
			files = append(files, codegen.File{
				Path:     pf.Path,
				Content:  pf.Content,
				Category: routeCategory(pf.Path, rules),
			})
		}
	}
	if h, ok := plugin.(plugins.HandlerDirProvider); ok {
		for _, pf := range h.HandlerFiles() {
			files = append(files, codegen.File{
				Path:     pf.Path,
				Content:  pf.Content,
				Category: codegen.CategoryBackendRoutes,
			})
		}
	}
	return files
}

// routeCategory matches a package file path against the routing rules; the
// first match wins, no match means the path is already final.
func routeCategory(p string, rules []plugins.RouteRule) codegen.Category {
	for _, r := range rules {
		if matchGlob(r.Pattern, p) {
			return r.Category
		}
	}
	return codegen.CategoryNone
}

// matchGlob supports plain path.Match patterns plus a leading "**/" that
// matches the pattern at any directory depth.
func matchGlob(pattern, p string) bool {
	if ok, _ := path.Match(pattern, p); ok {
		return true
	}
	tail, hasPrefix := strings.CutPrefix(pattern, "**/")
	if !hasPrefix {
		return false
	}
	if ok, _ := path.Match(tail, p); ok {
		return true
	}
	segs := strings.Split(p, "/")
	for i := 1; i < len(segs); i++ {
		if ok, _ := path.Match(tail, strings.Join(segs[i:], "/")); ok {
			return true
		}
	}
	return false
}

// foldFile inserts content at finalPath, merging when the path is already
// taken. Reports whether a merge happened and any warnings produced. A
// failed merge keeps the existing content; the colliding file is dropped.
func foldFile(result *Result, finalPath, content string) (bool, []string) {
	existing, collision := result.Files[finalPath]
	if !collision {
		result.Files[finalPath] = content
		return false, nil
	}
	res := merge.Merge(existing, content, finalPath)
	result.Files[finalPath] = res.Content
	return res.Success, res.Warnings
}
