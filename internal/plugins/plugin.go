// Package plugins defines the contract every code-generating integration
// satisfies and the allow-listed registry the composer resolves them from.
package plugins

import (
	"context"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
)

// Metadata identifies a plugin in the palette.
type Metadata struct {
	ID       string
	Name     string
	Version  string
	Category string
}

// Plugin is the capability set every integration implements: identity,
// config validation, and generation. Generate receives the per-run
// PathContext so a plugin can shape output to the scaffolds present, but
// path placement itself is the resolver's job, not the plugin's.
type Plugin interface {
	Metadata() Metadata
	Validate(node *blueprint.Node) ValidationResult
	Generate(ctx context.Context, node *blueprint.Node, pctx codegen.PathContext) (*codegen.Output, error)
}

// PackageFile is one file of a pre-built bundle a plugin ships verbatim.
type PackageFile struct {
	Path    string
	Content string
}

// RouteRule maps a source-file glob pattern to a path category, routing a
// copied package's files through the resolver.
type RouteRule struct {
	Pattern  string
	Category codegen.Category
}

// ComponentPackageProvider is an optional capability: a plugin that ships a
// pre-built component package to be copied into the output, bypassing
// per-file generation. Files matching no routing rule keep their paths
// unchanged.
type ComponentPackageProvider interface {
	ComponentPackage() []PackageFile
	PackageRouting() []RouteRule
}

// HandlerDirProvider is an optional capability: a plugin that ships
// ready-made request-handler files destined for the generated project's
// API-route directory.
type HandlerDirProvider interface {
	HandlerFiles() []PackageFile
}
