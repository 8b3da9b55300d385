package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

type fakePlugin struct {
	id     string
	out    codegen.Output
	genErr error
}

func (f *fakePlugin) Metadata() plugins.Metadata {
	return plugins.Metadata{ID: f.id, Name: f.id, Version: "1.0.0"}
}

func (f *fakePlugin) Validate(_ *blueprint.Node) plugins.ValidationResult {
	return plugins.ValidationResult{Valid: true}
}

func (f *fakePlugin) Generate(_ context.Context, _ *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	out := f.out
	return &out, nil
}

type packagedPlugin struct {
	fakePlugin
	pkg    []plugins.PackageFile
	routes []plugins.RouteRule
}

func (p *packagedPlugin) ComponentPackage() []plugins.PackageFile { return p.pkg }
func (p *packagedPlugin) PackageRouting() []plugins.RouteRule     { return p.routes }

type handlerPlugin struct {
	fakePlugin
	handlers []plugins.PackageFile
}

func (p *handlerPlugin) HandlerFiles() []plugins.PackageFile { return p.handlers }

func newTestComposer(t *testing.T, ps ...plugins.Plugin) *Composer {
	t.Helper()
	reg := plugins.NewRegistry(nil)
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	return New(reg)
}

// Two nodes emitting a same-named scopable file must land in separate
// per-plugin directories: scope differs, so no collision.
func TestCompose_ScopedFilesDoNotCollide(t *testing.T) {
	scaffold := &fakePlugin{id: "nextjs-scaffold", out: codegen.Output{Files: []codegen.File{
		{Path: "useX.ts", Content: "// scaffold version", Category: codegen.CategoryFrontendHooks},
	}}}
	wallet := &fakePlugin{id: "wallet-auth", out: codegen.Output{Files: []codegen.File{
		{Path: "useX.ts", Content: "// wallet version", Category: codegen.CategoryFrontendHooks},
	}}}
	c := newTestComposer(t, scaffold, wallet)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "scaffold-1", Type: "nextjs-scaffold"},
		{ID: "wallet-1", Type: "wallet-auth"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "// scaffold version", res.Files["apps/web/src/plugins/scaffold-1/hooks/useX.ts"])
	assert.Equal(t, "// wallet version", res.Files["apps/web/src/plugins/wallet-1/hooks/useX.ts"])
	assert.Empty(t, res.Warnings)
}

// Two plugins emitting the same un-categorized barrel path merge cleanly
// when their export specifiers differ.
func TestCompose_BarrelCollisionMerges(t *testing.T) {
	a := &fakePlugin{id: "plugin-a", out: codegen.Output{Files: []codegen.File{
		{Path: "index.ts", Content: "export * from './a';\n"},
	}}}
	b := &fakePlugin{id: "plugin-b", out: codegen.Output{Files: []codegen.File{
		{Path: "index.ts", Content: "export * from './b';\n"},
	}}}
	c := newTestComposer(t, a, b)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "a1", Type: "plugin-a"},
		{ID: "b1", Type: "plugin-b"},
	}})
	require.NoError(t, err)

	content := res.Files["index.ts"]
	assert.Contains(t, content, "export * from './a';")
	assert.Contains(t, content, "export * from './b';")
	assert.Empty(t, res.Warnings)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, 1, res.Metrics.Merges)
}

// Duplicate type declarations keep the first writer's body and surface a
// duplicate-skipped warning.
func TestCompose_DuplicateTypeSkipped(t *testing.T) {
	a := &fakePlugin{id: "plugin-a", out: codegen.Output{Files: []codegen.File{
		{Path: "types.ts", Content: "export interface Config {\n  chain: string;\n}\n"},
	}}}
	b := &fakePlugin{id: "plugin-b", out: codegen.Output{Files: []codegen.File{
		{Path: "types.ts", Content: "export interface Config {\n  network: string;\n}\n"},
	}}}
	c := newTestComposer(t, a, b)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "a1", Type: "plugin-a"},
		{ID: "b1", Type: "plugin-b"},
	}})
	require.NoError(t, err)

	content := res.Files["types.ts"]
	assert.Equal(t, 1, strings.Count(content, "interface Config"))
	assert.Contains(t, content, "chain: string")
	assert.NotContains(t, content, "network: string")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Duplicate type skipped: Config", res.Warnings[0].Message)
	assert.Equal(t, "b1", res.Warnings[0].NodeID)
}

// Without a frontend scaffold, frontend-category output lands under the
// standalone-library fallback tree instead of failing.
func TestCompose_FrontendFallbackWithoutScaffold(t *testing.T) {
	wallet := &fakePlugin{id: "wallet-auth", out: codegen.Output{Files: []codegen.File{
		{Path: "ConnectButton.tsx", Content: "// button", Category: codegen.CategoryFrontendComponents},
	}}}
	c := newTestComposer(t, wallet)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "wallet-1", Type: "wallet-auth"},
	}})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	for p := range res.Files {
		assert.True(t, strings.HasPrefix(p, "src/components/"), "path %q should be under src/components/", p)
	}
}

// A node whose type is not registered aborts the run with no partial output.
func TestCompose_RegistryMissFatal(t *testing.T) {
	ok := &fakePlugin{id: "wallet-auth", out: codegen.Output{Files: []codegen.File{
		{Path: "useX.ts", Content: "x", Category: codegen.CategoryFrontendHooks},
	}}}
	c := newTestComposer(t, ok)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "wallet-1", Type: "wallet-auth"},
		{ID: "ghost-1", Type: "unregistered-plugin"},
	}})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, plugins.ErrNotRegistered))
	assert.Contains(t, err.Error(), "ghost-1")

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, "ghost-1", runErr.NodeID)
	assert.Equal(t, PhaseResolvePlugin, runErr.Phase)
}

func TestCompose_GenerateErrorFatal(t *testing.T) {
	bad := &fakePlugin{id: "broken", genErr: fmt.Errorf("template render exploded")}
	c := newTestComposer(t, bad)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "broken-1", Type: "broken"},
	}})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "broken-1")

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, PhaseGenerate, runErr.Phase)
}

// An unmergeable collision is not fatal: first writer wins, a warning is
// attached to the otherwise-successful run.
func TestCompose_UnsupportedCollisionKeepsFirstWriter(t *testing.T) {
	a := &fakePlugin{id: "plugin-a", out: codegen.Output{Files: []codegen.File{
		{Path: "main.rs", Content: "// first"},
	}}}
	b := &fakePlugin{id: "plugin-b", out: codegen.Output{Files: []codegen.File{
		{Path: "main.rs", Content: "// second"},
	}}}
	c := newTestComposer(t, a, b)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "a1", Type: "plugin-a"},
		{ID: "b1", Type: "plugin-b"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "// first", res.Files["main.rs"])
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "b1", res.Warnings[0].NodeID)
	assert.Equal(t, "main.rs", res.Warnings[0].Path)
}

func TestCompose_ComponentPackageRouting(t *testing.T) {
	p := &packagedPlugin{
		fakePlugin: fakePlugin{id: "erc20-stylus"},
		pkg: []plugins.PackageFile{
			{Path: "src/lib.rs", Content: "// contract"},
			{Path: "Cargo.toml", Content: "[package]"},
			{Path: "README.md", Content: "# readme"},
		},
		routes: []plugins.RouteRule{
			{Pattern: "**/*.rs", Category: codegen.CategoryContractSource},
			{Pattern: "Cargo.toml", Category: codegen.CategoryContractSource},
		},
	}
	c := newTestComposer(t, p)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "erc20-1", Type: "erc20-stylus"},
	}})
	require.NoError(t, err)

	// Routed files go through the resolver with the node id as scope; the
	// contract source hierarchy is preserved, unrouted files pass through.
	assert.Equal(t, "// contract", res.Files["contracts/erc20-1/src/lib.rs"])
	assert.Equal(t, "[package]", res.Files["contracts/erc20-1/Cargo.toml"])
	assert.Equal(t, "# readme", res.Files["README.md"])
}

func TestCompose_HandlerFilesLandInRouteDirectory(t *testing.T) {
	p := &handlerPlugin{
		fakePlugin: fakePlugin{id: "dune-analytics"},
		handlers: []plugins.PackageFile{
			{Path: "query.ts", Content: "// handler"},
		},
	}
	c := newTestComposer(t, p)

	// Frontend scaffold present, no backend: handler files remap into the
	// frontend's API-route directory.
	scaffold := &fakePlugin{id: "nextjs-scaffold"}
	reg := plugins.NewRegistry(nil)
	require.NoError(t, reg.Register(scaffold))
	require.NoError(t, reg.Register(p))
	c = New(reg)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "scaffold-1", Type: "nextjs-scaffold"},
		{ID: "dune-1", Type: "dune-analytics"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "// handler", res.Files["apps/web/src/app/api/dune-1/query.ts"])
}

func TestCompose_NonFileOutputsConcatenateInOrder(t *testing.T) {
	a := &fakePlugin{id: "plugin-a", out: codegen.Output{
		EnvVars: []codegen.EnvVar{{Key: "A_KEY"}},
		Scripts: []codegen.Script{{Name: "dev", Command: "next dev"}},
	}}
	b := &fakePlugin{id: "plugin-b", out: codegen.Output{
		EnvVars: []codegen.EnvVar{{Key: "B_KEY"}, {Key: "A_KEY"}},
	}}
	c := newTestComposer(t, a, b)

	res, err := c.Compose(context.Background(), &blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "a1", Type: "plugin-a"},
		{ID: "b1", Type: "plugin-b"},
	}})
	require.NoError(t, err)
	// No deduplication at this layer.
	keys := make([]string, 0, len(res.EnvVars))
	for _, e := range res.EnvVars {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"A_KEY", "B_KEY", "A_KEY"}, keys)
	require.Len(t, res.Scripts, 1)
}

func TestValidateAll(t *testing.T) {
	ok := &fakePlugin{id: "wallet-auth"}
	c := newTestComposer(t, ok)

	results := c.ValidateAll(&blueprint.Blueprint{Nodes: []blueprint.Node{
		{ID: "wallet-1", Type: "wallet-auth"},
		{ID: "ghost-1", Type: "nope"},
	}})
	require.Len(t, results, 2)
	assert.True(t, results[0].Result.Valid)
	assert.False(t, results[1].Result.Valid)
	require.Len(t, results[1].Result.Errors, 1)
	assert.Equal(t, "unknown-plugin", results[1].Result.Errors[0].Code)
}
