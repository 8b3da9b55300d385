package e2e

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/composer"
	"github.com/quiltlabs/quilt/internal/emit"
	"github.com/quiltlabs/quilt/internal/plugins/builtin"
	"github.com/quiltlabs/quilt/internal/qualitygate"
)

func TestE2E_FullStackBlueprint(t *testing.T) {
	ctx := context.Background()

	// 1. Setup: write a blueprint to a temp dir
	tmpDir := t.TempDir()
	blueprintJSON := `{
  "config": {"name": "demo-dapp", "chain": "arbitrum", "network": "sepolia"},
  "nodes": [
    {"id": "scaffold-1", "type": "nextjs-scaffold", "config": {"projectName": "demo-dapp"}},
    {"id": "api-1", "type": "express-api", "config": {}},
    {"id": "wallet-1", "type": "wallet-auth", "config": {"chain": "arbitrum-sepolia"}},
    {"id": "erc20-1", "type": "erc20-stylus", "config": {"tokenName": "Demo", "tokenSymbol": "DMO", "mintable": true}},
    {"id": "dune-1", "type": "dune-analytics", "config": {"queryId": 42}}
  ],
  "edges": [
    {"id": "e1", "source": "wallet-1", "target": "erc20-1", "kind": "dependency"}
  ]
}`
	bpPath := filepath.Join(tmpDir, "blueprint.json")
	if err := os.WriteFile(bpPath, []byte(blueprintJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	// 2. Load and validate the blueprint
	bp, err := blueprint.Load(bpPath)
	if err != nil {
		t.Fatalf("load blueprint: %v", err)
	}
	if len(bp.Nodes) != 5 {
		t.Fatalf("loaded %d nodes", len(bp.Nodes))
	}
	if len(bp.Edges) != 1 || bp.Edges[0].Source != "wallet-1" || bp.Edges[0].Target != "erc20-1" {
		t.Fatalf("edges decoded wrong: %+v", bp.Edges)
	}

	registry, err := builtin.NewRegistry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	comp := composer.New(registry)

	for _, nv := range comp.ValidateAll(bp) {
		if !nv.Result.Valid {
			t.Fatalf("node %s invalid: %+v", nv.NodeID, nv.Result.Errors)
		}
	}

	// 3. Compose
	result, err := comp.Compose(ctx, bp)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("empty run id")
	}

	// Scaffold roots land unscoped
	if _, ok := result.Files["package.json"]; !ok {
		t.Error("missing root package.json")
	}
	if _, ok := result.Files["apps/web/src/app/layout.tsx"]; !ok {
		t.Error("missing frontend scaffold layout")
	}

	// Non-scaffold frontend output is vertically scoped by node id
	var scopedHook string
	for p := range result.Files {
		if strings.Contains(p, "plugins/wallet-1/hooks/") {
			scopedHook = p
			break
		}
	}
	if scopedHook == "" {
		t.Error("wallet hook not scoped under plugins/wallet-1")
	}

	// Contract sources keep their crate hierarchy
	if _, ok := result.Files["contracts/erc20-1/src/lib.rs"]; !ok {
		t.Error("contract source lost its hierarchy")
	}
	if _, ok := result.Files["contracts/erc20-1/Cargo.toml"]; !ok {
		t.Error("missing contract manifest")
	}

	// Env vars aggregate across nodes
	var duneKey bool
	for _, ev := range result.EnvVars {
		if ev.Key == "DUNE_API_KEY" {
			duneKey = true
		}
	}
	if !duneKey {
		t.Error("missing aggregated DUNE_API_KEY env var")
	}

	// 4. Quality gates accept the run
	gates := qualitygate.DefaultPipeline().Run(qualitygate.ContextFromResult(result, len(bp.Nodes)))
	if gates.Status == qualitygate.GateFailed {
		t.Fatalf("quality gates failed: %s", gates.Summary)
	}

	// 5. Emit to an in-memory filesystem
	fs := afero.NewMemMapFs()
	summary, err := emit.New(fs).Write(result, emit.Options{OutputDir: "out", Manifest: true})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if summary.FilesWritten <= len(result.Files) {
		t.Errorf("wrote %d files for %d outputs, expected env/manifest extras", summary.FilesWritten, len(result.Files))
	}

	env, err := afero.ReadFile(fs, "out/.env.example")
	if err != nil {
		t.Fatalf("read .env.example: %v", err)
	}
	if !strings.Contains(string(env), "DUNE_API_KEY=") {
		t.Error(".env.example missing DUNE_API_KEY")
	}

	manifestData, err := afero.ReadFile(fs, "out/quilt.manifest.json")
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest struct {
		RunID string `json:"run_id"`
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if manifest.RunID != result.RunID {
		t.Errorf("manifest run id = %q, want %q", manifest.RunID, result.RunID)
	}
	if len(manifest.Files) != len(result.Files) {
		t.Errorf("manifest lists %d files, result has %d", len(manifest.Files), len(result.Files))
	}
}

func TestE2E_FrontendOnlyBlueprint_RemapsBackendOutput(t *testing.T) {
	ctx := context.Background()

	tmpDir := t.TempDir()
	blueprintYAML := `config:
  name: markets-dash
  chain: arbitrum
nodes:
  - id: scaffold-1
    type: nextjs-scaffold
    config:
      projectName: markets-dash
  - id: aave-1
    type: aave-market
    config:
      market: arbitrum
`
	bpPath := filepath.Join(tmpDir, "blueprint.yaml")
	if err := os.WriteFile(bpPath, []byte(blueprintYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	bp, err := blueprint.Load(bpPath)
	if err != nil {
		t.Fatalf("load blueprint: %v", err)
	}

	registry, err := builtin.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	result, err := composer.New(registry).Compose(ctx, bp)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	// No backend scaffold: the API route must land in the frontend's
	// app/api tree instead of failing.
	var remapped string
	for p := range result.Files {
		if strings.Contains(p, "app/api/aave-1/") && strings.HasSuffix(p, "route.ts") {
			remapped = p
			break
		}
	}
	if remapped == "" {
		t.Errorf("backend route not remapped into frontend api dir; files: %v", filePaths(result))
	}
	if !strings.HasPrefix(remapped, "apps/web/") {
		t.Errorf("remapped route %q outside frontend base", remapped)
	}
}

func filePaths(result *composer.Result) []string {
	paths := make([]string, 0, len(result.Files))
	for p := range result.Files {
		paths = append(paths, p)
	}
	return paths
}
