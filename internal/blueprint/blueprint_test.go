package blueprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		bp      Blueprint
		wantErr bool
	}{
		{"empty", Blueprint{}, false},
		{"valid", Blueprint{
			Nodes: []Node{{ID: "a", Type: "nextjs-scaffold"}, {ID: "b", Type: "wallet-auth"}},
			Edges: []Edge{{ID: "e1", Source: "a", Target: "b", Kind: EdgeKindDependency}},
		}, false},
		{"empty_id", Blueprint{Nodes: []Node{{Type: "wallet-auth"}}}, true},
		{"empty_type", Blueprint{Nodes: []Node{{ID: "a"}}}, true},
		{"duplicate_id", Blueprint{Nodes: []Node{{ID: "a", Type: "x"}, {ID: "a", Type: "y"}}}, true},
		{"dangling_edge", Blueprint{
			Nodes: []Node{{ID: "a", Type: "x"}},
			Edges: []Edge{{ID: "e1", Source: "a", Target: "missing"}},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bp.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bp.json")
	doc := `{
  "nodes": [
    {"id": "scaffold-1", "type": "nextjs-scaffold", "config": {"useSrcDir": true}},
    {"id": "wallet-1", "type": "wallet-auth"}
  ],
  "edges": [{"id": "e1", "source": "scaffold-1", "target": "wallet-1", "kind": "dependency"}],
  "config": {"name": "demo", "chain": "arbitrum", "network": "sepolia"}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	bp, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bp.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(bp.Nodes))
	}
	if bp.Config.Chain != "arbitrum" {
		t.Errorf("chain = %q", bp.Config.Chain)
	}
	if n := bp.Node("scaffold-1"); n == nil || !n.ConfigBool("useSrcDir", false) {
		t.Error("scaffold-1 config not readable")
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bp.yaml")
	doc := `nodes:
  - id: erc20-1
    type: erc20-stylus
    config:
      tokenName: Demo
config:
  chain: arbitrum
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	bp, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bp.Nodes) != 1 || bp.Nodes[0].Type != "erc20-stylus" {
		t.Fatalf("unexpected nodes: %+v", bp.Nodes)
	}
	if got := bp.Nodes[0].ConfigString("tokenName", ""); got != "Demo" {
		t.Errorf("tokenName = %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"nodes": [{"id": ""}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid blueprint")
	}
}
