package stylus

import (
	"context"
	"strings"
	"testing"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
)

func TestERC20_ValidateRequiresNameAndSymbol(t *testing.T) {
	p := NewERC20()
	res := p.Validate(&blueprint.Node{ID: "t", Type: "erc20-stylus", Config: map[string]any{}})
	if res.Valid {
		t.Fatal("empty config should fail")
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 required errors, got %+v", res.Errors)
	}
	for _, e := range res.Errors {
		if e.Code != "required" {
			t.Errorf("unexpected code %q", e.Code)
		}
	}
}

func TestERC20_ComponentPackage(t *testing.T) {
	p := NewERC20()
	pkg := p.ComponentPackage()

	var lib string
	for _, f := range pkg {
		if f.Path == "src/lib.rs" {
			lib = f.Content
		}
	}
	if lib == "" {
		t.Fatal("src/lib.rs missing from component package")
	}
	for _, want := range []string{"sol_storage!", "#[entrypoint]", "pub fn transfer", "pub fn initialize"} {
		if !strings.Contains(lib, want) {
			t.Errorf("lib.rs missing %q", want)
		}
	}

	// Every crate file must route into the contract source tree.
	rules := p.PackageRouting()
	for _, f := range pkg {
		matched := false
		for _, r := range rules {
			if r.Category == codegen.CategoryContractSource && (r.Pattern == f.Path || strings.HasSuffix(f.Path, ".rs")) {
				matched = true
			}
		}
		if !matched {
			t.Errorf("package file %q has no contract-source route", f.Path)
		}
	}
}

func TestERC20_GenerateFeatureFlags(t *testing.T) {
	p := NewERC20()
	base := map[string]any{"tokenName": "Demo", "tokenSymbol": "DMO"}

	node := &blueprint.Node{ID: "t1", Type: "erc20-stylus", Config: base}
	out, err := p.Generate(context.Background(), node, codegen.PathContext{})
	if err != nil {
		t.Fatal(err)
	}
	hook := out.Files[0].Content
	if !strings.Contains(hook, "useTokenMint") {
		t.Error("mintable defaults on, mint hook missing")
	}
	if strings.Contains(hook, "useTokenBurn") {
		t.Error("burnable defaults off, burn hook present")
	}

	node.Config = map[string]any{"tokenName": "Demo", "tokenSymbol": "DMO", "mintable": false, "burnable": true}
	out, err = p.Generate(context.Background(), node, codegen.PathContext{})
	if err != nil {
		t.Fatal(err)
	}
	hook = out.Files[0].Content
	if strings.Contains(hook, "useTokenMint") || !strings.Contains(hook, "useTokenBurn") {
		t.Error("feature flags not honored")
	}
}

func TestERC721_Generate(t *testing.T) {
	p := NewERC721()
	node := &blueprint.Node{ID: "nft-1", Type: "erc721-stylus", Config: map[string]any{
		"collectionName": "Apes", "collectionSymbol": "APE",
	}}
	out, err := p.Generate(context.Background(), node, codegen.PathContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Files) != 1 || out.Files[0].Category != codegen.CategoryFrontendHooks {
		t.Errorf("unexpected files: %+v", out.Files)
	}
	if !strings.Contains(out.Files[0].Content, "Apes (APE)") {
		t.Error("collection metadata not templated")
	}

	var lib string
	for _, f := range p.ComponentPackage() {
		if f.Path == "src/lib.rs" {
			lib = f.Content
		}
	}
	for _, want := range []string{"ERC721Token", "pub fn mint", "pub fn token_uri"} {
		if !strings.Contains(lib, want) {
			t.Errorf("lib.rs missing %q", want)
		}
	}
}
