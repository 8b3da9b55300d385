package scaffold

import (
	"context"
	"strings"
	"testing"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
)

func TestNextJS_Generate(t *testing.T) {
	p := NewNextJS()
	node := &blueprint.Node{ID: "scaffold-1", Type: "nextjs-scaffold", Config: map[string]any{"projectName": "myapp"}}

	out, err := p.Generate(context.Background(), node, codegen.PathContext{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Files) == 0 {
		t.Fatal("no files generated")
	}

	byPath := map[string]codegen.File{}
	for _, f := range out.Files {
		byPath[f.Path] = f
	}
	layout, ok := byPath["layout.tsx"]
	if !ok || layout.Category != codegen.CategoryFrontendApp {
		t.Errorf("layout.tsx missing or miscategorized: %+v", layout)
	}
	if !strings.Contains(layout.Content, "myapp") {
		t.Error("project name not templated into layout")
	}
	if byPath["package.json"].Category != codegen.CategoryRoot {
		t.Error("package.json should be a root file")
	}
	if len(out.Scripts) != 3 {
		t.Errorf("expected 3 scripts, got %d", len(out.Scripts))
	}
}

func TestNextJS_ValidateRejectsWrongTypes(t *testing.T) {
	p := NewNextJS()
	node := &blueprint.Node{ID: "s", Type: "nextjs-scaffold", Config: map[string]any{"useSrcDir": "yes"}}
	res := p.Validate(node)
	if res.Valid {
		t.Error("string useSrcDir should fail validation")
	}
}

func TestExpress_Generate(t *testing.T) {
	p := NewExpress()
	node := &blueprint.Node{ID: "api-1", Type: "express-api", Config: map[string]any{"port": float64(8080)}}

	out, err := p.Generate(context.Background(), node, codegen.PathContext{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var server codegen.File
	for _, f := range out.Files {
		if f.Path == "server.ts" {
			server = f
		}
	}
	if server.Category != codegen.CategoryBackendServices {
		t.Errorf("server.ts category = %q", server.Category)
	}
	if !strings.Contains(server.Content, "8080") {
		t.Error("configured port not templated")
	}
	if len(out.EnvVars) != 1 || out.EnvVars[0].Key != "PORT" {
		t.Errorf("env vars = %+v", out.EnvVars)
	}
}
