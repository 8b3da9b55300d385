package scaffold

import (
	"context"
	"fmt"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// Express scaffolds a standalone backend API. When absent from a blueprint,
// backend-category output from other plugins is absorbed into the frontend
// tree by the resolver.
type Express struct {
	schema plugins.ConfigSchema
}

func NewExpress() *Express {
	return &Express{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "port", Type: plugins.FieldNumber, Default: 3001},
		{Name: "cors", Type: plugins.FieldBoolean, Default: true},
	}}}
}

func (p *Express) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "express-api",
		Name:     "Express API",
		Version:  "1.0.0",
		Category: "scaffold",
	}
}

func (p *Express) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *Express) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	port := 3001
	if v, ok := node.Config["port"]; ok {
		switch n := v.(type) {
		case int:
			port = n
		case float64:
			port = int(n)
		}
	}

	return &codegen.Output{
		Files: []codegen.File{
			{Path: "server.ts", Category: codegen.CategoryBackendServices, Content: serverTS(port)},
			{Path: "health.ts", Category: codegen.CategoryBackendRoutes, Content: healthRouteTS},
		},
		EnvVars: []codegen.EnvVar{
			{Key: "PORT", Description: "API listen port", Example: fmt.Sprintf("%d", port)},
		},
		Scripts: []codegen.Script{
			{Name: "api:dev", Command: "tsx watch src/services/server.ts"},
		},
	}, nil
}

func serverTS(port int) string {
	return fmt.Sprintf(`import express from 'express';

const app = express();
app.use(express.json());

const port = Number(process.env.PORT ?? %d);
app.listen(port, () => {
  console.log('api listening on :' + port);
});

export default app;
`, port)
}

const healthRouteTS = `import { Router } from 'express';

const router = Router();

router.get('/health', (_req, res) => {
  res.json({ status: 'ok' });
});

export default router;
`
