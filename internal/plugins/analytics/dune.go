// Package analytics provides on-chain analytics connector plugins.
package analytics

import (
	"context"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// Dune generates a Dune Analytics query client. It also ships a ready-made
// handler directory: the execute/results proxy endpoints are identical for
// every project, so they are copied wholesale into the API-route tree
// rather than templated per node.
type Dune struct {
	schema plugins.ConfigSchema
}

func NewDune() *Dune {
	return &Dune{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "queryId", Type: plugins.FieldNumber, Required: true},
		{Name: "refreshSeconds", Type: plugins.FieldNumber, Default: 300},
	}}}
}

func (p *Dune) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "dune-analytics",
		Name:     "Dune Analytics",
		Version:  "1.0.1",
		Category: "analytics",
	}
}

func (p *Dune) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *Dune) Generate(_ context.Context, _ *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	return &codegen.Output{
		Files: []codegen.File{
			{Path: "dune.ts", Category: codegen.CategoryFrontendLib, Content: duneClient},
			{Path: "useDuneQuery.ts", Category: codegen.CategoryFrontendHooks, Content: duneHook},
		},
		EnvVars: []codegen.EnvVar{
			{Key: "DUNE_API_KEY", Description: "Dune Analytics API key", Secret: true},
		},
	}, nil
}

// HandlerFiles are copied wholesale into the generated project's API-route
// directory.
func (p *Dune) HandlerFiles() []plugins.PackageFile {
	return []plugins.PackageFile{
		{Path: "execute.ts", Content: executeHandler},
		{Path: "results.ts", Content: resultsHandler},
	}
}

const duneClient = `const DUNE_BASE = 'https://api.dune.com/api/v1';

export async function executeQuery(queryId: number): Promise<string> {
  const res = await fetch('/api/dune-analytics/execute?queryId=' + queryId, { method: 'POST' });
  if (!res.ok) throw new Error('execute failed');
  const body = await res.json();
  return body.execution_id;
}

export async function queryResults(executionId: string): Promise<unknown[]> {
  const res = await fetch('/api/dune-analytics/results?executionId=' + executionId);
  if (!res.ok) throw new Error('results failed');
  const body = await res.json();
  return body.result?.rows ?? [];
}

export { DUNE_BASE };
`

const duneHook = `import { useQuery } from '@tanstack/react-query';
import { executeQuery, queryResults } from '../lib/dune';

export function useDuneQuery(queryId: number, refreshSeconds = 300) {
  return useQuery({
    queryKey: ['dune', queryId],
    queryFn: async () => {
      const executionId = await executeQuery(queryId);
      return queryResults(executionId);
    },
    refetchInterval: refreshSeconds * 1000,
  });
}
`

const executeHandler = `export async function POST(req: Request) {
  const queryId = new URL(req.url).searchParams.get('queryId');
  const res = await fetch('https://api.dune.com/api/v1/query/' + queryId + '/execute', {
    method: 'POST',
    headers: { 'X-Dune-API-Key': process.env.DUNE_API_KEY! },
  });
  return Response.json(await res.json(), { status: res.status });
}
`

const resultsHandler = `export async function GET(req: Request) {
  const executionId = new URL(req.url).searchParams.get('executionId');
  const res = await fetch('https://api.dune.com/api/v1/execution/' + executionId + '/results', {
    headers: { 'X-Dune-API-Key': process.env.DUNE_API_KEY! },
  });
  return Response.json(await res.json(), { status: res.status });
}
`
