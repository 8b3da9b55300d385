// Package defi provides DeFi protocol integration plugins.
package defi

import (
	"context"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// Aave generates an Aave v3 market-data integration: a backend route
// proxying the market API and a frontend hook consuming it. In a blueprint
// without a backend scaffold the route is remapped into the frontend's API
// directory by the resolver.
type Aave struct {
	schema plugins.ConfigSchema
}

func NewAave() *Aave {
	return &Aave{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "market", Type: plugins.FieldString, Enum: []string{"arbitrum", "arbitrum-sepolia"}, Default: "arbitrum"},
		{Name: "assets", Type: plugins.FieldString},
	}}}
}

func (p *Aave) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "aave-market",
		Name:     "Aave Markets",
		Version:  "1.0.0",
		Category: "defi",
	}
}

func (p *Aave) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *Aave) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	return &codegen.Output{
		Files: []codegen.File{
			{Path: "route.ts", Category: codegen.CategoryBackendRoutes, Content: marketRoute},
			{Path: "useAaveMarkets.ts", Category: codegen.CategoryFrontendHooks, Content: marketsHook},
			{Path: "types.ts", Category: codegen.CategoryFrontendTypes, Content: marketTypes},
		},
		EnvVars: []codegen.EnvVar{
			{Key: "AAVE_API_URL", Description: "Aave market data endpoint", Example: "https://aave-api-v2.aave.com"},
		},
		Interfaces: []codegen.InterfaceDecl{
			{Name: "MarketReserve", ImportPath: "./types", Description: "One reserve's rates and liquidity"},
		},
	}, nil
}

const marketRoute = `export async function GET() {
  const base = process.env.AAVE_API_URL ?? 'https://aave-api-v2.aave.com';
  const res = await fetch(base + '/data/markets-data', { next: { revalidate: 60 } });
  if (!res.ok) {
    return Response.json({ error: 'upstream error' }, { status: 502 });
  }
  return Response.json(await res.json());
}
`

const marketsHook = `import { useQuery } from '@tanstack/react-query';
import type { MarketReserve } from '../types/types';

export function useAaveMarkets() {
  return useQuery<MarketReserve[]>({
    queryKey: ['aave-markets'],
    queryFn: async () => {
      const res = await fetch('/api/aave-market/route');
      if (!res.ok) throw new Error('failed to load markets');
      return res.json();
    },
    refetchInterval: 60_000,
  });
}
`

const marketTypes = `export interface MarketReserve {
  symbol: string;
  liquidityRate: string;
  variableBorrowRate: string;
  totalLiquidity: string;
  availableLiquidity: string;
}
`
