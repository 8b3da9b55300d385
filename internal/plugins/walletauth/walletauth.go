// Package walletauth generates wallet connection scaffolding: a wagmi
// provider, a connect hook, and a connect button component.
package walletauth

import (
	"context"
	"fmt"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

type Plugin struct {
	schema plugins.ConfigSchema
}

func New() *Plugin {
	return &Plugin{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "chain", Type: plugins.FieldString, Enum: []string{"arbitrum", "arbitrum-sepolia"}, Default: "arbitrum-sepolia"},
		{Name: "walletConnect", Type: plugins.FieldBoolean, Default: true},
	}}}
}

func (p *Plugin) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "wallet-auth",
		Name:     "Wallet Authentication",
		Version:  "1.1.0",
		Category: "auth",
	}
}

func (p *Plugin) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *Plugin) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	chain := node.ConfigString("chain", "arbitrum-sepolia")
	chainImport := "arbitrumSepolia"
	if chain == "arbitrum" {
		chainImport = "arbitrum"
	}

	return &codegen.Output{
		Files: []codegen.File{
			{Path: "config.ts", Category: codegen.CategoryFrontendLib, Content: wagmiConfig(chainImport)},
			{Path: "useWallet.ts", Category: codegen.CategoryFrontendHooks, Content: useWalletHook},
			{Path: "WalletProvider.tsx", Category: codegen.CategoryFrontendComponents, Content: walletProvider},
			{Path: "ConnectButton.tsx", Category: codegen.CategoryFrontendComponents, Content: connectButton},
			{Path: "index.ts", Category: codegen.CategoryFrontendHooks, Content: hooksBarrel},
		},
		EnvVars: []codegen.EnvVar{
			{Key: "NEXT_PUBLIC_WALLETCONNECT_PROJECT_ID", Description: "WalletConnect Cloud project id", Example: "abc123", Secret: false},
		},
		Interfaces: []codegen.InterfaceDecl{
			{Name: "WalletState", ImportPath: "./hooks/useWallet", Description: "Connected account, chain id and connect/disconnect actions"},
		},
		Docs: []codegen.Doc{{
			Title: "Wallet authentication",
			Body:  fmt.Sprintf("Wallet connection targets %s via wagmi. Wrap the app in WalletProvider and render ConnectButton.", chain),
		}},
	}, nil
}

func wagmiConfig(chainImport string) string {
	return fmt.Sprintf(`import { http, createConfig } from 'wagmi';
import { %[1]s } from 'wagmi/chains';
import { injected, walletConnect } from 'wagmi/connectors';

export const config = createConfig({
  chains: [%[1]s],
  connectors: [
    injected(),
    walletConnect({ projectId: process.env.NEXT_PUBLIC_WALLETCONNECT_PROJECT_ID! }),
  ],
  transports: {
    [%[1]s.id]: http(),
  },
});
`, chainImport)
}

const useWalletHook = `import { useAccount, useConnect, useDisconnect } from 'wagmi';

export interface WalletState {
  address?: string;
  isConnected: boolean;
  connect: () => void;
  disconnect: () => void;
}

export function useWallet(): WalletState {
  const { address, isConnected } = useAccount();
  const { connect, connectors } = useConnect();
  const { disconnect } = useDisconnect();

  return {
    address,
    isConnected,
    connect: () => connect({ connector: connectors[0] }),
    disconnect,
  };
}
`

const walletProvider = `'use client';

import { WagmiProvider } from 'wagmi';
import { QueryClient, QueryClientProvider } from '@tanstack/react-query';
import { config } from '../lib/config';

const queryClient = new QueryClient();

export function WalletProvider({ children }: { children: React.ReactNode }) {
  return (
    <WagmiProvider config={config}>
      <QueryClientProvider client={queryClient}>{children}</QueryClientProvider>
    </WagmiProvider>
  );
}
`

const connectButton = `'use client';

import { useWallet } from '../hooks/useWallet';

export function ConnectButton() {
  const { address, isConnected, connect, disconnect } = useWallet();

  if (isConnected) {
    return (
      <button onClick={() => disconnect()}>
        {address?.slice(0, 6)}...{address?.slice(-4)}
      </button>
    );
  }
  return <button onClick={() => connect()}>Connect Wallet</button>;
}
`

const hooksBarrel = `// Wallet auth hooks
export * from './useWallet';
`
