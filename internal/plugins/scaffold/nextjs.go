// Package scaffold provides the project-skeleton plugins: the Next.js
// frontend scaffold and the Express API scaffold. Their presence in a
// blueprint is what flips the path context's frontend/backend flags.
package scaffold

import (
	"context"
	"fmt"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// NextJS scaffolds the frontend application shell. Its useSrcDir config is
// the layout preference the path context builder reads.
type NextJS struct {
	schema plugins.ConfigSchema
}

func NewNextJS() *NextJS {
	return &NextJS{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "projectName", Type: plugins.FieldString},
		{Name: "useSrcDir", Type: plugins.FieldBoolean, Default: true},
		{Name: "tailwind", Type: plugins.FieldBoolean, Default: true},
	}}}
}

func (p *NextJS) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "nextjs-scaffold",
		Name:     "Next.js App",
		Version:  "1.2.0",
		Category: "scaffold",
	}
}

func (p *NextJS) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *NextJS) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	name := node.ConfigString("projectName", "web")

	return &codegen.Output{
		Files: []codegen.File{
			{Path: "layout.tsx", Category: codegen.CategoryFrontendApp, Content: appLayout(name)},
			{Path: "page.tsx", Category: codegen.CategoryFrontendApp, Content: appPage(name)},
			{Path: "globals.css", Category: codegen.CategoryFrontendApp, Content: globalsCSS},
			{Path: "package.json", Category: codegen.CategoryRoot, Content: webPackageJSON(name)},
			{Path: "tsconfig.json", Category: codegen.CategoryRoot, Content: tsconfigJSON},
			{Path: "next.config.mjs", Category: codegen.CategoryRoot, Content: nextConfig},
		},
		Scripts: []codegen.Script{
			{Name: "dev", Command: "next dev"},
			{Name: "build", Command: "next build"},
			{Name: "start", Command: "next start"},
		},
		Docs: []codegen.Doc{{
			Title: "Frontend",
			Body:  fmt.Sprintf("The %s app is a Next.js App Router project. Run `npm run dev` from the web app directory.", name),
		}},
	}, nil
}

func appLayout(name string) string {
	return fmt.Sprintf(`import type { Metadata } from 'next';
import './globals.css';

export const metadata: Metadata = {
  title: '%s',
  description: 'Generated Web3 application',
};

export default function RootLayout({ children }: { children: React.ReactNode }) {
  return (
    <html lang="en">
      <body>{children}</body>
    </html>
  );
}
`, name)
}

func appPage(name string) string {
	return fmt.Sprintf(`export default function Home() {
  return (
    <main className="flex min-h-screen flex-col items-center justify-center p-24">
      <h1 className="text-4xl font-bold">%s</h1>
    </main>
  );
}
`, name)
}

const globalsCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;
`

func webPackageJSON(name string) string {
	return fmt.Sprintf(`{
  "name": "%s",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "start": "next start"
  },
  "dependencies": {
    "next": "^14.2.0",
    "react": "^18.3.0",
    "react-dom": "^18.3.0"
  }
}
`, name)
}

const tsconfigJSON = `{
  "compilerOptions": {
    "target": "ES2022",
    "lib": ["dom", "dom.iterable", "esnext"],
    "module": "esnext",
    "moduleResolution": "bundler",
    "jsx": "preserve",
    "strict": true,
    "paths": { "@/*": ["./src/*"] }
  },
  "include": ["**/*.ts", "**/*.tsx"]
}
`

const nextConfig = `/** @type {import('next').NextConfig} */
const nextConfig = {
  reactStrictMode: true,
};

export default nextConfig;
`
