package codegen

import "github.com/quiltlabs/quilt/internal/blueprint"

// Default layout of a generated monorepo. The frontend and backend scaffolds
// land under apps/, contracts under their own top-level directory.
const (
	defaultFrontendBase  = "apps/web"
	defaultBackendBase   = "apps/api"
	defaultContractsBase = "contracts"
	defaultSourceSubdir  = "src"
)

// Membership sets the context builder scans node types against. A node whose
// type appears in one of these flips the corresponding presence flag.
var (
	frontendScaffoldTypes = map[string]bool{
		"nextjs-scaffold": true,
	}
	backendScaffoldTypes = map[string]bool{
		"express-api": true,
	}
	contractTypes = map[string]bool{
		"erc20-stylus":    true,
		"erc721-stylus":   true,
		"custom-contract": true,
	}
)

// PathContext carries the derived facts about which scaffolds a blueprint
// contains and where each scaffold's tree is rooted. Built once per
// generation run and immutable afterwards.
type PathContext struct {
	HasFrontend  bool
	HasBackend   bool
	HasContracts bool

	FrontendBasePath      string
	FrontendSourceSubpath string
	BackendBasePath       string
	BackendSourceSubpath  string
	ContractsBasePath     string
}

// BuildPathContext derives a PathContext from the full node set of a
// blueprint. It never fails: when no scaffold of a given kind is present the
// flags stay false and the resolver applies its fallback layout, so
// resolution still succeeds for every category.
func BuildPathContext(nodes []blueprint.Node) PathContext {
	ctx := PathContext{
		FrontendBasePath:      defaultFrontendBase,
		FrontendSourceSubpath: defaultSourceSubdir,
		BackendBasePath:       defaultBackendBase,
		BackendSourceSubpath:  defaultSourceSubdir,
		ContractsBasePath:     defaultContractsBase,
	}

	for i := range nodes {
		n := &nodes[i]
		switch {
		case frontendScaffoldTypes[n.Type]:
			ctx.HasFrontend = true
			if !n.ConfigBool("useSrcDir", true) {
				ctx.FrontendSourceSubpath = ""
			}
		case backendScaffoldTypes[n.Type]:
			ctx.HasBackend = true
		case contractTypes[n.Type]:
			ctx.HasContracts = true
		}
	}

	return ctx
}
