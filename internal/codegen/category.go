package codegen

// Category is a semantic tag selecting where in the output tree a file
// belongs. The zero value means "no category": the path passes through
// resolution unchanged.
type Category string

const (
	CategoryNone Category = ""

	CategoryFrontendApp        Category = "frontend-app"
	CategoryFrontendComponents Category = "frontend-components"
	CategoryFrontendHooks      Category = "frontend-hooks"
	CategoryFrontendLib        Category = "frontend-lib"
	CategoryFrontendTypes      Category = "frontend-types"
	CategoryFrontendPublic     Category = "frontend-public"

	CategoryBackendRoutes   Category = "backend-routes"
	CategoryBackendServices Category = "backend-services"
	CategoryBackendLib      Category = "backend-lib"
	CategoryBackendTypes    Category = "backend-types"

	CategoryContract       Category = "contract"
	CategoryContractTest   Category = "contract-test"
	CategoryContractSource Category = "contract-source"

	CategoryDocs        Category = "docs"
	CategoryRoot        Category = "root"
	CategorySharedTypes Category = "shared-types"
)

// Domain groups categories by which scaffold tree they belong to.
type Domain int

const (
	DomainFrontend Domain = iota
	DomainBackend
	DomainContract
	DomainShared
)

type categoryProps struct {
	domain   Domain
	subdir   string
	scopable bool
}

// categoryTable is the closed set of known categories. Each entry fixes the
// category's domain, its conventional subdirectory within that domain, and
// whether it is eligible for per-plugin scoping.
var categoryTable = map[Category]categoryProps{
	CategoryFrontendApp:        {DomainFrontend, "app", false},
	CategoryFrontendComponents: {DomainFrontend, "components", true},
	CategoryFrontendHooks:      {DomainFrontend, "hooks", true},
	CategoryFrontendLib:        {DomainFrontend, "lib", true},
	CategoryFrontendTypes:      {DomainFrontend, "types", true},
	CategoryFrontendPublic:     {DomainFrontend, "public", true},

	CategoryBackendRoutes:   {DomainBackend, "routes", true},
	CategoryBackendServices: {DomainBackend, "services", true},
	CategoryBackendLib:      {DomainBackend, "lib", true},
	CategoryBackendTypes:    {DomainBackend, "types", true},

	CategoryContract:       {DomainContract, "", false},
	CategoryContractTest:   {DomainContract, "test", false},
	CategoryContractSource: {DomainContract, "", true},

	CategoryDocs:        {DomainShared, "docs", true},
	CategoryRoot:        {DomainShared, "", false},
	CategorySharedTypes: {DomainShared, "shared/types", true},
}

// Known reports whether c is a member of the closed category set.
func (c Category) Known() bool {
	_, ok := categoryTable[c]
	return ok
}

// Scopable reports whether files in this category are eligible for
// per-plugin namespacing.
func (c Category) Scopable() bool {
	return categoryTable[c].scopable
}
