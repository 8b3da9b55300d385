// Package codegen defines the data model plugins produce and the path
// resolution machinery that places every produced file into the generated
// project tree.
package codegen

// File is a single output file produced by a plugin. Path is relative to the
// plugin's own output root until resolved; Category selects where in the
// project tree the file belongs. A zero Category means the plugin has
// already emitted a final path and it passes through unchanged.
type File struct {
	Path     string
	Content  string
	Category Category
}

// EnvVar is an environment variable the generated project requires.
type EnvVar struct {
	Key         string
	Description string
	Example     string
	Secret      bool
}

// Script is a package-manifest script entry the generated project should carry.
type Script struct {
	Name    string
	Command string
}

// InterfaceDecl describes a capability surface one plugin exposes to others
// in the generated project (e.g. a provider another plugin's code can import).
type InterfaceDecl struct {
	Name        string
	ImportPath  string
	Description string
}

// Doc is a documentation snippet aggregated into the generated project's docs.
type Doc struct {
	Title string
	Body  string
}

// Output is the bundle a plugin returns for one node. Consumed once by the
// composer and discarded.
type Output struct {
	Files      []File
	EnvVars    []EnvVar
	Scripts    []Script
	Interfaces []InterfaceDecl
	Docs       []Doc
}
