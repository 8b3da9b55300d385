package codegen

import (
	"path"
	"strings"
)

// ResolveOptions carries per-call resolution options. Scope is conventionally
// the originating node's id; when set and the category is scopable, the
// resolved path is namespaced so that same-named files from unrelated
// plugins cannot collide.
type ResolveOptions struct {
	Scope string
}

// Resolve maps a plugin-relative path plus a semantic category to its final
// destination inside the generated project tree. It is a pure function of
// its inputs: identical arguments always produce the identical path.
//
// A zero or unrecognized category passes the original path through
// unchanged; the producing plugin has already emitted a final path.
func Resolve(originalPath string, category Category, ctx PathContext, opts ResolveOptions) string {
	props, ok := categoryTable[category]
	if !ok {
		return originalPath
	}

	rel := normalizePath(originalPath)
	scope := sanitizeScope(opts.Scope)
	if !props.scopable {
		scope = ""
	}

	switch props.domain {
	case DomainFrontend:
		return resolveFrontend(rel, category, props, ctx, scope)
	case DomainBackend:
		return resolveBackend(rel, category, props, ctx, scope)
	case DomainContract:
		return resolveContract(rel, category, props, ctx, scope)
	default:
		return resolveShared(rel, props, scope)
	}
}

func resolveFrontend(rel string, category Category, props categoryProps, ctx PathContext, scope string) string {
	root := ctx.FrontendBasePath
	src := ctx.FrontendSourceSubpath
	if !ctx.HasFrontend {
		// Standalone-library fallback: no scaffold, root the output at a
		// plain source directory so generation still succeeds.
		root = ""
		src = defaultSourceSubdir
	}

	// Static assets are served from a fixed path structure, not imported by
	// relative path, so they live outside the source tree and scope
	// horizontally.
	if category == CategoryFrontendPublic {
		return path.Join(root, props.subdir, scope, path.Base(rel))
	}

	if category == CategoryFrontendApp {
		return path.Join(root, src, props.subdir, path.Base(rel))
	}

	if !ctx.HasFrontend {
		// Scoping is horizontal in the fallback tree: the content lands
		// under the plain subdir (src/components/...), suffixed by scope.
		return path.Join(src, props.subdir, scope, path.Base(rel))
	}

	if scope != "" {
		// Vertical scoping keeps a plugin's own files under one
		// plugins/<scope>/ root so its internal relative imports stay valid.
		return path.Join(root, src, "plugins", scope, props.subdir, path.Base(rel))
	}
	return path.Join(root, src, props.subdir, path.Base(rel))
}

func resolveBackend(rel string, category Category, props categoryProps, ctx PathContext, scope string) string {
	if ctx.HasBackend {
		if scope != "" {
			return path.Join(ctx.BackendBasePath, ctx.BackendSourceSubpath, "plugins", scope, props.subdir, path.Base(rel))
		}
		return path.Join(ctx.BackendBasePath, ctx.BackendSourceSubpath, props.subdir, path.Base(rel))
	}

	if ctx.HasFrontend {
		// No backend scaffold: backend output is absorbed into the frontend
		// tree. Routes become frontend API routes, everything else lands in
		// the frontend's shared library. Scoping is horizontal here because
		// the content lives in someone else's tree.
		base := path.Join(ctx.FrontendBasePath, ctx.FrontendSourceSubpath)
		if category == CategoryBackendRoutes {
			return path.Join(base, "app", "api", scope, path.Base(rel))
		}
		return path.Join(base, "lib", scope, path.Base(rel))
	}

	return path.Join(defaultSourceSubdir, "lib", scope, path.Base(rel))
}

func resolveContract(rel string, category Category, props categoryProps, ctx PathContext, scope string) string {
	if category == CategoryContractSource {
		// Contract source trees keep their internal hierarchy intact: a
		// plugin's own src/lib.rs layout is never flattened.
		return path.Join(ctx.ContractsBasePath, scope, rel)
	}
	return path.Join(ctx.ContractsBasePath, props.subdir, path.Base(rel))
}

func resolveShared(rel string, props categoryProps, scope string) string {
	if props.subdir == "" {
		// Root category: project root.
		return path.Base(rel)
	}
	return path.Join(props.subdir, scope, path.Base(rel))
}

// normalizePath converts backslashes to forward slashes and strips leading
// slashes so plugin paths join cleanly regardless of how they were written.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimLeft(p, "/")
}

// sanitizeScope makes a scope identifier filesystem-safe: any "@" is
// stripped and "/" becomes "-" (npm-style scoped names flatten to one
// directory segment).
func sanitizeScope(scope string) string {
	scope = strings.ReplaceAll(scope, "@", "")
	return strings.ReplaceAll(scope, "/", "-")
}
