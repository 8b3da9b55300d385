package merge

import (
	"fmt"
	"regexp"
	"strings"
)

// A barrel file is treated as a leading comment block plus import and
// re-export statements, in any relative order. Statements are deduplicated
// by the quoted module specifier they reference, falling back to the literal
// statement text when no specifier is present.

type statement struct {
	key  string
	text string
}

type barrelParts struct {
	comment []string
	imports []statement
	exports []statement
}

var (
	fromSpecifierRe   = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)
	importSpecifierRe = regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`)
)

func mergeBarrel(existing, incoming string) Result {
	a := parseBarrel(existing)
	b := parseBarrel(incoming)

	var warnings []string

	imports, importWarnings := dedupeStatements(a.imports, b.imports, "import")
	warnings = append(warnings, importWarnings...)
	exports, exportWarnings := dedupeStatements(a.exports, b.exports, "export")
	warnings = append(warnings, exportWarnings...)

	// Keep the more descriptive of the two leading comment blocks instead of
	// stacking both.
	comment := a.comment
	if len(b.comment) > len(a.comment) {
		comment = b.comment
	}

	var out strings.Builder
	if len(comment) > 0 {
		out.WriteString(strings.Join(comment, "\n"))
		out.WriteString("\n")
		if len(imports) > 0 || len(exports) > 0 {
			out.WriteString("\n")
		}
	}
	for _, s := range imports {
		out.WriteString(s.text)
		out.WriteString("\n")
	}
	if len(imports) > 0 && len(exports) > 0 {
		out.WriteString("\n")
	}
	for _, s := range exports {
		out.WriteString(s.text)
		out.WriteString("\n")
	}

	return Result{Success: true, Content: out.String(), Warnings: warnings}
}

// dedupeStatements keeps first-seen key order: every existing statement,
// then the incoming statements whose keys are novel. Colliding incoming
// statements are dropped with a warning.
func dedupeStatements(existing, incoming []statement, kind string) ([]statement, []string) {
	var warnings []string
	seen := make(map[string]bool, len(existing))
	out := make([]statement, 0, len(existing)+len(incoming))

	for _, s := range existing {
		if seen[s.key] {
			continue
		}
		seen[s.key] = true
		out = append(out, s)
	}
	for _, s := range incoming {
		if seen[s.key] {
			warnings = append(warnings, fmt.Sprintf("Duplicate %s skipped: %s", kind, s.key))
			continue
		}
		seen[s.key] = true
		out = append(out, s)
	}
	return out, warnings
}

func parseBarrel(content string) barrelParts {
	lines := strings.Split(content, "\n")
	var parts barrelParts

	// Leading comment block: consecutive comment lines before the first
	// blank or statement line.
	i := 0
	inBlockComment := false
header:
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case inBlockComment:
			parts.comment = append(parts.comment, lines[i])
			if strings.Contains(trimmed, "*/") {
				inBlockComment = false
			}
		case strings.HasPrefix(trimmed, "//"):
			parts.comment = append(parts.comment, lines[i])
		case strings.HasPrefix(trimmed, "/*"):
			parts.comment = append(parts.comment, lines[i])
			if !strings.Contains(trimmed[2:], "*/") {
				inBlockComment = true
			}
		default:
			break header
		}
	}

	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		isImport := strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import'") || strings.HasPrefix(trimmed, `import"`)
		isExport := strings.HasPrefix(trimmed, "export ")
		if !isImport && !isExport {
			continue
		}

		// Statements may span multiple lines up to the closing brace that
		// carries the "from" clause.
		text := trimmed
		depth := strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
		for depth > 0 && i+1 < len(lines) {
			i++
			next := lines[i]
			text += "\n" + next
			depth += strings.Count(next, "{") - strings.Count(next, "}")
		}

		s := statement{key: statementKey(text), text: text}
		if isImport {
			parts.imports = append(parts.imports, s)
		} else {
			parts.exports = append(parts.exports, s)
		}
	}
	return parts
}

// statementKey normalizes a statement to the module specifier it references,
// or the literal text when none is present.
func statementKey(text string) string {
	if m := fromSpecifierRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := importSpecifierRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}
