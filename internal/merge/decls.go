package merge

import (
	"fmt"
	"regexp"
	"strings"
)

// Declaration merging for types and constants files. Both run the same
// line scanner; only the declaration keyword set and the block-end rule
// differ. Duplicate top-level names from the incoming content are skipped
// atomically (brace depth tracked across lines); incoming import lines are
// dropped since the existing file is assumed to satisfy them already.

type declRules struct {
	kind string
	// declRe captures the exported declaration name.
	declRe *regexp.Regexp
	// semicolonTerminates marks a statement terminator as a block end for
	// declarations that carry no braces at all.
	semicolonTerminates bool
}

var typesRules = declRules{
	kind:   "type",
	declRe: regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
}

var constantsRules = declRules{
	kind:                "constant",
	declRe:              regexp.MustCompile(`^\s*export\s+(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
	semicolonTerminates: true,
}

const declsSeparator = "// --- merged additions ---"

func mergeDeclarations(existing, incoming string, rules declRules) Result {
	declared := declaredNames(existing, rules)

	var (
		kept     []string
		warnings []string
	)

	lines := strings.Split(incoming, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Incoming imports are assumed already satisfied by the existing file.
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import'") || strings.HasPrefix(trimmed, `import"`) {
			depth := strings.Count(line, "{") - strings.Count(line, "}")
			for depth > 0 && i+1 < len(lines) {
				i++
				depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
			}
			continue
		}

		if m := rules.declRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if declared[name] {
				i = skipDeclaration(lines, i, rules)
				warnings = append(warnings, fmt.Sprintf("Duplicate %s skipped: %s", rules.kind, name))
				continue
			}
			declared[name] = true
		}

		kept = append(kept, line)
	}

	// Trim leading blank lines of the retained material.
	for len(kept) > 0 && strings.TrimSpace(kept[0]) == "" {
		kept = kept[1:]
	}
	retained := strings.TrimRight(strings.Join(kept, "\n"), " \t\n")

	base := strings.TrimRight(existing, " \t\n")
	if retained == "" {
		return Result{Success: true, Content: base + "\n", Warnings: warnings}
	}
	content := base + "\n\n" + declsSeparator + "\n" + retained + "\n"
	return Result{Success: true, Content: content, Warnings: warnings}
}

// skipDeclaration consumes a duplicate declaration starting at lines[i] and
// returns the index of its last line. Brace depth is tracked so multi-line
// blocks are skipped atomically; a block opener on its own line is folded
// into the declaration.
func skipDeclaration(lines []string, i int, rules declRules) int {
	depth := strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
	if declarationEnds(lines[i], depth, rules) && !opensBraceBelow(lines, i, rules) {
		return i
	}
	for i+1 < len(lines) {
		if rules.semicolonTerminates && depth <= 0 && rules.declRe.MatchString(lines[i+1]) {
			// The next top-level declaration begins: the duplicate ended on
			// the line before it even without a statement terminator.
			return i
		}
		i++
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if declarationEnds(lines[i], depth, rules) && !opensBraceBelow(lines, i, rules) {
			return i
		}
	}
	return i
}

// opensBraceBelow reports whether a brace-block declaration puts its opening
// brace on the following line instead of the declaration line.
func opensBraceBelow(lines []string, i int, rules declRules) bool {
	if rules.semicolonTerminates || strings.Contains(lines[i], "{") {
		return false
	}
	return i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "{")
}

func declarationEnds(line string, depth int, rules declRules) bool {
	if depth > 0 {
		return false
	}
	if !rules.semicolonTerminates {
		return true
	}
	// Constant declarations may be single-line with no braces: a statement
	// terminator (or a blank line) ends the block.
	trimmed := strings.TrimSpace(line)
	return strings.Contains(line, ";") || trimmed == "" || strings.Contains(line, "}")
}

func declaredNames(content string, rules declRules) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		if m := rules.declRe.FindStringSubmatch(line); m != nil {
			names[m[1]] = true
		}
	}
	return names
}
