// Package emit materializes a composition result onto a filesystem.
//
// The composer works entirely in memory; emit is the only layer that
// touches disk. It takes afero.Fs so the whole pipeline stays testable
// against an in-memory filesystem.
package emit

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/quiltlabs/quilt/internal/composer"
)

// Options controls how a result is written.
type Options struct {
	// OutputDir is the root the project tree is written under.
	OutputDir string
	// Overwrite allows writing into a non-empty directory.
	Overwrite bool
	// Manifest writes quilt.manifest.json next to the tree.
	Manifest bool
}

// Summary reports what an emit wrote.
type Summary struct {
	FilesWritten int
	BytesWritten int64
}

// Emitter writes composition results to a filesystem.
type Emitter struct {
	fs afero.Fs
}

// New returns an Emitter backed by fs.
func New(fs afero.Fs) *Emitter {
	return &Emitter{fs: fs}
}

// Write materializes res under opts.OutputDir: every generated file, a
// .env.example built from the aggregated env vars, README docs, and
// optionally a run manifest. Paths in res.Files are project-relative and
// already unique, so writes never collide.
func (e *Emitter) Write(res *composer.Result, opts Options) (*Summary, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	if !opts.Overwrite {
		empty, err := e.dirEmpty(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, fmt.Errorf("output directory %s is not empty (use overwrite to force)", opts.OutputDir)
		}
	}

	summary := &Summary{}

	paths := make([]string, 0, len(res.Files))
	for p := range res.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		if err := e.writeFile(path.Join(opts.OutputDir, rel), []byte(res.Files[rel]), summary); err != nil {
			return nil, err
		}
	}

	if env := EnvExample(res); env != "" {
		if err := e.writeFile(path.Join(opts.OutputDir, ".env.example"), []byte(env), summary); err != nil {
			return nil, err
		}
	}

	if docs := docsFile(res); docs != "" {
		if err := e.writeFile(path.Join(opts.OutputDir, "docs", "SETUP.md"), []byte(docs), summary); err != nil {
			return nil, err
		}
	}

	if opts.Manifest {
		manifest, err := Manifest(res)
		if err != nil {
			return nil, fmt.Errorf("build manifest: %w", err)
		}
		if err := e.writeFile(path.Join(opts.OutputDir, "quilt.manifest.json"), manifest, summary); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

func (e *Emitter) writeFile(fullPath string, data []byte, summary *Summary) error {
	if dir := path.Dir(fullPath); dir != "." {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(e.fs, fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fullPath, err)
	}
	summary.FilesWritten++
	summary.BytesWritten += int64(len(data))
	return nil
}

func (e *Emitter) dirEmpty(dir string) (bool, error) {
	exists, err := afero.DirExists(e.fs, dir)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !exists {
		return true, nil
	}
	entries, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}

// EnvExample renders the aggregated env vars as a .env.example. Secrets get
// an empty value, non-secrets keep their example. Returns "" when the run
// produced no env vars.
func EnvExample(res *composer.Result) string {
	if len(res.EnvVars) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ev := range res.EnvVars {
		if ev.Description != "" {
			fmt.Fprintf(&b, "# %s\n", ev.Description)
		}
		value := ev.Example
		if ev.Secret {
			value = ""
		}
		fmt.Fprintf(&b, "%s=%s\n", ev.Key, value)
	}
	return b.String()
}

func docsFile(res *composer.Result) string {
	if len(res.Docs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("# Setup\n")
	for _, d := range res.Docs {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", d.Title, strings.TrimRight(d.Body, "\n"))
	}
	return b.String()
}

// manifestEntry is one file record in quilt.manifest.json.
type manifestEntry struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

type manifest struct {
	RunID      string             `json:"run_id"`
	Files      []manifestEntry    `json:"files"`
	Scripts    map[string]string  `json:"scripts,omitempty"`
	Interfaces []string           `json:"interfaces,omitempty"`
	Warnings   []composer.Warning `json:"warnings,omitempty"`
}

// Manifest renders the machine-readable record of one run: every file path
// with its size, the script and interface surface, and any merge warnings.
func Manifest(res *composer.Result) ([]byte, error) {
	m := manifest{
		RunID:    res.RunID,
		Files:    make([]manifestEntry, 0, len(res.Files)),
		Warnings: res.Warnings,
	}
	paths := make([]string, 0, len(res.Files))
	for p := range res.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		m.Files = append(m.Files, manifestEntry{Path: p, Bytes: len(res.Files[p])})
	}
	if len(res.Scripts) > 0 {
		m.Scripts = make(map[string]string, len(res.Scripts))
		for _, s := range res.Scripts {
			m.Scripts[s.Name] = s.Command
		}
	}
	for _, i := range res.Interfaces {
		m.Interfaces = append(m.Interfaces, i.Name)
	}
	return json.MarshalIndent(m, "", "  ")
}
