// Package blueprint defines the composition document a generation run is
// driven by: placed plugin nodes, dependency edges between them, and
// project-level configuration.
package blueprint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one placed instance of a plugin type with its own configuration.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Type   string         `json:"type" yaml:"type"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// EdgeKindDependency is the only edge kind the composer understands. The
// orchestration layer uses dependency edges to order nodes before a run;
// the composer itself consumes nodes in the order given.
const EdgeKindDependency = "dependency"

// Edge links two nodes. Carried opaquely: cycle detection and topological
// ordering are the orchestrator's job, not this engine's.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// ProjectConfig holds project-level settings shared by all plugins.
type ProjectConfig struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Chain   string `json:"chain,omitempty" yaml:"chain,omitempty"`
	Network string `json:"network,omitempty" yaml:"network,omitempty"`
}

// Blueprint is the read-only input to one generation run.
type Blueprint struct {
	Nodes  []Node        `json:"nodes" yaml:"nodes"`
	Edges  []Edge        `json:"edges,omitempty" yaml:"edges,omitempty"`
	Config ProjectConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// Node returns the node with the given id, or nil.
func (b *Blueprint) Node(id string) *Node {
	for i := range b.Nodes {
		if b.Nodes[i].ID == id {
			return &b.Nodes[i]
		}
	}
	return nil
}

// Validate checks structural soundness: unique non-empty node ids, non-empty
// node types, and edges referencing known nodes.
func (b *Blueprint) Validate() error {
	seen := make(map[string]bool, len(b.Nodes))
	for _, n := range b.Nodes {
		if n.ID == "" {
			return fmt.Errorf("blueprint: node with empty id")
		}
		if n.Type == "" {
			return fmt.Errorf("blueprint: node %q has empty type", n.ID)
		}
		if seen[n.ID] {
			return fmt.Errorf("blueprint: duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range b.Edges {
		if !seen[e.Source] {
			return fmt.Errorf("blueprint: edge %q references unknown source %q", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return fmt.Errorf("blueprint: edge %q references unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

// Load reads a blueprint from a JSON or YAML file, chosen by extension.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint: %w", err)
	}

	var bp Blueprint
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bp); err != nil {
			return nil, fmt.Errorf("parsing blueprint %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &bp); err != nil {
			return nil, fmt.Errorf("parsing blueprint %s: %w", path, err)
		}
	}

	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// ConfigString reads a string value from a node's config map.
func (n *Node) ConfigString(key, fallback string) string {
	if v, ok := n.Config[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// ConfigBool reads a boolean value from a node's config map.
func (n *Node) ConfigBool(key string, fallback bool) bool {
	if v, ok := n.Config[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
