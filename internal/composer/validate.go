package composer

import (
	"fmt"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// NodeValidation pairs a node with its plugin's validation result.
type NodeValidation struct {
	NodeID string                   `json:"node_id"`
	Type   string                   `json:"type"`
	Result plugins.ValidationResult `json:"result"`
}

// ValidateAll runs every node's config validation and collects the results
// for batch reporting. A read-only check, separate from Compose: callers
// typically validate all nodes before generating any. A node whose type is
// not registered is reported as an invalid result rather than aborting, so
// one broken node does not hide the others' findings.
func (c *Composer) ValidateAll(bp *blueprint.Blueprint) []NodeValidation {
	out := make([]NodeValidation, 0, len(bp.Nodes))
	for i := range bp.Nodes {
		node := &bp.Nodes[i]
		nv := NodeValidation{NodeID: node.ID, Type: node.Type}

		plugin, err := c.registry.Resolve(node.Type)
		if err != nil {
			nv.Result = plugins.ValidationResult{
				Valid: false,
				Errors: []plugins.FieldError{{
					Field:   "type",
					Message: fmt.Sprintf("no registered plugin for type %q", node.Type),
					Code:    "unknown-plugin",
				}},
			}
		} else {
			nv.Result = plugin.Validate(node)
		}
		out = append(out, nv)
	}
	return out
}
