// Package metrics collects statistics for a generation run.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// GenerationMetrics collects statistics for one composition run.
type GenerationMetrics struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Duration   time.Duration `json:"duration_ms,omitempty"`

	Nodes []NodeMetrics `json:"nodes"`

	FilesGenerated int `json:"files_generated"`
	TotalBytes     int `json:"total_bytes"`
	Merges         int `json:"merges"`
	Warnings       int `json:"warnings"`

	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NodeMetrics records a single node's timing and output volume.
type NodeMetrics struct {
	NodeID   string        `json:"node_id"`
	PluginID string        `json:"plugin_id"`
	Duration time.Duration `json:"duration_ms"`
	Files    int           `json:"files"`
	Merges   int           `json:"merges"`
	Warnings int           `json:"warnings"`
}

// New starts tracking a generation run.
func New(runID string) *GenerationMetrics {
	return &GenerationMetrics{RunID: runID, StartedAt: time.Now()}
}

// AddNode records one processed node.
func (m *GenerationMetrics) AddNode(nm NodeMetrics) {
	m.Nodes = append(m.Nodes, nm)
	m.Merges += nm.Merges
	m.Warnings += nm.Warnings
}

// CollectFiles computes output-side totals from the finalized file map.
func (m *GenerationMetrics) CollectFiles(files map[string]string) {
	m.FilesGenerated = len(files)
	for _, content := range files {
		m.TotalBytes += len(content)
	}
}

// Finish marks the run complete.
func (m *GenerationMetrics) Finish(err error) {
	m.FinishedAt = time.Now()
	m.Duration = m.FinishedAt.Sub(m.StartedAt)
	if err != nil {
		m.Failed = true
		m.Error = err.Error()
	}
}

// PrintSummary writes a human-readable report.
func (m *GenerationMetrics) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\nGeneration %s\n", m.RunID)
	fmt.Fprintf(w, "  Duration:  %s\n", m.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Files:     %d (%s)\n", m.FilesGenerated, formatBytes(m.TotalBytes))
	fmt.Fprintf(w, "  Merges:    %d\n", m.Merges)
	fmt.Fprintf(w, "  Warnings:  %d\n", m.Warnings)
	fmt.Fprintf(w, "  Nodes:\n")
	for _, n := range m.Nodes {
		status := ""
		if n.Warnings > 0 {
			status = fmt.Sprintf("  (%d warnings)", n.Warnings)
		}
		fmt.Fprintf(w, "    %-20s %-18s %8s  %d files%s\n", n.NodeID, n.PluginID, n.Duration.Round(time.Millisecond), n.Files, status)
	}
	if m.Failed {
		fmt.Fprintf(w, "  FAILED: %s\n", m.Error)
	}
}

// JSON returns the metrics as formatted JSON.
func (m *GenerationMetrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func formatBytes(b int) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
