package metrics

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAddNode_Aggregates(t *testing.T) {
	m := New("run-1")
	m.AddNode(NodeMetrics{NodeID: "scaffold-1", PluginID: "nextjs-scaffold", Files: 6})
	m.AddNode(NodeMetrics{NodeID: "wallet-1", PluginID: "wallet-auth", Files: 5, Merges: 1, Warnings: 2})

	if len(m.Nodes) != 2 {
		t.Fatalf("nodes = %d", len(m.Nodes))
	}
	if m.Merges != 1 {
		t.Errorf("merges = %d", m.Merges)
	}
	if m.Warnings != 2 {
		t.Errorf("warnings = %d", m.Warnings)
	}
}

func TestCollectFiles(t *testing.T) {
	m := New("run-1")
	m.CollectFiles(map[string]string{
		"package.json": "{}",
		"README.md":    "hello",
	})
	if m.FilesGenerated != 2 {
		t.Errorf("files = %d", m.FilesGenerated)
	}
	if m.TotalBytes != 7 {
		t.Errorf("bytes = %d", m.TotalBytes)
	}
}

func TestFinish(t *testing.T) {
	m := New("run-1")
	m.Finish(nil)
	if m.Failed {
		t.Error("clean finish marked failed")
	}
	if m.FinishedAt.IsZero() {
		t.Error("FinishedAt not set")
	}

	m = New("run-2")
	m.Finish(errors.New("plugin not registered"))
	if !m.Failed || m.Error != "plugin not registered" {
		t.Errorf("failed=%v error=%q", m.Failed, m.Error)
	}
}

func TestPrintSummary(t *testing.T) {
	m := New("run-1")
	m.AddNode(NodeMetrics{NodeID: "erc20-1", PluginID: "erc20-stylus", Duration: 3 * time.Millisecond, Files: 4})
	m.CollectFiles(map[string]string{"contracts/erc20-1/src/lib.rs": "fn main() {}"})
	m.Finish(nil)

	var b strings.Builder
	m.PrintSummary(&b)
	out := b.String()

	for _, want := range []string{"run-1", "erc20-1", "erc20-stylus", "Files:     1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_Failed(t *testing.T) {
	m := New("run-1")
	m.Finish(errors.New("generate: boom"))

	var b strings.Builder
	m.PrintSummary(&b)
	if !strings.Contains(b.String(), "FAILED: generate: boom") {
		t.Errorf("summary missing failure line:\n%s", b.String())
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	m := New("run-1")
	m.AddNode(NodeMetrics{NodeID: "bot-1", PluginID: "telegram-bot", Files: 2})
	m.Finish(nil)

	data, err := m.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded GenerationMetrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Nodes) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
