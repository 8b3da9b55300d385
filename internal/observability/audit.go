package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventRunStart     AuditEventType = "run.start"
	AuditEventRunComplete  AuditEventType = "run.complete"
	AuditEventRunError     AuditEventType = "run.error"
	AuditEventNodeGenerate AuditEventType = "node.generate"
	AuditEventNodeError    AuditEventType = "node.error"
	AuditEventFileWrite    AuditEventType = "file.write"
	AuditEventFileMerge    AuditEventType = "file.merge"
)

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp   time.Time      `json:"timestamp"`
	EventType   AuditEventType `json:"event_type"`
	RunID       string         `json:"run_id"`
	NodeID      string         `json:"node_id,omitempty"`
	PluginType  string         `json:"plugin_type,omitempty"`
	Path        string         `json:"path,omitempty"`
	Success     bool           `json:"success"`
	Duration    time.Duration  `json:"duration_ms,omitempty"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	ErrorDetail string         `json:"error_detail,omitempty"`
}

// AuditLogger handles audit event logging.
type AuditLogger struct {
	mu      sync.Mutex
	writer  io.Writer
	closer  io.Closer
	runID   string
	enabled bool
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Enabled    bool
	OutputPath string // File path or "stdout"/"stderr"
	RunID      string
}

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:    true,
		OutputPath: "stdout",
	}
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(config *AuditConfig) (*AuditLogger, error) {
	if config == nil {
		config = DefaultAuditConfig()
	}

	var writer io.Writer
	var closer io.Closer
	switch config.OutputPath {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		writer = f
		closer = f
	}

	return &AuditLogger{
		writer:  writer,
		closer:  closer,
		runID:   config.RunID,
		enabled: config.Enabled,
	}, nil
}

// Log writes an audit event as one JSON line.
func (l *AuditLogger) Log(event *AuditEvent) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if _, err := fmt.Fprintf(l.writer, "%s\n", data); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogRunStart records the beginning of a composition run.
func (l *AuditLogger) LogRunStart(runID string, nodeCount int) error {
	return l.Log(&AuditEvent{
		EventType: AuditEventRunStart,
		RunID:     runID,
		Success:   true,
		Details:   map[string]any{"node_count": nodeCount},
	})
}

// LogNodeGenerate records one plugin's generation outcome.
func (l *AuditLogger) LogNodeGenerate(runID, nodeID, pluginType string, fileCount int, duration time.Duration) error {
	return l.Log(&AuditEvent{
		EventType:  AuditEventNodeGenerate,
		RunID:      runID,
		NodeID:     nodeID,
		PluginType: pluginType,
		Success:    true,
		Duration:   duration,
		Details:    map[string]any{"file_count": fileCount},
	})
}

// LogNodeError records a fatal per-node failure.
func (l *AuditLogger) LogNodeError(runID, nodeID, pluginType string, err error) error {
	return l.Log(&AuditEvent{
		EventType:   AuditEventNodeError,
		RunID:       runID,
		NodeID:      nodeID,
		PluginType:  pluginType,
		Success:     false,
		ErrorDetail: err.Error(),
	})
}

// LogFileMerge records a same-path collision that was merged.
func (l *AuditLogger) LogFileMerge(runID, nodeID, path string, warnings []string) error {
	ev := &AuditEvent{
		EventType: AuditEventFileMerge,
		RunID:     runID,
		NodeID:    nodeID,
		Path:      path,
		Success:   true,
	}
	if len(warnings) > 0 {
		ev.Details = map[string]any{"warnings": warnings}
	}
	return l.Log(ev)
}

// LogRunComplete records the end of a run, successful or not.
func (l *AuditLogger) LogRunComplete(runID string, filesWritten int, duration time.Duration, runErr error) error {
	ev := &AuditEvent{
		EventType: AuditEventRunComplete,
		RunID:     runID,
		Success:   runErr == nil,
		Duration:  duration,
		Details:   map[string]any{"files_written": filesWritten},
	}
	if runErr != nil {
		ev.EventType = AuditEventRunError
		ev.ErrorDetail = runErr.Error()
	}
	return l.Log(ev)
}

// Close releases the underlying file if one was opened.
func (l *AuditLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
