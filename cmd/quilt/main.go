package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/composer"
	"github.com/quiltlabs/quilt/internal/config"
	"github.com/quiltlabs/quilt/internal/emit"
	"github.com/quiltlabs/quilt/internal/observability"
	"github.com/quiltlabs/quilt/internal/plugins/builtin"
	"github.com/quiltlabs/quilt/internal/qualitygate"
)

var version = "0.1.0"

func main() {
	var (
		blueprintPath string
		outputDir     string
		configPath    string
		auditPath     string
		jsonReport    bool
		overwrite     bool
		noManifest    bool
		strict        bool
	)

	rootCmd := &cobra.Command{
		Use:   "quilt",
		Short: "Blueprint-driven Web3 project generator",
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a project tree from a blueprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(blueprintPath, outputDir, configPath, auditPath, jsonReport, overwrite, noManifest, strict)
		},
	}
	generateCmd.Flags().StringVar(&blueprintPath, "blueprint", "", "Blueprint file (JSON or YAML)")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "Output directory")
	generateCmd.Flags().StringVar(&configPath, "config", "quilt.yaml", "Config file path")
	generateCmd.Flags().StringVar(&auditPath, "audit-log", "", "Audit log destination (file path, stdout, or stderr; empty disables)")
	generateCmd.Flags().BoolVar(&jsonReport, "json", false, "Output metrics as JSON")
	generateCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Allow writing into a non-empty directory")
	generateCmd.Flags().BoolVar(&noManifest, "no-manifest", false, "Skip writing quilt.manifest.json")
	generateCmd.Flags().BoolVar(&strict, "strict", false, "Reject output that fails the quality gates")
	_ = generateCmd.MarkFlagRequired("blueprint")
	_ = generateCmd.MarkFlagRequired("output")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a blueprint and every node's config without generating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(blueprintPath, jsonReport)
		},
	}
	validateCmd.Flags().StringVar(&blueprintPath, "blueprint", "", "Blueprint file (JSON or YAML)")
	validateCmd.Flags().BoolVar(&jsonReport, "json", false, "Output results as JSON")
	_ = validateCmd.MarkFlagRequired("blueprint")

	pluginsCmd := &cobra.Command{
		Use:   "plugins",
		Short: "List available plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPlugins()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the quilt version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("quilt " + version)
		},
	}

	rootCmd.AddCommand(generateCmd, validateCmd, pluginsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(blueprintPath, outputDir, configPath, auditPath string, jsonReport, overwrite, noManifest, strict bool) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = config.Default()
	}

	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "quilt",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Tracing.Endpoint,
		SampleRate:     1.0,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tp.Shutdown(ctx)

	var audit *observability.AuditLogger
	if auditPath != "" {
		audit, err = observability.NewAuditLogger(&observability.AuditConfig{Enabled: true, OutputPath: auditPath})
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer audit.Close()
	}

	ctx, bpSpan := observability.StartBlueprintSpan(ctx, blueprintPath)
	bp, err := blueprint.Load(blueprintPath)
	if err != nil {
		observability.RecordError(bpSpan, err)
		bpSpan.End()
		return fmt.Errorf("load blueprint: %w", err)
	}
	observability.RecordBlueprintResult(bpSpan, len(bp.Nodes), len(bp.Edges))
	bpSpan.End()

	registry, err := builtin.NewRegistry()
	if err != nil {
		return fmt.Errorf("build plugin registry: %w", err)
	}
	comp := composer.New(registry)

	// Reject invalid node configs before any generation happens.
	ctx, valSpan := observability.StartValidateSpan(ctx, len(bp.Nodes))
	invalid := 0
	for _, nv := range comp.ValidateAll(bp) {
		for _, w := range nv.Result.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: node %s: %s\n", nv.NodeID, w)
		}
		if !nv.Result.Valid {
			invalid++
			for _, fe := range nv.Result.Errors {
				fmt.Fprintf(os.Stderr, "Error: node %s field %s: %s\n", nv.NodeID, fe.Field, fe.Message)
			}
		}
	}
	observability.RecordValidateResult(valSpan, invalid)
	valSpan.End()
	if invalid > 0 {
		return fmt.Errorf("%d node(s) failed validation", invalid)
	}

	if audit != nil {
		_ = audit.LogRunStart("", len(bp.Nodes))
	}

	result, err := comp.Compose(ctx, bp)
	if err != nil {
		if audit != nil {
			_ = audit.LogRunComplete("", 0, time.Since(start), err)
		}
		return fmt.Errorf("compose: %w", err)
	}

	if strict {
		gateResult := qualitygate.DefaultPipeline().Run(qualitygate.ContextFromResult(result, len(bp.Nodes)))
		for _, gr := range gateResult.Gates {
			fmt.Fprintf(os.Stderr, "Gate %-12s %-8s %s\n", gr.Name, gr.Status, gr.Message)
		}
		if gateResult.Status == qualitygate.GateFailed {
			err := fmt.Errorf("quality gates failed: %s", gateResult.Summary)
			if audit != nil {
				_ = audit.LogRunComplete(result.RunID, 0, time.Since(start), err)
			}
			return err
		}
	}

	_, emitSpan := observability.StartEmitSpan(ctx, outputDir, len(result.Files))
	summary, err := emit.New(afero.NewOsFs()).Write(result, emit.Options{
		OutputDir: outputDir,
		Overwrite: overwrite || cfg.Output.Overwrite,
		Manifest:  cfg.Output.Manifest && !noManifest,
	})
	if err != nil {
		observability.RecordError(emitSpan, err)
		emitSpan.End()
		if audit != nil {
			_ = audit.LogRunComplete(result.RunID, 0, time.Since(start), err)
		}
		return fmt.Errorf("write output: %w", err)
	}
	observability.RecordEmitResult(emitSpan, summary.FilesWritten, summary.BytesWritten)
	emitSpan.End()

	if audit != nil {
		for _, w := range result.Warnings {
			_ = audit.LogFileMerge(result.RunID, w.NodeID, w.Path, []string{w.Message})
		}
		_ = audit.LogRunComplete(result.RunID, summary.FilesWritten, time.Since(start), nil)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s (%s): %s\n", w.Path, w.NodeID, w.Message)
	}

	if jsonReport {
		data, _ := result.Metrics.JSON()
		fmt.Println(string(data))
	} else {
		result.Metrics.PrintSummary(os.Stdout)
		fmt.Printf("\nWrote %d files to %s\n", summary.FilesWritten, outputDir)
	}

	return nil
}

func runValidate(blueprintPath string, jsonReport bool) error {
	bp, err := blueprint.Load(blueprintPath)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	registry, err := builtin.NewRegistry()
	if err != nil {
		return fmt.Errorf("build plugin registry: %w", err)
	}

	results := composer.New(registry).ValidateAll(bp)

	if jsonReport {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, nv := range results {
			status := "ok"
			if !nv.Result.Valid {
				status = "invalid"
			}
			fmt.Printf("%-20s %-16s %s\n", nv.NodeID, nv.Type, status)
			for _, fe := range nv.Result.Errors {
				fmt.Printf("  error: %s: %s\n", fe.Field, fe.Message)
			}
			for _, w := range nv.Result.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
	}

	for _, nv := range results {
		if !nv.Result.Valid {
			return fmt.Errorf("blueprint has invalid nodes")
		}
	}
	return nil
}

func listPlugins() error {
	registry, err := builtin.NewRegistry()
	if err != nil {
		return fmt.Errorf("build plugin registry: %w", err)
	}

	fmt.Println("Available plugins:")
	fmt.Println()
	for _, id := range registry.IDs() {
		p, err := registry.Resolve(id)
		if err != nil {
			return err
		}
		md := p.Metadata()
		fmt.Printf("  %-16s %-10s %s (v%s)\n", md.ID, md.Category, md.Name, md.Version)
	}
	return nil
}
