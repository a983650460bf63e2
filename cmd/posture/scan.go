package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks"
	"github.com/pankaj-dahiya-devops/posture/internal/config"
	"github.com/pankaj-dahiya-devops/posture/internal/engine"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/output"
	"github.com/pankaj-dahiya-devops/posture/internal/policy"
	"github.com/pankaj-dahiya-devops/posture/internal/snapshot"
)

// scanRequest holds the scan flags that are not config keys.
type scanRequest struct {
	snapshotPath string
	providers    []models.Provider
	include      []string
	exclude      []string
	failedOnly   bool
	showScope    bool
}

func newScanCmd(a *app) *cobra.Command {
	var (
		req       scanRequest
		providers []string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run security checks against a resource snapshot",
		Long: `Run every registered check against the resources in a snapshot file.

Exit status is 1 when the scan policy's enforcement.fail_on_severity
threshold is met by an unmuted FAIL finding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provs, err := parseProviders(providers)
			if err != nil {
				return err
			}
			req.providers = provs
			return a.runScan(cmd.Context(), cmd.OutOrStdout(), req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.snapshotPath, "snapshot", "", "Snapshot file to scan (required)")
	f.StringSliceVar(&providers, "provider", nil, "Only run checks for these providers: azure, aws, kubernetes")
	f.StringSliceVar(&req.include, "check", nil, "Only run these check IDs")
	f.StringSliceVar(&req.exclude, "exclude-check", nil, "Skip these check IDs")
	f.BoolVar(&req.failedOnly, "failed-only", false, "Hide PASS findings in table output")
	f.BoolVar(&req.showScope, "show-scope", false, "Add a SCOPE column to table output")
	f.String("policy", "", "Scan policy file")
	f.Int("concurrency", engine.DefaultConcurrency, "Maximum number of checks running at once")
	f.Duration("timeout", 0, "Abort the scan after this long (0 means no limit)")
	f.String("output", config.OutputTable, "Output format: table, json, or summary")
	f.String("output-file", "", "Write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func (a *app) runScan(ctx context.Context, stdout io.Writer, req scanRequest) error {
	logger := zerolog.Ctx(ctx)

	set, err := snapshot.Load(req.snapshotPath)
	if err != nil {
		return err
	}
	reg := checkpacks.All(set)

	for _, id := range append(append([]string{}, req.include...), req.exclude...) {
		if _, ok := reg.Get(id); !ok {
			return fmt.Errorf("unknown check %q", id)
		}
	}

	pol, err := loadPolicy(a.cfg.Policy, reg.IDs())
	if err != nil {
		return err
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	logger.Debug().
		Str("snapshot", req.snapshotPath).
		Int("resources", set.ResourceCount()).
		Int("concurrency", a.cfg.Concurrency).
		Msg("starting scan")

	report := engine.NewRunner(a.cfg.Concurrency, pol).Scan(ctx, reg, engine.ScanOptions{
		Providers: req.providers,
		Include:   req.include,
		Exclude:   req.exclude,
	})

	if err := a.writeReport(stdout, report, req); err != nil {
		return err
	}

	if policy.ShouldFail(report.Findings, pol) {
		return fmt.Errorf("%w: unmuted FAIL findings at or above %s", errEnforcementFailed, pol.Enforcement.FailOnSeverity)
	}
	return nil
}

// writeReport renders report to stdout, or to the configured output file.
func (a *app) writeReport(stdout io.Writer, report *models.RunReport, req scanRequest) error {
	if a.cfg.OutputFile == "" {
		return render(stdout, report, a.cfg.Output, output.TableOptions{
			Colored:      a.colored(stdout),
			FailedOnly:   req.failedOnly,
			IncludeScope: req.showScope,
		})
	}

	f, err := os.Create(a.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := render(f, report, a.cfg.Output, output.TableOptions{
		FailedOnly:   req.failedOnly,
		IncludeScope: req.showScope,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", a.cfg.OutputFile)
	return nil
}

func render(w io.Writer, report *models.RunReport, format string, opts output.TableOptions) error {
	switch format {
	case config.OutputJSON:
		return output.RenderJSON(w, report)
	case config.OutputSummary:
		output.RenderSummary(w, report, opts.Colored)
	default:
		output.RenderTable(w, report.Findings, opts)
		fmt.Fprintln(w)
		output.RenderSummary(w, report, opts.Colored)
	}
	return nil
}

// loadPolicy loads and validates the policy at path. An empty path means no
// policy.
func loadPolicy(path string, checkIDs []string) (*policy.Config, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := policy.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := policy.Validate(cfg, checkIDs); len(errs) > 0 {
		return nil, fmt.Errorf("policy %q: %w", path, errors.Join(errs...))
	}
	return cfg, nil
}
