package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/policy"
	"github.com/pankaj-dahiya-devops/posture/internal/snapshot"
)

// ValidateResult is the structured output of posture validate. It can be
// serialised to JSON via --format=json or rendered as a human-readable table
// (default).
type ValidateResult struct {
	Snapshot struct {
		Path      string            `json:"path"`
		Valid     bool              `json:"valid"`
		Providers []models.Provider `json:"providers,omitempty"`
		Resources int               `json:"resources"`
		Errors    []string          `json:"errors,omitempty"`
	} `json:"snapshot"`

	Policy struct {
		Path    string   `json:"path,omitempty"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		snapshotPath string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a snapshot file and scan policy without running checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runValidate(cmd.OutOrStdout(), format, snapshotPath, a.cfg.Policy)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file to validate (required)")
	cmd.Flags().String("policy", "", "Scan policy file to validate")
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

// runValidate collects the validation result, renders it to w in the
// requested format, and returns it. The returned error covers only rendering
// failures; callers inspect result.OverallHealthy.
func runValidate(w io.Writer, format, snapshotPath, policyPath string) (ValidateResult, error) {
	result := collectValidateResult(snapshotPath, policyPath)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode validate result: %w", err)
		}
	default:
		renderValidateTable(result, w)
	}

	return result, nil
}

// collectValidateResult reads and checks both files. It performs no rendering.
func collectValidateResult(snapshotPath, policyPath string) ValidateResult {
	var result ValidateResult

	// Snapshot: read → validate every identifier → build clients.
	result.Snapshot.Path = snapshotPath
	f, err := snapshot.Read(snapshotPath)
	if err != nil {
		result.Snapshot.Errors = []string{err.Error()}
	} else if errs := f.Validate(); len(errs) > 0 {
		for _, e := range errs {
			result.Snapshot.Errors = append(result.Snapshot.Errors, e.Error())
		}
	} else {
		set := f.Build()
		result.Snapshot.Valid = true
		result.Snapshot.Providers = set.Providers()
		result.Snapshot.Resources = set.ResourceCount()
	}

	// Policy: load → validate against the registered check IDs (optional).
	if policyPath != "" {
		result.Policy.Path = policyPath
		result.Policy.Present = true
		cfg, err := policy.Load(policyPath)
		if err != nil {
			result.Policy.Errors = []string{err.Error()}
		} else if errs := policy.Validate(cfg, checkpacks.All(nil).IDs()); len(errs) > 0 {
			for _, e := range errs {
				result.Policy.Errors = append(result.Policy.Errors, e.Error())
			}
		} else {
			result.Policy.Valid = true
		}
	}

	result.OverallHealthy = result.Snapshot.Valid &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}

// renderValidateTable writes the human-readable validation output to w.
func renderValidateTable(result ValidateResult, w io.Writer) {
	fmt.Fprintln(w, "Validation")

	fmt.Fprintf(w, "\nSnapshot (%s):\n", result.Snapshot.Path)
	if result.Snapshot.Valid {
		validatePrint(w, "Snapshot valid", "OK", "")
		validatePrint(w, "Providers", fmt.Sprint(len(result.Snapshot.Providers)), providerList(result.Snapshot.Providers))
		validatePrint(w, "Resources", fmt.Sprint(result.Snapshot.Resources), "")
	} else {
		for _, e := range result.Snapshot.Errors {
			validatePrint(w, "Snapshot valid", "FAIL", e)
		}
	}

	fmt.Fprintln(w, "\nPolicy:")
	if !result.Policy.Present {
		validatePrint(w, "Policy present", "Not set (optional)", "")
		return
	}
	validatePrint(w, "Policy present", "YES", result.Policy.Path)
	if result.Policy.Valid {
		validatePrint(w, "Policy valid", "OK", "")
		return
	}
	for _, e := range result.Policy.Errors {
		validatePrint(w, "Policy valid", "FAIL", e)
	}
}

func providerList(ps []models.Provider) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += ", "
		}
		s += string(p)
	}
	return s
}

// validatePrint writes a single result line to w. When detail is non-empty it
// is appended in parentheses.
func validatePrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
