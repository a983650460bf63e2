package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// RenderJSON writes report as indented JSON.
func RenderJSON(w io.Writer, report *models.RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderSummary writes the run totals, the failed-finding counts per
// severity, and one line per check that did not complete.
func RenderSummary(w io.Writer, report *models.RunReport, colored bool) {
	s := report.Summary
	fmt.Fprintf(w, "Report:   %s\n", report.ReportID)
	fmt.Fprintf(w, "Checks:   %d (%d errored)\n", s.TotalChecks, s.ErroredChecks)
	fmt.Fprintf(w, "Findings: %d  %s %d  %s %d  %s %d  muted %d\n",
		s.TotalFindings,
		statusColor(models.StatusPass, colored).Sprint("PASS"), s.Pass,
		statusColor(models.StatusFail, colored).Sprint("FAIL"), s.Fail,
		statusColor(models.StatusManual, colored).Sprint("MANUAL"), s.Manual,
		s.Muted,
	)
	if len(s.FailedBySeverity) > 0 {
		fmt.Fprintln(w, "Failed by severity:")
		for _, sev := range models.Severities() {
			if n := s.FailedBySeverity[sev]; n > 0 {
				fmt.Fprintf(w, "  %-13s %d\n", ColorSeverity(sev, colored), n)
			}
		}
	}
	for _, r := range report.Results {
		if r.Failed() {
			fmt.Fprintf(w, "%s %s: %s\n", statusColor(models.StatusFail, colored).Sprint("ERROR"), r.CheckID, r.Error)
		}
	}
}

// RenderCheckList writes one line per check: ID, provider, severity, title.
func RenderCheckList(w io.Writer, checks []models.CheckMetadata, colored bool) {
	if len(checks) == 0 {
		fmt.Fprintln(w, "No checks.")
		return
	}
	const (
		wID       = 55
		wProvider = 11
		wSeverity = 14
	)
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", wID, "CHECK", wProvider, "PROVIDER", wSeverity, "SEVERITY", "TITLE")
	for _, m := range checks {
		fmt.Fprintf(w, "%-*s  %-*s  %s  %s\n",
			wID, m.ID,
			wProvider, m.Provider,
			cell(severityColor(m.Severity, colored), string(m.Severity), wSeverity),
			m.Title,
		)
	}
}
