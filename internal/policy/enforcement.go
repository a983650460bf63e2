package policy

import (
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// ShouldFail reports whether any unmuted FAIL finding has a severity at or
// above the configured fail_on_severity threshold.
//
// It returns false when:
//   - cfg is nil (no policy loaded)
//   - fail_on_severity is empty or an unrecognised value
//   - findings is empty
//
// PASS and MANUAL findings never fail a run, nor do muted ones.
func ShouldFail(findings []models.Finding, cfg *Config) bool {
	if cfg == nil || cfg.Enforcement.FailOnSeverity == "" {
		return false
	}
	threshold, ok := models.ParseSeverity(cfg.Enforcement.FailOnSeverity)
	if !ok {
		return false
	}
	for _, f := range findings {
		if f.Status != models.StatusFail || f.Muted {
			continue
		}
		if f.Severity.Rank() >= threshold.Rank() {
			return true
		}
	}
	return false
}
